package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"

	config "github.com/Abdorithm/alx-files-manager/internal/config/server"
	"github.com/Abdorithm/alx-files-manager/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeAddress(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestServerLifecycle(t *testing.T) {
	addr := freeAddress(t)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})

	srv := New(config.HTTPServerConfig{Address: addr, ReadTimeout: "5s", WriteTimeout: "5s"}, handler, log.NewDiscardLogger())
	errc, err := srv.Start()
	require.NoError(t, err)

	resp, err := http.Get("http://" + addr + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	require.NoError(t, srv.Shutdown(context.Background()))
	_, open := <-errc
	assert.False(t, open)
}

func TestServerStartFailsOnBusyAddress(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	srv := New(config.HTTPServerConfig{Address: l.Addr().String()}, http.NotFoundHandler(), log.NewDiscardLogger())
	_, err = srv.Start()
	assert.Error(t, err)
}
