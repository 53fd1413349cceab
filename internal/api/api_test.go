package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Abdorithm/alx-files-manager/pkg/auth"
	"github.com/Abdorithm/alx-files-manager/pkg/blob"
	"github.com/Abdorithm/alx-files-manager/pkg/db/store"
	"github.com/Abdorithm/alx-files-manager/pkg/files"
	"github.com/Abdorithm/alx-files-manager/pkg/log"
	"github.com/Abdorithm/alx-files-manager/pkg/queue"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type recordingSink struct {
	mutex sync.Mutex
	jobs  []queue.Job
}

func (s *recordingSink) Enqueue(_ context.Context, job queue.Job) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.jobs = append(s.jobs, job)
	return nil
}

type testServer struct {
	*httptest.Server
	mr     *miniredis.Miniredis
	sink   *recordingSink
	jwt    *auth.JWTVerifier
	client *http.Client
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	st, err := store.NewSQLiteStore(store.SQLiteConfig{Path: filepath.Join(t.TempDir(), "api.db")})
	require.NoError(t, err)
	require.NoError(t, st.Connect(ctx))
	require.NoError(t, st.Migrate(ctx))
	t.Cleanup(func() { st.Close() })

	logger := log.NewDiscardLogger()
	tokens := auth.NewTokenStore(rdb, time.Hour)
	verifier := auth.NewJWTVerifier("test-secret")
	resolver := auth.NewResolver(st, tokens, verifier)
	sink := &recordingSink{}
	manager := files.New(files.Config{FolderPath: filepath.Join(t.TempDir(), "store")},
		st, blob.NewLocalStore(), sink, resolver, logger)

	router := NewRouter(Options{
		Files:       manager,
		Accounts:    auth.NewAccounts(st, tokens).WithCost(bcrypt.MinCost),
		Resolver:    resolver,
		Redis:       tokens,
		Database:    PingFunc(st.Health),
		Counter:     st,
		Logger:      logger,
		MaxBodySize: 1 << 20,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, mr: mr, sink: sink, jwt: verifier, client: srv.Client()}
}

func (ts *testServer) do(t *testing.T, method, path string, headers map[string]string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := ts.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

// login registers a user and returns its X-Token header.
func (ts *testServer) login(t *testing.T, email string) map[string]string {
	t.Helper()

	resp, _ := ts.do(t, http.MethodPost, "/users", nil, map[string]string{"email": email, "password": "toto1234!"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := ts.do(t, http.MethodGet, "/connect", map[string]string{
		"Authorization": "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":toto1234!")),
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tok tokenResponse
	require.NoError(t, json.Unmarshal(body, &tok))
	require.NotEmpty(t, tok.Token)
	return map[string]string{"X-Token": tok.Token}
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func errorOf(t *testing.T, data []byte) string {
	return decode[errorBody](t, data).Error
}

func path(p files.Projection, suffix string) string {
	return "/files/" + strconv.FormatUint(uint64(p.ID), 10) + suffix
}

func TestUploadAndShowScenario(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "bob@dylan.com")

	resp, body := ts.do(t, http.MethodPost, "/files", token, map[string]any{
		"name": "a.txt",
		"type": "file",
		"data": base64.StdEncoding.EncodeToString([]byte("hello")),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.NotContains(t, string(body), "localPath")

	created := decode[files.Projection](t, body)
	assert.Equal(t, "a.txt", created.Name)
	assert.Equal(t, files.KindFile, created.Kind)
	assert.Equal(t, uint(0), created.ParentID)
	assert.False(t, created.IsPublic)

	resp, body = ts.do(t, http.MethodGet, path(created, ""), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created, decode[files.Projection](t, body))

	raw := decode[map[string]any](t, body)
	assert.ElementsMatch(t, []string{"id", "name", "kind", "parentId", "isPublic", "ownerId"}, keys(raw))

	resp, body = ts.do(t, http.MethodGet, path(created, "/data"), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello", string(body))
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))

	resp, body = ts.do(t, http.MethodGet, path(created, "/data?size=500"), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not found", errorOf(t, body))
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestUploadErrors(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "bob@dylan.com")

	resp, body := ts.do(t, http.MethodPost, "/files", nil, map[string]any{"name": "x", "type": "folder"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Unauthorized", errorOf(t, body))

	resp, body = ts.do(t, http.MethodPost, "/files", token, "{not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing name", errorOf(t, body))

	resp, body = ts.do(t, http.MethodPost, "/files", token, map[string]any{"name": "x", "type": "video"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing type", errorOf(t, body))

	resp, body = ts.do(t, http.MethodPost, "/files", token, map[string]any{"name": "x", "type": "file"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing data", errorOf(t, body))

	resp, body = ts.do(t, http.MethodPost, "/files", token, map[string]any{"name": "x", "type": "folder", "parentId": 77})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Parent not found", errorOf(t, body))
}

func TestUploadAboveBodyLimit(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "bob@dylan.com")

	big := `{"name":"big.bin","type":"file","data":"` + strings.Repeat("A", 1<<20) + `"}`

	resp, body := ts.do(t, http.MethodPost, "/files", nil, big)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Unauthorized", errorOf(t, body))

	resp, body = ts.do(t, http.MethodPost, "/files", token, big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, "Payload too large", errorOf(t, body))

	resp, body = ts.do(t, http.MethodGet, "/files", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(body))
}

func TestFolderHierarchyAndListing(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "bob@dylan.com")
	other := ts.login(t, "alice@dylan.com")

	resp, body := ts.do(t, http.MethodPost, "/files", token, map[string]any{"name": "images", "kind": "folder"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	folder := decode[files.Projection](t, body)

	resp, body = ts.do(t, http.MethodGet, path(folder, "/data"), token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "A folder doesn't have content", errorOf(t, body))

	resp, body = ts.do(t, http.MethodPost, "/files", token, map[string]any{
		"name":     "pic.png",
		"type":     "image",
		"parentId": folder.ID,
		"data":     base64.StdEncoding.EncodeToString([]byte("fake png")),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	img := decode[files.Projection](t, body)
	assert.Equal(t, folder.ID, img.ParentID)

	require.Len(t, ts.sink.jobs, 1)
	assert.Equal(t, queue.Job{UserID: img.OwnerID, FileID: img.ID}, ts.sink.jobs[0])

	resp, body = ts.do(t, http.MethodPost, "/files", token, map[string]any{
		"name":     "nested",
		"type":     "folder",
		"parentId": strconv.FormatUint(uint64(img.ID), 10),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Parent is not a folder", errorOf(t, body))

	resp, body = ts.do(t, http.MethodGet, "/files?parentId="+strconv.FormatUint(uint64(folder.ID), 10), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]files.Projection](t, body)
	require.Len(t, list, 1)
	assert.Equal(t, img.ID, list[0].ID)

	resp, body = ts.do(t, http.MethodGet, "/files?page=9", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(body))

	resp, body = ts.do(t, http.MethodGet, "/files", other, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(body))

	resp, _ = ts.do(t, http.MethodGet, path(folder, ""), other, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPublishControlsContentAccess(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "bob@dylan.com")
	other := ts.login(t, "alice@dylan.com")

	resp, body := ts.do(t, http.MethodPost, "/files", token, map[string]any{
		"name": "notes.txt",
		"type": "file",
		"data": base64.StdEncoding.EncodeToString([]byte("secret")),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	f := decode[files.Projection](t, body)

	resp, _ = ts.do(t, http.MethodGet, path(f, "/data"), nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = ts.do(t, http.MethodGet, path(f, "/data"), other, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPut, path(f, "/publish"), other, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	for i := 0; i < 2; i++ {
		resp, body = ts.do(t, http.MethodPut, path(f, "/publish"), token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, decode[files.Projection](t, body).IsPublic)
	}

	resp, body = ts.do(t, http.MethodGet, path(f, "/data"), nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "secret", string(body))

	resp, body = ts.do(t, http.MethodPut, path(f, "/unpublish"), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[files.Projection](t, body).IsPublic)

	resp, _ = ts.do(t, http.MethodGet, path(f, "/data"), nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPut, path(f, "/publish"), nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAccounts(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodPost, "/users", nil, map[string]string{"password": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing email", errorOf(t, body))

	resp, body = ts.do(t, http.MethodPost, "/users", nil, map[string]string{"email": "bob@dylan.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing password", errorOf(t, body))

	token := ts.login(t, "bob@dylan.com")

	resp, body = ts.do(t, http.MethodPost, "/users", nil, map[string]string{"email": "bob@dylan.com", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Already exist", errorOf(t, body))

	resp, body = ts.do(t, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[auth.Principal](t, body)
	assert.Equal(t, "bob@dylan.com", me.Email)

	bearer, err := ts.jwt.Sign(me.ID, time.Minute)
	require.NoError(t, err)
	resp, _ = ts.do(t, http.MethodGet, "/users/me", map[string]string{"Authorization": "Bearer " + bearer}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, "/connect", map[string]string{
		"Authorization": "Basic " + base64.StdEncoding.EncodeToString([]byte("bob@dylan.com:wrong")),
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, "/connect", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, "/disconnect", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, "/disconnect", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, "/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStatusAndStats(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodGet, "/status", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"redis":true,"db":true}`, string(body))

	token := ts.login(t, "bob@dylan.com")
	ts.do(t, http.MethodPost, "/files", token, map[string]any{"name": "a", "type": "folder"})

	resp, body = ts.do(t, http.MethodGet, "/stats", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"users":1,"files":1}`, string(body))

	ts.mr.Close()
	resp, body = ts.do(t, http.MethodGet, "/status", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"redis":false,"db":true}`, string(body))
}

func TestMetricsAndUnknownRoutes(t *testing.T) {
	ts := newTestServer(t)

	ts.do(t, http.MethodGet, "/status", nil, nil)
	resp, body := ts.do(t, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "fm_http_requests_total")

	resp, body = ts.do(t, http.MethodGet, "/nowhere", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not found", errorOf(t, body))
}
