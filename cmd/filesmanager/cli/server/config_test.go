package server

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	config "github.com/Abdorithm/alx-files-manager/internal/config/server"
)

func runGenerate(t *testing.T, args ...string) string {
	t.Helper()

	cmd := NewConfigCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(append([]string{"generate"}, args...))

	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestConfigGenerate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	t.Run("writes defaults", func(t *testing.T) {
		out := runGenerate(t, "--output", dir)
		assert.Contains(t, out, "Generated")

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var cfg config.BaseServerConfig
		require.NoError(t, yaml.Unmarshal(data, &cfg))
		assert.Equal(t, config.GetServerDefault().Storage.FolderPath, cfg.Storage.FolderPath)
	})

	t.Run("keeps an existing file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("custom: true\n"), 0644))

		out := runGenerate(t, "--output", dir)
		assert.Contains(t, out, "Skipping")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "custom: true\n", string(data))
	})

	t.Run("overwrites on request", func(t *testing.T) {
		runGenerate(t, "--output", dir, "--overwrite")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotEqual(t, "custom: true\n", string(data))
	})
}
