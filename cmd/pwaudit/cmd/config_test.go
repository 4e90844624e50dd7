package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/pwaudit/pkg/config"
)

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pwaudit", "config.yaml")

	var out bytes.Buffer
	require.NoError(t, initConfig(path, false, &out))
	assert.Contains(t, out.String(), path)
	assert.FileExists(t, path)

	loaded, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), loaded)

	err = initConfig(path, false, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, initConfig(path, true, &out))
}

func TestLoadConfig(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "c.yaml")
		require.NoError(t, os.WriteFile(path, []byte("policy: position\n"), 0644))

		loaded, err := loadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "position", loaded.Policy)
	})

	t.Run("missing explicit path", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("no default file", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		loaded, err := loadConfig("")
		require.NoError(t, err)
		assert.Equal(t, config.DefaultConfig(), loaded)
	})
}
