package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/lingosync/internal/config"
)

func TestSetupTestConfig(t *testing.T) {
	tmpDir := t.TempDir()
	got := SetupTestConfig(t, tmpDir)

	assert.Equal(t, filepath.Join(tmpDir, "config.yml"), got)

	info, err := os.Stat(filepath.Join(tmpDir, "data"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	loader, err := config.NewConfigLoader(got)
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, TestUserID, cfg.User.ID)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, filepath.Join(tmpDir, "data"), cfg.Storage.Path)
	assert.Equal(t, "http://127.0.0.1:1", cfg.Remote.REST.BaseURL)
	assert.Equal(t, uint(1), cfg.Sync.RetryAttempts)
}

func TestSetupTestConfigWithRemote(t *testing.T) {
	tmpDir := t.TempDir()
	got := SetupTestConfigWithRemote(t, tmpDir, "http://example.test")

	content, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Contains(t, string(content), "base_url: http://example.test")
	assert.Contains(t, string(content), "api_key: test-key")
}
