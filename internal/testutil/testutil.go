// Package testutil provides shared test helpers: config fixtures and an in-memory remote store.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestUserID is the user written into generated config files.
const TestUserID = "7f9c2ba4-e88f-4b57-b1a3-2f1f4a6f3c21"

// SetupTestConfig creates a config file using the file store under tmpDir.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()
	return SetupTestConfigWithRemote(t, tmpDir, "http://127.0.0.1:1")
}

// SetupTestConfigWithRemote creates a config file pointing the REST remote at baseURL.
func SetupTestConfigWithRemote(t *testing.T, tmpDir, baseURL string) string {
	t.Helper()

	dataDir := filepath.Join(tmpDir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0755))

	configContent := fmt.Sprintf(`user:
  id: %s
storage:
  driver: file
  path: %s
remote:
  driver: rest
  rest:
    base_url: %s
    api_key: test-key
    timeout: 2s
sync:
  flush_timeout: 2s
  retry_attempts: 1
`, TestUserID, dataDir, baseURL)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}
