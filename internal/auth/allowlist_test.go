package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTokenFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tokens.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadAllowlist(t *testing.T) {
	path := writeTokenFile(t, `# production servers
server-alpha-token

server-beta-token
# retired
`)

	allowlist, err := LoadAllowlist(path)
	require.NoError(t, err)

	assert.Equal(t, 2, allowlist.Len())
	assert.True(t, allowlist.Contains("server-alpha-token"))
	assert.True(t, allowlist.Contains("server-beta-token"))
	assert.False(t, allowlist.Contains("# production servers"))
	assert.False(t, allowlist.Contains(""))
	assert.False(t, allowlist.Contains("unknown"))
}

func TestLoadAllowlistCRLF(t *testing.T) {
	path := writeTokenFile(t, "server-alpha-token\r\n# comment\r\n")

	allowlist, err := LoadAllowlist(path)
	require.NoError(t, err)
	assert.True(t, allowlist.Contains("server-alpha-token"))
	assert.Equal(t, 1, allowlist.Len())
}

func TestLoadAllowlistMissingFile(t *testing.T) {
	_, err := LoadAllowlist(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
