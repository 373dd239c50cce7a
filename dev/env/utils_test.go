package devenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsWorkspaceRoot(t *testing.T) {
	dir := t.TempDir()
	require.False(t, isWorkspaceRoot(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module other\n\ngo 1.22\n"), 0644))
	require.False(t, isWorkspaceRoot(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module listingsdash\n\ngo 1.22.2\n"), 0644))
	require.True(t, isWorkspaceRoot(dir))
}

func TestResolvePath(t *testing.T) {
	path, err := ResolvePath("listings.db")
	require.NoError(t, err)
	require.Equal(t, "listings.db", path)

	// tests run inside the module, so the workspace root is found
	path, err = ResolvePath("<dev_state>/listings.db")
	require.NoError(t, err)
	require.Equal(t, "listings.db", filepath.Base(path))
	require.Equal(t, ".state", filepath.Base(filepath.Dir(path)))
}
