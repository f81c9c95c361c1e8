package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Golden compares got with testdata/<name>.golden in the calling package.
// Run with GOLDEN_UPDATE=1 to rewrite the file instead.
func Golden(t testing.TB, name string, got []byte) {
	t.Helper()

	path := filepath.Join("testdata", name+".golden")
	if os.Getenv("GOLDEN_UPDATE") != "" {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, got, 0o644))
		return
	}

	want, err := os.ReadFile(path)
	require.NoError(t, err, "missing golden file; got:\n%s", got)
	assert.Equal(t, string(want), string(got), "output mismatch for %s", name)
}
