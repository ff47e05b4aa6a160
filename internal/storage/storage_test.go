package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorePutAndExists(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	n, err := store.Put("report.pdf", strings.NewReader("content"))
	require.NoError(t, err)
	assert.Equal(t, int64(len("content")), n)
	assert.True(t, store.Exists("report.pdf"))
	assert.False(t, store.Exists("missing.pdf"))
}

func TestLocalStorePutIgnoresDirectoryComponents(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root)
	require.NoError(t, err)

	_, err = store.Put("../escape.txt", strings.NewReader("x"))
	require.NoError(t, err)

	// the blob lands inside the root, never above it
	_, statErr := os.Stat(filepath.Join(root, "escape.txt"))
	assert.NoError(t, statErr)
	_, statErr = os.Stat(filepath.Join(filepath.Dir(root), "escape.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLocalStoreCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "uploads")

	_, err := NewLocalStore(root)
	require.NoError(t, err)

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
