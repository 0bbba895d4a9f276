package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveReadDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	rel, err := store.Save("exp-1/planning.csv", []byte("a,b"))
	require.NoError(t, err)
	assert.Equal(t, "exp-1/planning.csv", rel)

	data, err := store.Read(rel)
	require.NoError(t, err)
	assert.Equal(t, "a,b", string(data))

	require.NoError(t, store.Delete(rel))
	_, err = store.Read(rel)
	assert.Error(t, err)
	assert.NoError(t, store.Delete(rel))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, path := range []string{"../escape.csv", "a/../../escape.csv", "/etc/passwd", ""} {
		_, err := store.Save(path, []byte("x"))
		assert.Error(t, err, path)
	}
}

func TestLocalStorageCleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = store.Save("old/a.pdf", []byte("old"))
	require.NoError(t, err)
	_, err = store.Save("new/b.pdf", []byte("new"))
	require.NoError(t, err)

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "old", "a.pdf"), past, past))

	deleted, err := store.CleanupOlderThan(time.Now(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"old/a.pdf"}, deleted)

	_, err = store.Read("new/b.pdf")
	assert.NoError(t, err)
}
