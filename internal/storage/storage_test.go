package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	root := t.TempDir()
	store, err := NewFileStore(root)
	require.NoError(t, err)
	require.NoError(t, store.InitLibrary())

	for _, dir := range []string{"store", "exports"} {
		info, err := os.Stat(filepath.Join(root, dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	_, ok, err := store.Get(KeyProjects)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(KeyProjects, `[{"id":"a"}]`))
	require.NoError(t, store.Set(KeyActiveProject, "a"))

	value, ok, err := store.Get(KeyProjects)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, value)

	// a second store over the same directory sees the same data
	reopened, err := NewFileStore(root)
	require.NoError(t, err)
	active, ok, err := reopened.Get(KeyActiveProject)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a", active)
}

func TestFileStoreSetWithoutInit(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "fresh"))
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyActiveProject, ""))
	value, ok, err := store.Get(KeyActiveProject)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, value)
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	root := t.TempDir()
	store, err := NewFileStore(root)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Set(KeyProjects, "[]"))
	}

	entries, err := os.ReadDir(filepath.Join(root, "store"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, KeyProjects, entries[0].Name())
}

func TestFileStoreRejectsBadKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../escape", "UPPER", "a/b"} {
		assert.Error(t, store.Set(key, "x"), key)
		_, _, err := store.Get(key)
		assert.Error(t, err, key)
	}
}

func TestWriteExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	path, err := WriteExport(dir, "../My_Book_book.txt", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "My_Book_book.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore()

	_, ok, err := m.Get(KeyProjects)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(KeyProjects, "[]"))
	v, ok, _ := m.Get(KeyProjects)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
	assert.Equal(t, 1, m.Len())

	boom := errors.New("quota exceeded")
	m.FailWrites = boom
	assert.ErrorIs(t, m.Set(KeyProjects, "[1]"), boom)
	v, _, _ = m.Get(KeyProjects)
	assert.Equal(t, "[]", v)
}
