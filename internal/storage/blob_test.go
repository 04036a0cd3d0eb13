package storage

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "blobs"))
	require.NoError(t, err)
	return s
}

func TestStorePutOpen(t *testing.T) {
	s := newStore(t)

	n, err := s.Put("a.bin", strings.NewReader("hello blobs"))
	require.NoError(t, err)
	assert.Equal(t, int64(11), n)
	assert.True(t, s.Exists("a.bin"))

	f, err := s.Open("a.bin")
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "hello blobs", string(data))
}

func TestStorePutOverwrites(t *testing.T) {
	s := newStore(t)

	_, err := s.Put("a.bin", strings.NewReader("first"))
	require.NoError(t, err)
	_, err = s.Put("a.bin", strings.NewReader("second"))
	require.NoError(t, err)

	f, err := s.Open("a.bin")
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestStoreDelete(t *testing.T) {
	s := newStore(t)

	_, err := s.Put("a.bin", strings.NewReader("x"))
	require.NoError(t, err)
	require.NoError(t, s.Delete("a.bin"))
	assert.False(t, s.Exists("a.bin"))

	// Deleting a missing blob is a no-op.
	assert.NoError(t, s.Delete("a.bin"))
	assert.NoError(t, s.Delete("never-existed"))
}

func TestStoreCopy(t *testing.T) {
	s := newStore(t)

	_, err := s.Put("src.bin", strings.NewReader("payload"))
	require.NoError(t, err)
	require.NoError(t, s.Copy("src.bin", "dst.bin"))

	f, err := s.Open("dst.bin")
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	assert.Error(t, s.Copy("missing.bin", "out.bin"))
}

func TestNewStores(t *testing.T) {
	dir := t.TempDir()
	stores, err := NewStores(
		filepath.Join(dir, "files"),
		filepath.Join(dir, "thumbs"),
		filepath.Join(dir, "previews"),
	)
	require.NoError(t, err)
	assert.NotNil(t, stores.Originals)
	assert.NotNil(t, stores.Thumbnails)
	assert.NotNil(t, stores.Previews)
}
