package storage

import (
	"io"
	"os"
	"path/filepath"
)

// Store is a flat directory of blobs addressed by opaque keys. Keys are
// generated by the caller (stored names, "{id}.jpg") and never contain path
// separators.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key)
}

// Put streams r to disk and reports the number of bytes written. The write
// goes through a temp file and a rename so a partially written blob is never
// visible under its final key.
func (s *Store) Put(key string, r io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(s.dir, "put-*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), s.Path(key)); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) Open(key string) (*os.File, error) {
	return os.Open(s.Path(key))
}

func (s *Store) Exists(key string) bool {
	_, err := os.Stat(s.Path(key))
	return err == nil
}

// Delete removes a blob. A missing key is a no-op, not an error; cascade
// deletes rely on that for idempotent cleanup.
func (s *Store) Delete(key string) error {
	if err := os.Remove(s.Path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Copy duplicates the blob at srcKey under dstKey, streaming through a
// bounded buffer.
func (s *Store) Copy(srcKey, dstKey string) error {
	src, err := s.Open(srcKey)
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = s.Put(dstKey, src)
	return err
}

// Stores bundles the three blob directories the gallery writes to.
type Stores struct {
	Originals  *Store
	Thumbnails *Store
	Previews   *Store
}

func NewStores(filesDir, thumbsDir, previewsDir string) (*Stores, error) {
	originals, err := NewStore(filesDir)
	if err != nil {
		return nil, err
	}
	thumbs, err := NewStore(thumbsDir)
	if err != nil {
		return nil, err
	}
	previews, err := NewStore(previewsDir)
	if err != nil {
		return nil, err
	}
	return &Stores{Originals: originals, Thumbnails: thumbs, Previews: previews}, nil
}
