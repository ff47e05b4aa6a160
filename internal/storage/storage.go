// Package storage is the blob-store boundary. The rest of the service only
// sees Put and Exists, so a disk store can be swapped for object storage.
package storage

import (
	"io"
	"os"
	"path/filepath"
)

type BlobStore interface {
	// Put writes the blob under path and returns the number of bytes
	// written.
	Put(path string, r io.Reader) (int64, error)
	Exists(path string) bool
}

// LocalStore keeps blobs as flat files under a root directory.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) Put(path string, r io.Reader) (int64, error) {
	f, err := os.Create(filepath.Join(s.root, filepath.Base(path)))
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *LocalStore) Exists(path string) bool {
	_, err := os.Stat(filepath.Join(s.root, filepath.Base(path)))
	return err == nil
}
