// Package storage persists uploaded listing photos as opaque blobs.
// Contents are never inspected or transformed here.
package storage

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BlobStore writes uploaded files and hands back the public URL path
// they will be served from.
type BlobStore interface {
	Save(filename string, data []byte) (string, error)
	Remove(url string) error
}

// LocalStore keeps blobs on the local filesystem under one directory.
type LocalStore struct {
	dir     string
	baseURL string
	maxSize int64
}

const DefaultMaxUploadBytes = 10 << 20

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		maxSize: DefaultMaxUploadBytes,
	}, nil
}

// Save writes the blob under a fresh uuid name, keeping only the
// original extension. The uuid name kills path traversal and collisions
// from user-supplied filenames in one move.
func (s *LocalStore) Save(filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty file")
	}
	if int64(len(data)) > s.maxSize {
		return "", fmt.Errorf("file too large (max %dMB)", s.maxSize/(1<<20))
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 10 {
		ext = ""
	}
	name := uuid.New().String() + ext

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o600); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}
	return s.baseURL + "/" + name, nil
}

// Remove deletes the blob a previously returned URL points at. A blob
// already gone is not an error.
func (s *LocalStore) Remove(url string) error {
	name := path.Base(url)
	if name == "." || name == "/" || name == "" {
		return fmt.Errorf("invalid blob url %q", url)
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Dir exposes the on-disk location for static file serving.
func (s *LocalStore) Dir() string {
	return s.dir
}
