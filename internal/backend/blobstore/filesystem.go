package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemBlobStore keeps objects as files in a single directory
type FilesystemBlobStore struct {
	root string
}

func NewFilesystemBlobStore(root string) (*FilesystemBlobStore, error) {
	if root == "" {
		return nil, errors.New("filesystem blob store path is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", abs, err)
	}
	return &FilesystemBlobStore{root: abs}, nil
}

func (f *FilesystemBlobStore) objectPath(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(f.root, key), nil
}

// PutObject writes to a temporary file first so readers never see partial data
func (f *FilesystemBlobStore) PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := f.objectPath(key)
	if err != nil {
		return err
	}

	tmp := path + ".part"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

func (f *FilesystemBlobStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := f.objectPath(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

func (f *FilesystemBlobStore) ObjectURL(key string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(f.root, key))}
	return u.String()
}

func (f *FilesystemBlobStore) Close() error {
	return nil
}
