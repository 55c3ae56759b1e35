package stores

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/openfroyo/farmplan/pkg/jobs"
)

// FileBlob implements jobs.BlobStore on a local directory tree, writing
// keys like "requests/{job_id}.json" and "results/{job_id}.json" as
// files relative to Root.
type FileBlob struct {
	Root string
}

var _ jobs.BlobStore = (*FileBlob)(nil)

// NewFileBlob creates a blob store rooted at dir, creating it if needed.
func NewFileBlob(dir string) (*FileBlob, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob root: %w", err)
	}
	return &FileBlob{Root: dir}, nil
}

// Put implements jobs.BlobStore. Writes are staged to a temp file and
// renamed into place so a concurrent Get never observes a partial
// write.
func (b *FileBlob) Put(_ context.Context, key string, data []byte) error {
	path, err := b.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write blob: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to finalize blob: %w", err)
	}
	return nil
}

// Get implements jobs.BlobStore.
func (b *FileBlob) Get(_ context.Context, key string) ([]byte, error) {
	path, err := b.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return data, nil
}

func (b *FileBlob) resolve(key string) (string, error) {
	clean := filepath.Clean(key)
	if filepath.IsAbs(clean) {
		return "", fmt.Errorf("blob key must be relative: %s", key)
	}
	rel, err := filepath.Rel(".", clean)
	if err != nil || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("blob key escapes store root: %s", key)
	}
	return filepath.Join(b.Root, clean), nil
}
