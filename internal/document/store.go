package document

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// Store persists rendered documents and returns a URL they can be fetched from.
type Store interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// FileStore writes documents below Dir; BaseURL is where Dir is served over HTTP.
type FileStore struct {
	Dir     string
	BaseURL string
}

func NewFileStore(dir, baseURL string) (*FileStore, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse document base url: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create document dir: %w", err)
	}
	return &FileStore{Dir: dir, BaseURL: baseURL}, nil
}

// Save writes to a temp file and renames it so readers never see a partial document.
func (s *FileStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	target := filepath.Join(s.Dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create document dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".render-*")
	if err != nil {
		return "", fmt.Errorf("create temp document: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close document: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("chmod document: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("store document: %w", err)
	}

	return url.JoinPath(s.BaseURL, name)
}
