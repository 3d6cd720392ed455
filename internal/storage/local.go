package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Compile-time check that LocalStorage implements Storage.
var _ Storage = (*LocalStorage)(nil)

// LocalStorage implements the Storage interface on local disk. Artifacts are
// written under <mediaDir>/<category>/ and served by the HTTP layer from the
// /media/ static route.
type LocalStorage struct {
	mediaDir string
}

// NewLocalStorage creates a LocalStorage rooted at mediaDir and pre-creates
// the category directories. If mediaDir is empty, a directory under the
// system temp dir is used.
func NewLocalStorage(mediaDir string) (*LocalStorage, error) {
	if mediaDir == "" {
		mediaDir = filepath.Join(os.TempDir(), "artisan-media")
	}

	for _, category := range []string{CategoryImages, CategoryVideos, CategoryDecks} {
		if err := os.MkdirAll(filepath.Join(mediaDir, category), 0750); err != nil {
			return nil, fmt.Errorf("create media directory: %w", err)
		}
	}

	return &LocalStorage{mediaDir: mediaDir}, nil
}

// MediaDir returns the root directory artifacts are written under.
func (s *LocalStorage) MediaDir() string {
	return s.mediaDir
}

// Save writes an artifact to disk and returns its /media/ URL path.
func (s *LocalStorage) Save(ctx context.Context, category, filename string, data []byte) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	path := filepath.Join(s.mediaDir, category, filename)
	if err := os.WriteFile(path, data, 0640); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}

	return fmt.Sprintf("/media/%s/%s", category, filename), nil
}
