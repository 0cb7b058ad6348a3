package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ikkim/foodgram-backend/pkg/logger"
)

// LocalStorage writes images under dir; the router serves dir at baseURL.
type LocalStorage struct {
	dir     string
	baseURL string
}

func NewLocalStorage(dir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media dir: %w", err)
	}
	return &LocalStorage{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStorage) Dir() string {
	return s.dir
}

func (s *LocalStorage) Save(_ context.Context, folder string, img *Image) (string, error) {
	key := newKey(folder, img)
	path := filepath.Join(s.dir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create image dir: %w", err)
	}
	if err := os.WriteFile(path, img.Data, 0o644); err != nil {
		logger.Error("Failed to write image", err, map[string]interface{}{
			"path": path,
		})
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	logger.Debug("Image written to media dir", map[string]interface{}{
		"key":  key,
		"size": len(img.Data),
	})
	return s.baseURL + "/" + key, nil
}

func (s *LocalStorage) Delete(_ context.Context, url string) error {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	key := filepath.FromSlash(strings.TrimPrefix(url, prefix))
	if strings.Contains(key, "..") {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
