package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ikkim/foodgram-backend/config"
)

// ImageStorage persists recipe images and returns their public URL.
type ImageStorage interface {
	Save(ctx context.Context, folder string, img *Image) (string, error)
	Delete(ctx context.Context, url string) error
}

// New builds the storage selected by MEDIA_BACKEND.
func New(cfg *config.Config) (ImageStorage, error) {
	switch cfg.Media.Backend {
	case "s3":
		return NewS3Storage(cfg.S3), nil
	case "local":
		return NewLocalStorage(cfg.Media.Dir, cfg.Media.BaseURL)
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.Media.Backend)
	}
}

func newKey(folder string, img *Image) string {
	return fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), img.Extension)
}
