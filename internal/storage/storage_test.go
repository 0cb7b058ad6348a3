package storage

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ikkim/foodgram-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent png
const pixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

func TestDecodeBase64Image(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantType string
		wantErr  error
	}{
		{name: "Data URI", payload: "data:image/png;base64," + pixelPNG, wantType: "image/png"},
		{name: "Bare base64", payload: pixelPNG, wantType: "image/png"},
		{name: "Declared type is ignored", payload: "data:image/jpeg;base64," + pixelPNG, wantType: "image/png"},
		{name: "Not base64", payload: "data:image/png;base64,@@@", wantErr: ErrInvalidImage},
		{name: "Missing base64 marker", payload: "data:image/png," + pixelPNG, wantErr: ErrInvalidImage},
		{name: "Empty", payload: "  ", wantErr: ErrInvalidImage},
		{name: "Text file", payload: base64.StdEncoding.EncodeToString([]byte("just some text")), wantErr: ErrUnsupportedImageType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodeBase64Image(tt.payload)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, img)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, img.ContentType)
			assert.Equal(t, ".png", img.Extension)
			assert.NotEmpty(t, img.Data)
		})
	}
}

func TestDecodeBase64Image_TooLarge(t *testing.T) {
	payload := strings.Repeat("A", (MaxImageSize/3+2)*4)

	_, err := DecodeBase64Image(payload)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "/media/")
	require.NoError(t, err)

	img, err := DecodeBase64Image(pixelPNG)
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "recipes", img)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/media/recipes/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	path := filepath.Join(dir, strings.TrimPrefix(url, "/media/"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, img.Data, data)

	require.NoError(t, store.Delete(context.Background(), url))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(context.Background(), url), "deleting twice is fine")
	assert.NoError(t, store.Delete(context.Background(), "https://elsewhere/x.png"))
}

func TestNew_SelectsBackend(t *testing.T) {
	cfg := &config.Config{
		Media: config.MediaConfig{Backend: "local", Dir: t.TempDir(), BaseURL: "/media"},
		S3:    config.S3Config{Region: "eu-central-1", Bucket: "bucket", AccessKeyID: "id", SecretAccessKey: "secret", BaseURL: "https://cdn.example.com"},
	}

	local, err := New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, local)

	cfg.Media.Backend = "s3"
	remote, err := New(cfg)
	require.NoError(t, err)
	s3Store, ok := remote.(*S3Storage)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/recipes/a.png", s3Store.fileURL("recipes/a.png"))

	key, ok := s3Store.keyFromURL("https://cdn.example.com/recipes/a.png")
	assert.True(t, ok)
	assert.Equal(t, "recipes/a.png", key)

	cfg.Media.Backend = "ftp"
	_, err = New(cfg)
	assert.Error(t, err)
}
