package storage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize caps decoded recipe images.
const MaxImageSize = 5 << 20

var (
	ErrInvalidImage         = errors.New("image is not valid base64 data")
	ErrUnsupportedImageType = errors.New("unsupported image type")
	ErrImageTooLarge        = errors.New("image is too large")
)

// AllowedImageTypes maps accepted MIME types to file extensions.
var AllowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Image is a decoded upload.
type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}

// DecodeBase64Image accepts a data URI ("data:image/png;base64,...") or bare base64.
// The content type is sniffed from the bytes, the declared one is ignored.
func DecodeBase64Image(payload string) (*Image, error) {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "data:") {
		comma := strings.Index(payload, ",")
		if comma < 0 || !strings.HasSuffix(payload[:comma], ";base64") {
			return nil, ErrInvalidImage
		}
		payload = payload[comma+1:]
	}
	if payload == "" {
		return nil, ErrInvalidImage
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize+3 {
		return nil, ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// some clients drop the padding
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
		}
	}
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	mtype := mimetype.Detect(data)
	contentType := strings.SplitN(mtype.String(), ";", 2)[0]
	if err := ValidateContentType(contentType); err != nil {
		return nil, err
	}

	return &Image{
		Data:        data,
		ContentType: contentType,
		Extension:   AllowedImageTypes[contentType],
	}, nil
}

// ValidateContentType validates the content type
func ValidateContentType(contentType string) error {
	if _, ok := AllowedImageTypes[contentType]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedImageType, contentType)
	}
	return nil
}
