// Package render writes a consolidated shopping list in a downloadable format.
package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/ikkim/foodgram-backend/internal/app/model"
)

const (
	FormatPDF  = "pdf"
	FormatTXT  = "txt"
	FormatXLSX = "xlsx"

	// DefaultFormat is used when the client does not ask for one.
	DefaultFormat = FormatPDF
)

var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists the accepted export formats.
var Formats = []string{FormatPDF, FormatTXT, FormatXLSX}

type Renderer interface {
	ContentType() string
	Extension() string
	Render(w io.Writer, items []model.ShoppingItem) error
}

type Options struct {
	// PDFFontPath points to a TTF font with full unicode coverage. Empty uses Helvetica.
	PDFFontPath string
}

// ForFormat returns the renderer for format. An empty format selects DefaultFormat.
func ForFormat(format string, opts Options) (Renderer, error) {
	switch format {
	case "", FormatPDF:
		return &pdfRenderer{fontPath: opts.PDFFontPath}, nil
	case FormatTXT:
		return textRenderer{}, nil
	case FormatXLSX:
		return xlsxRenderer{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// Filename builds the attachment name for a renderer.
func Filename(r Renderer) string {
	return "shopping_list" + r.Extension()
}
