package render

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/ikkim/foodgram-backend/internal/app/model"
)

const (
	pdfTitle    = "Shopping list"
	pdfFontName = "listfont"
)

type pdfRenderer struct {
	fontPath string
}

func (r *pdfRenderer) ContentType() string { return "application/pdf" }

func (r *pdfRenderer) Extension() string { return ".pdf" }

func (r *pdfRenderer) Render(w io.Writer, items []model.ShoppingItem) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(pdfTitle, true)
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// core fonts are cp1252 only, so text is translated unless a TTF font is given
	translate := func(s string) string { return s }
	family := "Helvetica"
	if r.fontPath != "" {
		pdf.AddUTF8Font(pdfFontName, "", r.fontPath)
		pdf.AddUTF8Font(pdfFontName, "B", r.fontPath)
		family = pdfFontName
	} else {
		translate = pdf.UnicodeTranslatorFromDescriptor("")
	}

	pdf.SetFont(family, "B", 18)
	pdf.CellFormat(0, 12, translate(pdfTitle), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(family, "", 12)
	for _, item := range items {
		pdf.CellFormat(0, 8, translate(item.Line()), "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}
