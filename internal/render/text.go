package render

import (
	"bufio"
	"io"

	"github.com/ikkim/foodgram-backend/internal/app/model"
)

type textRenderer struct{}

func (textRenderer) ContentType() string { return "text/plain; charset=utf-8" }

func (textRenderer) Extension() string { return ".txt" }

func (textRenderer) Render(w io.Writer, items []model.ShoppingItem) error {
	bw := bufio.NewWriter(w)
	for _, item := range items {
		if _, err := bw.WriteString(item.Line() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
