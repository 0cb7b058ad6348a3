package render

import (
	"fmt"
	"io"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Shopping list"

type xlsxRenderer struct{}

func (xlsxRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (xlsxRenderer) Extension() string { return ".xlsx" }

func (xlsxRenderer) Render(w io.Writer, items []model.ShoppingItem) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &[]interface{}{"Ingredient", "Amount", "Unit"}); err != nil {
		return err
	}

	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &[]interface{}{item.Name, item.Amount, item.Unit}); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(xlsxSheet, "A", "A", 40); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to render xlsx: %w", err)
	}
	return nil
}
