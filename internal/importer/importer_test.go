package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestFormatFromPath(t *testing.T) {
	format, err := FormatFromPath("data/ingredients.CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, format)

	format, err = FormatFromPath("tags.xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, format)

	_, err = FormatFromPath("tags.json")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestReadRows_CSV(t *testing.T) {
	input := "name,measurement_unit\nsalt , g\n\"sugar, brown\",kg\nlonely\n"

	rows, err := ReadRows(strings.NewReader(input), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"salt", "g"},
		{"sugar, brown", "kg"},
		{"lonely"},
	}, rows)
}

func TestReadRows_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"name", "color", "slug"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Breakfast", "#E26C2D", "breakfast"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{" Snack", "#000000", "snack"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := ReadRows(&buf, FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Breakfast", "#E26C2D", "breakfast"},
		{"Snack", "#000000", "snack"},
	}, rows)
}

func TestReadRows_Errors(t *testing.T) {
	_, err := ReadRows(strings.NewReader(""), FormatCSV)
	assert.ErrorIs(t, err, ErrNoRows)

	_, err = ReadRows(strings.NewReader("a,b"), "json")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = ReadRows(strings.NewReader("not a zip"), FormatXLSX)
	assert.Error(t, err)
}
