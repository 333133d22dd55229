package excel_test

import (
	"bytes"
	"testing"

	"github.com/kardexcare/service-api/internal/excel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, header []string, rows [][]interface{}) []byte {
	t.Helper()
	data, err := excel.WriteSheet("Sheet1", header, rows)
	require.NoError(t, err)
	return data
}

func TestParseImport(t *testing.T) {
	t.Run("reads data rows with sheet line numbers", func(t *testing.T) {
		data := buildWorkbook(t, excel.RequiredColumns, [][]interface{}{
			{"Acme Industries", "Pune", "Logistics", "Central Zone", "SN-1001"},
			{"Beta Corp", "Nagpur", "", "North Zone", "SN-2001"},
		})

		sheet, err := excel.ParseImport(bytes.NewReader(data))
		require.NoError(t, err)
		assert.True(t, sheet.Valid())
		require.Len(t, sheet.Rows, 2)

		assert.Equal(t, 2, sheet.Rows[0].Line, "first data row is sheet row 2")
		assert.Equal(t, "Acme Industries", sheet.Rows[0].CustomerName)
		assert.Equal(t, "Central Zone", sheet.Rows[0].Zone)
		assert.Equal(t, "SN-1001", sheet.Rows[0].SerialNumber)
		assert.Equal(t, 3, sheet.Rows[1].Line)
	})

	t.Run("column order does not matter", func(t *testing.T) {
		data := buildWorkbook(t,
			[]string{"Serial Number", "Zone", "Department", "Place", "Name of the Customer"},
			[][]interface{}{{"SN-1001", "Central Zone", "Logistics", "Pune", "Acme Industries"}})

		sheet, err := excel.ParseImport(bytes.NewReader(data))
		require.NoError(t, err)
		require.Len(t, sheet.Rows, 1)
		assert.Equal(t, "Acme Industries", sheet.Rows[0].CustomerName)
		assert.Equal(t, "SN-1001", sheet.Rows[0].SerialNumber)
	})

	t.Run("padded headers matched via trim fallback", func(t *testing.T) {
		data := buildWorkbook(t,
			[]string{" Name of the Customer ", "Place", "Department", "Zone ", " Serial Number"},
			[][]interface{}{{"Acme Industries", "Pune", "", "Central Zone", "SN-1001"}})

		sheet, err := excel.ParseImport(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Empty(t, sheet.MissingColumns)
		require.Len(t, sheet.Rows, 1)
	})

	t.Run("case mismatch is a missing column", func(t *testing.T) {
		// Matching is case-sensitive; "name of the customer" does not count
		data := buildWorkbook(t,
			[]string{"name of the customer", "Place", "Department", "Zone", "Serial Number"},
			[][]interface{}{{"Acme Industries", "Pune", "", "Central Zone", "SN-1001"}})

		sheet, err := excel.ParseImport(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, []string{"Name of the Customer"}, sheet.MissingColumns)
		assert.False(t, sheet.Valid())
	})

	t.Run("all missing columns listed", func(t *testing.T) {
		data := buildWorkbook(t, []string{"Company", "City"}, nil)

		sheet, err := excel.ParseImport(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, excel.RequiredColumns, sheet.MissingColumns)
	})

	t.Run("cell values are trimmed and empty rows dropped", func(t *testing.T) {
		data := buildWorkbook(t, excel.RequiredColumns, [][]interface{}{
			{"  Acme Industries  ", " Pune", "", "Central Zone ", " SN-1001 "},
			{"", "", "", "", ""},
			{"Beta Corp", "Nagpur", "", "North Zone", "SN-2001"},
		})

		sheet, err := excel.ParseImport(bytes.NewReader(data))
		require.NoError(t, err)
		require.Len(t, sheet.Rows, 2)
		assert.Equal(t, "Acme Industries", sheet.Rows[0].CustomerName)
		assert.Equal(t, "Pune", sheet.Rows[0].Place)
		assert.Equal(t, "SN-1001", sheet.Rows[0].SerialNumber)
		assert.Equal(t, 4, sheet.Rows[1].Line, "line numbers count skipped rows")
	})

	t.Run("garbage input rejected", func(t *testing.T) {
		_, err := excel.ParseImport(bytes.NewReader([]byte("not a workbook")))
		assert.Error(t, err)
	})
}

func TestWriteSheet(t *testing.T) {
	data, err := excel.WriteSheet("Tickets", []string{"Reference", "Title"}, [][]interface{}{
		{"C-2026-001", "Shuttle jammed"},
		{"C-2026-002", "Conveyor misaligned"},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Tickets"}, f.GetSheetList())

	rows, err := f.GetRows("Tickets")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Reference", "Title"}, rows[0])
	assert.Equal(t, []string{"C-2026-001", "Shuttle jammed"}, rows[1])
}
