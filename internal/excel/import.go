package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RequiredColumns is the header set a customer import workbook must carry,
// in any order. Matching is case-sensitive with a TrimSpace fallback for
// sheets with padded header cells.
var RequiredColumns = []string{
	"Name of the Customer",
	"Place",
	"Department",
	"Zone",
	"Serial Number",
}

// ImportRow is one data row of a customer import sheet
type ImportRow struct {
	Line         int // 1-based sheet row number
	CustomerName string
	Place        string
	Department   string
	Zone         string
	SerialNumber string
}

// ImportSheet is a parsed customer import workbook
type ImportSheet struct {
	MissingColumns []string
	Rows           []ImportRow
}

// Valid reports whether all required columns are present and at least one
// data row exists.
func (s *ImportSheet) Valid() bool {
	return len(s.MissingColumns) == 0 && len(s.Rows) > 0
}

// ParseImport reads sheet 1 of an .xlsx workbook: the first row as headers,
// the rest as data rows. Entirely empty rows are dropped.
func ParseImport(r io.Reader) (*ImportSheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return &ImportSheet{MissingColumns: RequiredColumns}, nil
	}

	header := rows[0]
	columns, missing := matchColumns(header)

	sheet := &ImportSheet{MissingColumns: missing}
	if len(missing) > 0 {
		return sheet, nil
	}

	for i, row := range rows[1:] {
		get := func(name string) string {
			idx := columns[name]
			if idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		imported := ImportRow{
			Line:         i + 2,
			CustomerName: get("Name of the Customer"),
			Place:        get("Place"),
			Department:   get("Department"),
			Zone:         get("Zone"),
			SerialNumber: get("Serial Number"),
		}
		if imported.CustomerName == "" && imported.Place == "" &&
			imported.Department == "" && imported.Zone == "" && imported.SerialNumber == "" {
			continue
		}
		sheet.Rows = append(sheet.Rows, imported)
	}

	return sheet, nil
}

// matchColumns maps each required column name to its index in the header
// row. Exact match wins; trimmed match is the fallback.
func matchColumns(header []string) (map[string]int, []string) {
	columns := make(map[string]int, len(RequiredColumns))
	var missing []string

	for _, name := range RequiredColumns {
		idx := -1
		for i, cell := range header {
			if cell == name {
				idx = i
				break
			}
		}
		if idx == -1 {
			for i, cell := range header {
				if strings.TrimSpace(cell) == name {
					idx = i
					break
				}
			}
		}
		if idx == -1 {
			missing = append(missing, name)
			continue
		}
		columns[name] = idx
	}
	return columns, missing
}
