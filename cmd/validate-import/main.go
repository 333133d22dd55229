package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/kardexcare/service-api/internal/excel"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Validation error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	args := os.Args[1:]
	if len(args) != 1 {
		return errors.New("usage: validate-import <file.xlsx>")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	sheet, err := excel.ParseImport(f)
	if err != nil {
		return fmt.Errorf("failed to parse workbook: %w", err)
	}

	if len(sheet.MissingColumns) > 0 {
		for _, col := range sheet.MissingColumns {
			fmt.Fprintf(os.Stderr, "missing required column: %s\n", col)
		}
		return errors.New("workbook is missing required columns")
	}
	if len(sheet.Rows) == 0 {
		return errors.New("workbook has no data rows")
	}

	fmt.Printf("Valid: %d data rows\n", len(sheet.Rows))
	return nil
}
