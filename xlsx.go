package achfile

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes a TableSet as an Excel workbook with one sheet per
// bucket, in bucket order, with a bold header row. Numeric columns are
// written as numbers so the workbook sorts and filters sensibly.
func WriteXLSX(w io.Writer, ts *TableSet) error {
	if ts == nil {
		return errors.New("table set cannot be nil")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for _, table := range ts.Tables() {
		if _, err := f.NewSheet(table.Name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", table.Name, err)
		}
		if err := writeSheet(f, table.Name, table.Data, headerStyle); err != nil {
			return err
		}
	}

	// Drop the default sheet excelize creates with the workbook.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write XLSX: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheetName string, table *TableData, headerStyle int) error {
	for i, name := range table.Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return fmt.Errorf("failed to write header %s: %w", name, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to style header %s: %w", name, err)
		}
	}

	for rowIdx, row := range table.Records {
		for colIdx := range table.Headers {
			value := ""
			if colIdx < len(row) {
				value = row[colIdx]
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("failed to compute cell name: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, cellValue(value, table.ColumnTypes[colIdx])); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	return nil
}

// cellValue converts a table cell to the Go type matching its declared
// column type, falling back to the raw string when it does not parse.
func cellValue(value string, columnType ColumnType) any {
	trimmed := strings.TrimSpace(value)
	switch columnType {
	case TypeInteger:
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return n
		}
	case TypeReal:
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f
		}
	}
	return value
}
