// Package workbook writes tabular sheets into a single .xlsx file.
package workbook

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Sheet is a header row followed by data rows, cells are written with their Go type
// (numbers stay numbers) and nil cells are written as empty strings.
type Sheet struct {
	Name string
	Rows [][]any
}

// Build creates a workbook with one sheet per entry, in order. The caller owns the
// returned file and must Close it.
func Build(sheets []Sheet) (*excelize.File, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook: no sheets")
	}

	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(0)

	for i, sheet := range sheets {
		if i == 0 {
			err := f.SetSheetName(defaultSheet, sheet.Name)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("workbook: rename sheet: %w", err)
			}
		} else {
			_, err := f.NewSheet(sheet.Name)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("workbook: new sheet %q: %w", sheet.Name, err)
			}
		}

		for r, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				f.Close()
				return nil, err
			}
			values := make([]any, len(row))
			for c, v := range row {
				if v == nil {
					v = ""
				}
				values[c] = v
			}
			err = f.SetSheetRow(sheet.Name, cell, &values)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("workbook: sheet %q row %d: %w", sheet.Name, r, err)
			}
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// Write builds the workbook and writes it to w.
func Write(w io.Writer, sheets []Sheet) error {
	f, err := Build(sheets)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// FileSink writes workbooks to a fixed path.
type FileSink struct {
	Path string
}

func (s FileSink) WriteWorkbook(sheets []Sheet) error {
	f, err := Build(sheets)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(s.Path)
}
