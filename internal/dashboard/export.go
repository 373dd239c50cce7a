package dashboard

import (
	"errors"
	"fmt"

	"listingsdash/internal/grid"
	"listingsdash/internal/workbook"
)

const report_export = "export"

var ErrTablesNotLoaded = errors.New("tables are not loaded yet")

// WorkbookSink receives the exported workbook.
type WorkbookSink interface {
	WriteWorkbook(sheets []workbook.Sheet) error
}

// Export writes both tables into one workbook, one sheet per table, exactly as they are
// displayed: display headers, rows passing the current search in the current order,
// across all pages. Nothing is fetched. If either table has never been rendered the
// operator gets a notice and no workbook is produced.
func (e *Engine) Export() error {
	ids := make([]TableID, len(tableDefs))
	for i, def := range tableDefs {
		ids[i] = def.id
	}
	tables := e.state.tables(ids...)
	for _, t := range tables {
		if t == nil {
			e.view.Notify(NoticeNotLoaded)
			return ErrTablesNotLoaded
		}
	}
	if e.sink == nil {
		return fmt.Errorf("export: no workbook sink configured")
	}

	sheets := make([]workbook.Sheet, len(tables))
	for i, t := range tables {
		sheets[i] = workbook.Sheet{
			Name: tableDefs[i].sheet,
			Rows: SheetRows(t),
		}
	}

	err := e.sink.WriteWorkbook(sheets)
	if err != nil {
		e.tel.ReportBroken(report_export, err)
		return err
	}
	return nil
}

// SheetRows returns the header row followed by the raw values of the visible rows,
// missing values become empty strings.
func SheetRows(t *grid.Table) [][]any {
	headers := t.Headers()
	headerRow := make([]any, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}

	out := [][]any{headerRow}
	for _, record := range t.Rows() {
		row := make([]any, len(headers))
		for i, h := range headers {
			v := record[h]
			if v == nil {
				v = ""
			}
			row[i] = v
		}
		out = append(out, row)
	}
	return out
}
