package grid

import (
	"fmt"
	"io"

	"listingsdash/lib/htmlutil"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Render writes the current page to w as a text table captioned with Info.
func (t *Table) Render(w io.Writer) error {
	if t.Destroyed() {
		return ErrDestroyed
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(t.id)

	header := table.Row{}
	for _, name := range t.Headers() {
		header = append(header, name)
	}
	tw.AppendHeader(header)

	for _, record := range t.PageRows() {
		row := make(table.Row, len(t.columns))
		for i, c := range t.columns {
			row[i] = htmlutil.PlainText(c.Render(record[c.Name]))
		}
		tw.AppendRow(row)
	}
	tw.SetCaption(t.Info())

	_, err := fmt.Fprintln(w, tw.Render())
	return err
}
