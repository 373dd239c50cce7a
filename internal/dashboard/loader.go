package dashboard

import (
	"context"
	"fmt"

	"listingsdash/internal/grid"
)

const report_loader_load = "loader.load"

// Load fetches the dataset of a table with the current filters of its scope and renders
// it, replacing the grid bound to the table.
//
// Only the latest load issued for a table is applied. A response that arrives after a
// newer load was issued is dropped, so a slow request can never overwrite fresher data.
//
// When the fetch fails the view shows an error row and the previously bound grid (if any)
// is left in the state untouched.
func (e *Engine) Load(ctx context.Context, id TableID) error {
	def, ok := defOf(id)
	if !ok {
		return fmt.Errorf("unknown table: %s", id)
	}

	filters := CollectFilters(e.controls, def.scope)
	seq := e.state.issueLoad(id)

	ds, err := e.client.Listings(ctx, def.scope, filters)
	if err != nil {
		applied := e.state.withLatestLoad(id, seq, func(*slot) {
			e.view.ShowLoadError(id, err)
		})
		if !applied {
			e.tel.ReportDebug("discard stale load error", id, seq)
			return nil
		}
		e.tel.ReportWarning(report_loader_load, fmt.Errorf("load %s: %w", id, err), filters)
		return err
	}

	columns := gridColumns(DisplayColumns(ds.Columns))
	applied := e.state.withLatestLoad(id, seq, func(sl *slot) {
		if sl.table != nil {
			sl.table.Destroy()
		}
		sl.table = grid.New(string(id), columns, ds.Rows)
		e.view.ShowTable(id, sl.table)
	})
	if !applied {
		e.tel.ReportDebug("discard stale dataset", id, seq)
		return nil
	}
	e.tel.ReportCount(fmt.Sprintf("%s.rows", id), int64(len(ds.Rows)))

	err = e.RefreshCounts(ctx)
	if err != nil {
		// the summary keeps its previous text, counts are not part of the table state
		e.tel.ReportDebug("counts not refreshed after load", id, err)
	}
	return nil
}
