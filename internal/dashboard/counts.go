package dashboard

import (
	"context"
	"fmt"

	"listingsdash/internal/listings"
)

const report_counts_refresh = "counts.refresh"

// RefreshCounts queries the new listings, then (only once that succeeded) every active
// listing, and writes "<n> new listings | <m> total active listings" to the view.
//
// On failure the previous summary stays on screen.
func (e *Engine) RefreshCounts(ctx context.Context) error {
	seq := e.state.issueCounts()

	newListings, err := e.client.Listings(ctx, listings.ScopeNew, nil)
	if err != nil {
		e.tel.ReportWarning(report_counts_refresh, fmt.Errorf("new listings: %w", err))
		return err
	}
	allListings, err := e.client.Listings(ctx, listings.ScopeAll, nil)
	if err != nil {
		e.tel.ReportWarning(report_counts_refresh, fmt.Errorf("all listings: %w", err))
		return err
	}

	summary := FormatCountSummary(len(newListings.Rows), len(allListings.Rows))
	applied := e.state.withLatestCounts(seq, func() {
		e.state.summary = summary
		e.view.ShowCountSummary(summary)
	})
	if !applied {
		e.tel.ReportDebug("discard stale counts", seq)
	}
	return nil
}

func FormatCountSummary(newCount, totalCount int) string {
	return fmt.Sprintf("%d new listings | %d total active listings", newCount, totalCount)
}
