package dashboard

import (
	"context"
	"errors"
	"fmt"

	"listingsdash/internal/listings"
)

const report_start_job = "start.job"

var ErrAlreadyRunning = errors.New("scraper is already running")

// StartJob asks the server to start the scraper. When the server acknowledges the start
// the job status is refreshed right away instead of waiting for the next tick. Any other
// acknowledgement means the job was already running, the operator gets a notice and
// nothing is reloaded.
func (e *Engine) StartJob(ctx context.Context) error {
	status, err := e.client.RunScraper(ctx)
	if err != nil {
		e.tel.ReportWarning(report_start_job, err)
		e.view.Notify(NoticeStartFailed)
		return fmt.Errorf("start scraper: %w", err)
	}

	if status != listings.StartStarted {
		if status != listings.StartAlreadyRunning {
			e.tel.ReportWarning(report_start_job, fmt.Errorf("unknown start status %q", status))
		}
		e.view.Notify(NoticeAlreadyRunning)
		return ErrAlreadyRunning
	}

	// a failed refresh is picked up by the next regular tick
	_ = e.poller.Tick(ctx)
	return nil
}
