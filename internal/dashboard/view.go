package dashboard

import "listingsdash/internal/grid"

// JobIndicator is what the status region and the start control show.
type JobIndicator struct {
	Running      bool
	StartEnabled bool
	// LastRun is the last completed run, empty when unknown or while running.
	LastRun string
}

// View is the render target of the engine.
//
// The engine may call a View from several goroutines but never concurrently for the same
// table, implementations must not call back into the Engine.
type View interface {
	// ShowTable replaces whatever is displayed for the table with the given grid.
	ShowTable(id TableID, table *grid.Table)
	// ShowLoadError replaces the table body with a single "Error loading data" row.
	ShowLoadError(id TableID, err error)
	ShowJobStatus(status JobIndicator)
	ShowCountSummary(summary string)
	// Notify shows a non-blocking notice to the operator.
	Notify(notice string)
}

const (
	NoticeAlreadyRunning   = "Scraper is already running."
	NoticeStartFailed      = "Failed to start scraper."
	NoticeNotLoaded        = "Tables are not loaded yet."
	NoticeMissingFields    = "Please fill out both fields."
	NoticePasswordMismatch = "Passwords do not match."
	NoticeWrongCredentials = "Wrong username or password."
	NoticeServerError      = "Server error. Please try again later."
)
