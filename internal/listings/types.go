package listings

import "context"

// Scope is the `table_type` discriminator of a listings query.
type Scope string

const (
	ScopeAll Scope = "all"
	ScopeNew Scope = "new"
)

// FilterMap holds the filters of one query, keyed by filter control id.
type FilterMap map[string]string

// Record is a single row of a dataset keyed by column name, values are whatever
// the server encoded (string, float64, bool or nil).
type Record map[string]any

type Dataset struct {
	Columns []string `json:"columns"`
	Rows    []Record `json:"data"`
}

type JobStatus struct {
	IsRunning bool    `json:"is_running"`
	LastRun   *string `json:"last_run"`
}

// StartStatus is the acknowledgement of a job start request.
type StartStatus string

const (
	StartStarted        StartStatus = "started"
	StartAlreadyRunning StartStatus = "already_running"
)

// Client is the dashboard server as seen by the engine.
//
// note: fault injection point
type Client interface {
	Listings(ctx context.Context, scope Scope, filters FilterMap) (Dataset, error)
	ScraperStatus(ctx context.Context) (JobStatus, error)
	RunScraper(ctx context.Context) (StartStatus, error)
	Login(ctx context.Context, username, password string) (bool, error)
}
