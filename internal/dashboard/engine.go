// Package dashboard is the job status polling and dataset synchronization engine behind
// the listings dashboard: it keeps the "all" and "new" listings tables in sync with the
// server, watches the scraper job and exports what the operator currently sees.
package dashboard

import (
	"context"
	"time"

	"listingsdash/internal/components/assert"
	"listingsdash/internal/components/chrono"
	"listingsdash/internal/components/telemetry"
	"listingsdash/internal/listings"

	"golang.org/x/sync/errgroup"
)

const DefaultPollInterval = 3 * time.Second

type tableDef struct {
	id    TableID
	scope listings.Scope
	sheet string
}

// the two tables, in export order
var tableDefs = []tableDef{
	{id: AllListingsTable, scope: listings.ScopeAll, sheet: "All Listings"},
	{id: NewListingsTable, scope: listings.ScopeNew, sheet: "New Listings"},
}

func defOf(id TableID) (tableDef, bool) {
	for _, s := range tableDefs {
		if s.id == id {
			return s, true
		}
	}
	return tableDef{}, false
}

type Options struct {
	Client    listings.Client
	View      View
	Controls  *Controls
	Scheduler chrono.Scheduler
	Sink      WorkbookSink
	// PollInterval defaults to DefaultPollInterval.
	PollInterval time.Duration
	Tel          telemetry.API
}

type Engine struct {
	client   listings.Client
	view     View
	controls *Controls
	sink     WorkbookSink
	tel      telemetry.API

	state  *State
	poller *Poller
}

func NewEngine(opts Options) *Engine {
	assert.NotNil(opts.Client)
	assert.NotNil(opts.View)
	assert.NotNil(opts.Scheduler)
	assert.NotNil(opts.Tel)

	controls := opts.Controls
	if controls == nil {
		controls = NewControls(nil)
	}
	interval := opts.PollInterval
	if interval == 0 {
		interval = DefaultPollInterval
	}
	assert.Positive(interval)

	e := &Engine{
		client:   opts.Client,
		view:     opts.View,
		controls: controls,
		sink:     opts.Sink,
		tel:      telemetry.NewScopedAPI("dashboard", opts.Tel),
		state:    NewState(),
	}
	e.poller = newPoller(e, opts.Scheduler, interval)
	return e
}

func (e *Engine) State() *State {
	return e.state
}

func (e *Engine) Poller() *Poller {
	return e.poller
}

func (e *Engine) Controls() *Controls {
	return e.controls
}

// LoadAll loads both tables concurrently, a failure of one does not affect the other.
// The returned error is the first failure, if any.
func (e *Engine) LoadAll(ctx context.Context) error {
	var group errgroup.Group
	for _, def := range tableDefs {
		id := def.id
		group.Go(func() error {
			return e.Load(ctx, id)
		})
	}
	return group.Wait()
}

// SetFilter changes a filter control and reloads both tables, like picking a value in
// one of the filter dropdowns.
func (e *Engine) SetFilter(ctx context.Context, id, value string) error {
	e.controls.Set(id, value)
	return e.LoadAll(ctx)
}

// Run loads both tables, starts polling the job status and blocks until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	// load failures are already on the view, keep going so the poller can recover them
	_ = e.LoadAll(ctx)

	err := e.poller.Start(ctx)
	if err != nil {
		return err
	}
	defer e.poller.Stop()

	<-ctx.Done()
	return nil
}
