package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"listingsdash/internal/components/chrono"
	"listingsdash/internal/components/telemetry"
	"listingsdash/internal/grid"
	"listingsdash/internal/listings"
	"listingsdash/internal/workbook"
)

var errNetwork = errors.New("connection refused")

type listingsCall struct {
	scope   listings.Scope
	filters listings.FilterMap
}

type fakeClient struct {
	mu sync.Mutex

	datasets      map[listings.Scope]listings.Dataset
	listingsErr   map[listings.Scope]error
	listingsFn    func(ctx context.Context, scope listings.Scope, filters listings.FilterMap) (listings.Dataset, error)
	listingsCalls []listingsCall

	statuses    []listings.JobStatus
	statusErr   error
	statusCalls int

	startStatus listings.StartStatus
	startErr    error
	startCalls  int

	loginOk    bool
	loginErr   error
	loginCalls int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		datasets: map[listings.Scope]listings.Dataset{
			listings.ScopeAll: {
				Columns: []string{"id", "Price", "Area", "is_active", "url"},
				Rows: []listings.Record{
					{"id": float64(1), "Price": float64(550), "Area": "45", "is_active": float64(1), "url": "a"},
					{"id": float64(2), "Price": float64(480), "Area": nil, "is_active": float64(1), "url": "b"},
					{"id": float64(3), "Price": nil, "Area": "70", "is_active": float64(1), "url": "c"},
				},
			},
			listings.ScopeNew: {
				Columns: []string{"id", "Price", "Area", "is_active", "url"},
				Rows: []listings.Record{
					{"id": float64(3), "Price": nil, "Area": "70", "is_active": float64(1), "url": "c"},
				},
			},
		},
		listingsErr: map[listings.Scope]error{},
	}
}

func (c *fakeClient) Listings(ctx context.Context, scope listings.Scope, filters listings.FilterMap) (listings.Dataset, error) {
	c.mu.Lock()
	c.listingsCalls = append(c.listingsCalls, listingsCall{scope: scope, filters: filters})
	fn := c.listingsFn
	ds := c.datasets[scope]
	err := c.listingsErr[scope]
	c.mu.Unlock()

	if fn != nil {
		return fn(ctx, scope, filters)
	}
	if err != nil {
		return listings.Dataset{}, err
	}
	return ds, nil
}

func (c *fakeClient) ScraperStatus(ctx context.Context) (listings.JobStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statusCalls++
	if c.statusErr != nil {
		return listings.JobStatus{}, c.statusErr
	}
	if len(c.statuses) == 0 {
		return listings.JobStatus{}, nil
	}
	status := c.statuses[0]
	c.statuses = c.statuses[1:]
	return status, nil
}

func (c *fakeClient) RunScraper(ctx context.Context) (listings.StartStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startCalls++
	return c.startStatus, c.startErr
}

func (c *fakeClient) Login(ctx context.Context, username, password string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loginCalls++
	return c.loginOk, c.loginErr
}

func (c *fakeClient) setStatuses(statuses ...listings.JobStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses = statuses
}

func (c *fakeClient) calls() []listingsCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]listingsCall, len(c.listingsCalls))
	copy(out, c.listingsCalls)
	return out
}

type fakeView struct {
	mu sync.Mutex

	tables     map[TableID][]*grid.Table
	loadErrors map[TableID]int
	statuses   []JobIndicator
	summaries  []string
	notices    []string
}

func newFakeView() *fakeView {
	return &fakeView{
		tables:     map[TableID][]*grid.Table{},
		loadErrors: map[TableID]int{},
	}
}

func (v *fakeView) ShowTable(id TableID, table *grid.Table) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tables[id] = append(v.tables[id], table)
}

func (v *fakeView) ShowLoadError(id TableID, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loadErrors[id]++
}

func (v *fakeView) ShowJobStatus(status JobIndicator) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.statuses = append(v.statuses, status)
}

func (v *fakeView) ShowCountSummary(summary string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.summaries = append(v.summaries, summary)
}

func (v *fakeView) Notify(notice string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notices = append(v.notices, notice)
}

func (v *fakeView) renders(id TableID) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.tables[id])
}

func (v *fakeView) lastStatus() JobIndicator {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.statuses[len(v.statuses)-1]
}

func (v *fakeView) noticeList() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, len(v.notices))
	copy(out, v.notices)
	return out
}

type fakeSink struct {
	mu     sync.Mutex
	writes [][]workbook.Sheet
}

func (s *fakeSink) WriteWorkbook(sheets []workbook.Sheet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, sheets)
	return nil
}

type testEnv struct {
	engine    *Engine
	client    *fakeClient
	view      *fakeView
	sink      *fakeSink
	scheduler *chrono.ManualScheduler
	tel       *telemetry.Recorder
}

func newTestEnv(t *testing.T, controls map[string]string) testEnv {
	t.Helper()
	env := testEnv{
		client:    newFakeClient(),
		view:      newFakeView(),
		sink:      &fakeSink{},
		scheduler: chrono.NewManualScheduler(),
		tel:       telemetry.NewRecorder(),
	}
	env.engine = NewEngine(Options{
		Client:    env.client,
		View:      env.view,
		Controls:  NewControls(controls),
		Scheduler: env.scheduler,
		Sink:      env.sink,
		Tel:       env.tel,
	})
	return env
}

func running() listings.JobStatus {
	return listings.JobStatus{IsRunning: true}
}

func idle(lastRun string) listings.JobStatus {
	if lastRun == "" {
		return listings.JobStatus{}
	}
	return listings.JobStatus{LastRun: &lastRun}
}
