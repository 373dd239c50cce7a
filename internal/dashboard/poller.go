package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"listingsdash/internal/components/chrono"
)

const (
	report_poller_tick  = "poller.tick"
	report_poller_start = "poller.start"
)

// Poller watches the scraper job. Every tick fetches the job status, updates the
// status indicator and, on the first idle observation after the job was seen running,
// reloads both tables once.
type Poller struct {
	engine    *Engine
	scheduler chrono.Scheduler
	interval  time.Duration

	// serializes ticks so edge detection sees observations in order
	tickMu sync.Mutex

	mu     sync.Mutex
	cancel func()
}

func newPoller(engine *Engine, scheduler chrono.Scheduler, interval time.Duration) *Poller {
	return &Poller{
		engine:    engine,
		scheduler: scheduler,
		interval:  interval,
	}
}

func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Tick runs one status check. A failed status fetch changes nothing and is retried by
// the next tick.
func (p *Poller) Tick(ctx context.Context) error {
	p.tickMu.Lock()
	defer p.tickMu.Unlock()

	e := p.engine

	status, err := e.client.ScraperStatus(ctx)
	if err != nil {
		e.tel.ReportWarning(report_poller_tick, fmt.Errorf("fetch status: %w", err))
		return err
	}

	if status.IsRunning {
		e.state.observe(true)
		e.view.ShowJobStatus(JobIndicator{Running: true, StartEnabled: false})
		return nil
	}

	indicator := JobIndicator{Running: false, StartEnabled: true}
	if status.LastRun != nil {
		indicator.LastRun = *status.LastRun
	}
	e.view.ShowJobStatus(indicator)

	if !e.state.observe(false) {
		return nil
	}
	e.tel.ReportDebug("job finished, reloading tables")
	// load failures are rendered per table and must not fail the tick
	_ = e.LoadAll(ctx)
	return nil
}

// Start runs a tick immediately, then one every interval until Stop is called or ctx
// is done. Starting a running poller is a no-op.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	_ = p.Tick(ctx)

	cancelSchedule, err := p.scheduler.Every(p.interval, func() {
		if ctx.Err() != nil {
			return
		}
		_ = p.Tick(ctx)
	})
	if err != nil {
		p.engine.tel.ReportBroken(report_poller_start, err, p.interval)
		return err
	}
	stopWatch := context.AfterFunc(ctx, p.Stop)

	p.mu.Lock()
	p.cancel = func() {
		stopWatch()
		cancelSchedule()
	}
	p.mu.Unlock()

	// ctx may have ended before the cancel func was in place
	if ctx.Err() != nil {
		p.Stop()
	}
	return nil
}

// Stop cancels the repeating tick, a tick that is already running completes.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel == nil {
		return
	}
	p.cancel()
	p.cancel = nil
}

func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}
