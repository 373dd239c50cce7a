package chrono

import (
	"fmt"
	"time"

	"listingsdash/internal/components/telemetry"

	"github.com/robfig/cron/v3"
)

// Scheduler is the interface that anything depending on a repeating timer should use.
type Scheduler interface {
	// Every calls callback once per interval until the returned cancel func is called.
	// A run that fires while the previous run of the same callback is still going is skipped.
	Every(interval time.Duration, callback func()) (cancel func(), err error)
}

// StandardScheduler is the standard implementation of Scheduler using `github.com/robfig/cron/v3`
type StandardScheduler struct {
	cron *cron.Cron
}

// NewStandardScheduler is the constructor of StandardScheduler, the scheduler is running
// once this returns.
func NewStandardScheduler(tel telemetry.API) StandardScheduler {
	logger := cronLogger{tel: tel}
	cronner := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(
			cron.Recover(logger),
			cron.SkipIfStillRunning(logger),
		),
	)
	cronner.Start()

	return StandardScheduler{
		cron: cronner,
	}
}

func (s StandardScheduler) Every(interval time.Duration, callback func()) (func(), error) {
	if interval <= 0 {
		return nil, fmt.Errorf("invalid interval: %s", interval)
	}
	id := s.cron.Schedule(cron.Every(interval), cron.FuncJob(callback))
	return func() {
		s.cron.Remove(id)
	}, nil
}

// Stop stops scheduling new runs and waits for the ones in progress.
func (s StandardScheduler) Stop() {
	<-s.cron.Stop().Done()
}

type cronLogger struct {
	tel telemetry.API
}

func (l cronLogger) formatParams(keysAndValues []any) []any {
	params := []any{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		params = append(params, fmt.Sprintf("%v: %v", keysAndValues[i], keysAndValues[i+1]))
	}
	return params
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.tel.ReportDebug(
		fmt.Sprintf("cron: %s", msg),
		l.formatParams(keysAndValues)...,
	)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.tel.ReportBroken(
		"cron",
		append([]any{fmt.Errorf("%s: %w", msg, err)}, l.formatParams(keysAndValues)...)...,
	)
}
