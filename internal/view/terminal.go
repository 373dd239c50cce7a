// Package view renders the dashboard to a terminal.
package view

import (
	"fmt"
	"io"
	"sync"

	"listingsdash/internal/components/telemetry"
	"listingsdash/internal/dashboard"
	"listingsdash/internal/grid"

	"github.com/jedib0t/go-pretty/v6/text"
)

const report_render = "view.render"

var _ dashboard.View = (*Terminal)(nil)

var (
	colorRunning = text.Colors{text.FgYellow, text.Bold}
	colorIdle    = text.Colors{text.FgGreen}
	colorError   = text.Colors{text.FgRed}
	colorNotice  = text.Colors{text.FgHiMagenta, text.Bold}
	colorSummary = text.Colors{text.FgCyan}
)

// Terminal is a dashboard.View that writes every update to an io.Writer as it happens.
type Terminal struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
	tel   telemetry.API

	// Quiet drops table and status output, only notices are written.
	Quiet bool
}

func NewTerminal(out io.Writer, color bool, tel telemetry.API) *Terminal {
	return &Terminal{
		out:   out,
		color: color,
		tel:   tel,
	}
}

func (t *Terminal) paint(c text.Colors, s string) string {
	if !t.color {
		return s
	}
	return c.Sprint(s)
}

func (t *Terminal) println(s string) {
	_, err := fmt.Fprintln(t.out, s)
	if err != nil {
		t.tel.ReportWarning(report_render, err)
	}
}

func (t *Terminal) ShowTable(id dashboard.TableID, table *grid.Table) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Quiet {
		return
	}
	err := table.Render(t.out)
	if err != nil {
		t.tel.ReportWarning(report_render, err, id)
	}
}

func (t *Terminal) ShowLoadError(id dashboard.TableID, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.println(t.paint(colorError, fmt.Sprintf("%s: Error loading data", id)))
}

func (t *Terminal) ShowJobStatus(status dashboard.JobIndicator) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Quiet {
		return
	}
	t.println(FormatJobStatus(status, t.paint))
}

func (t *Terminal) ShowCountSummary(summary string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Quiet {
		return
	}
	t.println(t.paint(colorSummary, summary))
}

func (t *Terminal) Notify(notice string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.println(t.paint(colorNotice, "! "+notice))
}

// FormatJobStatus is the one-line status indicator, "Scraper: running (start disabled)"
// or "Scraper: idle, last run 2024-05-01 10:00".
func FormatJobStatus(status dashboard.JobIndicator, paint func(text.Colors, string) string) string {
	if paint == nil {
		paint = func(_ text.Colors, s string) string { return s }
	}
	if status.Running {
		return "Scraper: " + paint(colorRunning, "running") + " (start disabled)"
	}
	line := "Scraper: " + paint(colorIdle, "idle")
	if status.LastRun != "" {
		line += ", last run " + status.LastRun
	}
	return line
}
