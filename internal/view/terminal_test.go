package view

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"listingsdash/internal/components/telemetry"
	"listingsdash/internal/dashboard"
	"listingsdash/internal/grid"
	"listingsdash/internal/listings"

	"github.com/stretchr/testify/require"
)

func TestFormatJobStatus(t *testing.T) {
	require.Equal(t, "Scraper: running (start disabled)", FormatJobStatus(dashboard.JobIndicator{Running: true}, nil))
	require.Equal(t, "Scraper: idle", FormatJobStatus(dashboard.JobIndicator{StartEnabled: true}, nil))
	require.Equal(t,
		"Scraper: idle, last run 2024-05-01 10:00",
		FormatJobStatus(dashboard.JobIndicator{StartEnabled: true, LastRun: "2024-05-01 10:00"}, nil),
	)
}

func TestTerminal(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out, false, telemetry.NewRecorder())

	table := grid.New("allListingsTable", []grid.Column{{Name: "Location"}}, []listings.Record{
		{"Location": "Vracar"},
	})
	term.ShowTable(dashboard.AllListingsTable, table)
	term.ShowCountSummary("1 new listings | 1 total active listings")
	term.ShowLoadError(dashboard.NewListingsTable, errors.New("timeout"))
	term.Notify(dashboard.NoticeAlreadyRunning)

	written := out.String()
	require.Contains(t, written, "Vracar")
	require.Contains(t, written, "Showing 1 to 1 of 1 listings")
	require.Contains(t, written, "1 new listings | 1 total active listings")
	require.Contains(t, written, "newListingsTable: Error loading data")
	require.True(t, strings.HasSuffix(written, "! Scraper is already running.\n"))
}

func TestTerminalQuiet(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out, false, telemetry.NewRecorder())
	term.Quiet = true

	term.ShowJobStatus(dashboard.JobIndicator{Running: true})
	term.ShowCountSummary("0 new listings | 0 total active listings")
	require.Zero(t, out.Len())

	term.Notify(dashboard.NoticeNotLoaded)
	require.Equal(t, "! Tables are not loaded yet.\n", out.String())
}

func TestTerminalDestroyedTable(t *testing.T) {
	var out bytes.Buffer
	tel := telemetry.NewRecorder()
	term := NewTerminal(&out, false, tel)

	table := grid.New("newListingsTable", nil, nil)
	table.Destroy()
	term.ShowTable(dashboard.NewListingsTable, table)

	require.Zero(t, out.Len())
	require.Len(t, tel.Reports(telemetry.KindWarning), 1)
}
