package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"listingsdash/internal/components/chrono"
	"listingsdash/internal/components/telemetry"
	"listingsdash/internal/dashboard"
	"listingsdash/internal/listings"
	"listingsdash/internal/view"
	"listingsdash/internal/workbook"
	"listingsdash/lib/restyutil"
	"listingsdash/lib/serviceutil"
	libtelemetry "listingsdash/lib/telemetry"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	config  string
	verbose bool
	filters []string
	noColor bool
	dumpDir string
}

// app is everything a command needs, built once the config is known.
type app struct {
	settings  settings
	tel       telemetry.API
	client    listings.Client
	terminal  *view.Terminal
	engine    *dashboard.Engine
	scheduler *chrono.StandardScheduler
	otel      libtelemetry.Telemetry
}

func (a *app) close() {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := a.otel.Shutdown(ctx)
	if err != nil {
		slog.Warn("failed to shutdown telemetry", "err", err)
	}
}

func newApp(ctx context.Context, flags rootFlags, out io.Writer, exportPath string) (*app, error) {
	s, err := loadConfig(flags.config)
	if err != nil {
		return nil, err
	}
	if exportPath != "" {
		s.ExportPath = exportPath
	}
	controls, err := controlValues(s.Filters, flags.filters)
	if err != nil {
		return nil, err
	}

	otel, err := libtelemetry.SetupFromEnv(ctx, "dashboard")
	if err != nil {
		return nil, fmt.Errorf("setup telemetry: %w", err)
	}

	a := &app{
		settings: s,
		tel:      telemetry.SlogAPI{},
		otel:     otel,
	}

	clientOpts := listings.ClientOptions{
		BaseUrl:           s.BaseUrl,
		Timeout:           s.requestTimeout,
		RequestsPerSecond: s.RequestsPerSecond,
	}
	if flags.dumpDir != "" {
		dump, err := restyutil.NewFilesystemOutput(flags.dumpDir)
		if err != nil {
			a.close()
			return nil, err
		}
		clientOpts.Dump = dump
	}
	a.client, err = listings.NewClient(clientOpts, a.tel)
	if err != nil {
		a.close()
		return nil, err
	}

	scheduler := chrono.NewStandardScheduler(a.tel)
	a.scheduler = &scheduler
	a.terminal = view.NewTerminal(out, !flags.noColor, a.tel)
	a.engine = dashboard.NewEngine(dashboard.Options{
		Client:       a.client,
		View:         a.terminal,
		Controls:     dashboard.NewControls(controls),
		Scheduler:    a.scheduler,
		Sink:         workbook.FileSink{Path: s.ExportPath},
		PollInterval: s.pollInterval,
		Tel:          a.tel,
	})
	return a, nil
}

// login signs in with the configured credentials, the server accepts anonymous
// requests when none are configured.
func (a *app) login(ctx context.Context) error {
	if a.settings.Username == "" {
		return nil
	}
	return a.engine.Login(ctx, a.settings.Username, a.settings.Password)
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:           "dashboard",
		Short:         "Watch the listings scraper and keep the listings tables in sync",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			libtelemetry.InitSlog(cmd.ErrOrStderr(), flags.verbose)
		},
	}
	root.PersistentFlags().StringVarP(&flags.config, "config", "c", "dashboard.json5", "path to the config file")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringArrayVarP(&flags.filters, "filter", "f", nil, "set a filter control, id=value (repeatable)")
	root.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().StringVar(&flags.dumpDir, "dump-http", "", "write every http exchange to a file in this directory")

	root.AddCommand(
		newWatchCmd(&flags),
		newStatusCmd(&flags),
		newStartCmd(&flags),
		newExportCmd(&flags),
		newLoginCmd(&flags),
	)
	return root
}

func main() {
	ctx := serviceutil.SignalContext()
	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
