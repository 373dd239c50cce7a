package main

import (
	"errors"
	"fmt"
	"time"

	"listingsdash/internal/dashboard"
	libtelemetry "listingsdash/lib/telemetry"

	"github.com/spf13/cobra"
)

const perfStatsInterval = 30 * time.Second

func newWatchCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Show both tables and keep them in sync until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, *flags, cmd.OutOrStdout(), "")
			if err != nil {
				return err
			}
			defer a.close()

			err = a.login(ctx)
			if err != nil {
				return err
			}
			if a.otel.Enabled() {
				libtelemetry.InstrumentPerfStats(ctx, perfStatsInterval)
			}
			return a.engine.Run(ctx)
		},
	}
}

func newStatusCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the scraper status and the listing counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, *flags, cmd.OutOrStdout(), "")
			if err != nil {
				return err
			}
			defer a.close()

			err = a.login(ctx)
			if err != nil {
				return err
			}
			err = a.engine.Poller().Tick(ctx)
			if err != nil {
				return err
			}
			return a.engine.RefreshCounts(ctx)
		},
	}
}

func newStartCmd(flags *rootFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a scraper run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if !yes {
				ok, err := confirm(newUI(cmd.InOrStdin(), cmd.OutOrStdout()), "Start the scraper now?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			a, err := newApp(ctx, *flags, cmd.OutOrStdout(), "")
			if err != nil {
				return err
			}
			defer a.close()

			err = a.login(ctx)
			if err != nil {
				return err
			}
			err = a.engine.StartJob(ctx)
			if errors.Is(err, dashboard.ErrAlreadyRunning) {
				// the notice is already on screen
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newExportCmd(flags *rootFlags) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Load both tables and write them to a workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, *flags, cmd.OutOrStdout(), out)
			if err != nil {
				return err
			}
			defer a.close()
			a.terminal.Quiet = true

			err = a.login(ctx)
			if err != nil {
				return err
			}
			// a table that failed to load makes Export report it
			_ = a.engine.LoadAll(ctx)
			err = a.engine.Export()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Exported to", a.settings.ExportPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "workbook path, overrides export_path")
	return cmd
}

func newLoginCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Check credentials against the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, *flags, cmd.OutOrStdout(), "")
			if err != nil {
				return err
			}
			defer a.close()

			username, password, err := askCredentials(
				newUI(cmd.InOrStdin(), cmd.OutOrStdout()),
				a.settings.Username,
				a.settings.Password,
			)
			if err != nil {
				return err
			}
			err = a.engine.Login(ctx, username, password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged in.")
			return nil
		},
	}
}
