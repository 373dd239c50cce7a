package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	devenv "listingsdash/dev/env"
	"listingsdash/dev/mockserver"
	"listingsdash/internal/components/chrono"
	"listingsdash/internal/components/telemetry"
	"listingsdash/lib/configutil"
	"listingsdash/lib/serviceutil"
	libtelemetry "listingsdash/lib/telemetry"

	"github.com/spf13/cobra"
)

type Config struct {
	Addr        string `json:"addr"`
	Database    string `json:"database"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	RunDuration string `json:"run_duration"`
	Timezone    string `json:"timezone"`
}

var defaultConfig = Config{
	Addr:        "127.0.0.1:5000",
	Database:    "<dev_state>/listings.db",
	Username:    "admin",
	Password:    "admin",
	RunDuration: (20 * time.Second).String(),
}

func run(ctx context.Context, config Config, seed bool) error {
	runDuration, err := time.ParseDuration(config.RunDuration)
	if err != nil {
		return fmt.Errorf("run_duration: %w", err)
	}
	clock, err := chrono.NewStandardImpl(config.Timezone)
	if err != nil {
		return err
	}
	tel := telemetry.SlogAPI{}

	dbPath, err := devenv.ResolvePath(config.Database)
	if err != nil {
		return err
	}
	err = os.MkdirAll(filepath.Dir(dbPath), 0777)
	if err != nil {
		return err
	}
	store, err := mockserver.OpenStore(ctx, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if seed {
		err = mockserver.Seed(ctx, store, clock)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	server := mockserver.NewServer(mockserver.Options{
		Store:       store,
		Clock:       clock,
		Tel:         tel,
		Username:    config.Username,
		Password:    config.Password,
		RunDuration: runDuration,
		Scrape:      mockserver.NewScraper(store, clock),
	})
	defer server.Close()

	return serviceutil.StartHttpServer(ctx, config.Addr, server.Handler())
}

func main() {
	var configPath string
	var verbose bool
	var seed bool

	cmd := &cobra.Command{
		Use:           "mockserver",
		Short:         "Serve the listings endpoints from a local sqlite database",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			libtelemetry.InitSlog(cmd.ErrOrStderr(), verbose)

			config, err := configutil.ReadWithDefaults(configPath, defaultConfig)
			if err != nil {
				return err
			}
			return run(cmd.Context(), config, seed)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "mockserver.json5", "path to the config file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().BoolVar(&seed, "seed", false, "insert sample listings before serving")

	err := cmd.ExecuteContext(serviceutil.SignalContext())
	if err != nil {
		serviceutil.Fatal("mock server stopped", err)
	}
}
