package main

import (
	"fmt"
	"strings"
	"time"

	"listingsdash/internal/dashboard"
	"listingsdash/lib/configutil"
)

type Config struct {
	BaseUrl           string            `json:"base_url"`
	Username          string            `json:"username"`
	Password          string            `json:"password"`
	PollInterval      string            `json:"poll_interval"`
	RequestTimeout    string            `json:"request_timeout"`
	RequestsPerSecond float64           `json:"requests_per_second"`
	Filters           map[string]string `json:"filters"`
	ExportPath        string            `json:"export_path"`
}

var defaultConfig = Config{
	BaseUrl:           "http://127.0.0.1:5000",
	PollInterval:      dashboard.DefaultPollInterval.String(),
	RequestTimeout:    (30 * time.Second).String(),
	RequestsPerSecond: 5,
	ExportPath:        "ListingsExport.xlsx",
}

// settings is Config with its durations parsed.
type settings struct {
	Config
	pollInterval   time.Duration
	requestTimeout time.Duration
}

func loadConfig(path string) (settings, error) {
	config, err := configutil.ReadWithDefaults(path, defaultConfig)
	if err != nil {
		return settings{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return resolve(config)
}

func resolve(config Config) (settings, error) {
	out := settings{Config: config}

	var err error
	out.pollInterval, err = time.ParseDuration(config.PollInterval)
	if err != nil {
		return settings{}, fmt.Errorf("poll_interval: %w", err)
	}
	if out.pollInterval <= 0 {
		return settings{}, fmt.Errorf("poll_interval must be positive, got %s", config.PollInterval)
	}
	out.requestTimeout, err = time.ParseDuration(config.RequestTimeout)
	if err != nil {
		return settings{}, fmt.Errorf("request_timeout: %w", err)
	}
	return out, nil
}

// parseFilterFlags turns repeated `--filter id=value` flags into control values, later
// flags win. An empty value is kept so a flag can clear a filter from the config.
func parseFilterFlags(flags []string) (map[string]string, error) {
	out := make(map[string]string, len(flags))
	for _, f := range flags {
		id, value, ok := strings.Cut(f, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("filter %q: expected id=value", f)
		}
		out[id] = value
	}
	return out, nil
}

// controlValues merges the filter flags over the configured filters.
func controlValues(configured map[string]string, flags []string) (map[string]string, error) {
	overrides, err := parseFilterFlags(flags)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(configured)+len(overrides))
	for id, value := range configured {
		out[id] = value
	}
	for id, value := range overrides {
		out[id] = value
	}
	return out, nil
}
