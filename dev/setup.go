package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	devenv "listingsdash/dev/env"
	"listingsdash/dev/mockserver"
	"listingsdash/internal/components/chrono"

	"github.com/tcnksm/go-input"
)

type credentials struct {
	Username string
	Password string
}

func askCredentials() (credentials, error) {
	ui := input.DefaultUI()

	username, err := ui.Ask("mock server username:", &input.Options{
		Default: "admin",
		Loop:    true,
	})
	if err != nil {
		return credentials{}, err
	}
	password, err := ui.Ask("mock server password:", &input.Options{
		Default:     "admin",
		Mask:        true,
		MaskDefault: true,
		Loop:        true,
	})
	if err != nil {
		return credentials{}, err
	}
	return credentials{Username: username, Password: password}, nil
}

// CreateListingsDB creates and seeds the mock server database unless it already exists.
func CreateListingsDB(ctx context.Context) (string, error) {
	path, err := devenv.ResolvePath(filepath.Join("<dev_state>", "listings.db"))
	if err != nil {
		return "", err
	}
	_, err = os.Stat(path)
	if err == nil {
		slog.Info("database already created", "path", path)
		return path, nil
	}

	slog.Info("creating database", "path", path)
	store, err := mockserver.OpenStore(ctx, path)
	if err != nil {
		return "", err
	}
	defer store.Close()

	clock, err := chrono.NewStandardImpl("")
	if err != nil {
		return "", err
	}
	return path, mockserver.Seed(ctx, store, clock)
}

func writeLocalConfig(root, name string, config map[string]any) error {
	path := filepath.Join(root, name)
	_, err := os.Stat(path)
	if err == nil {
		slog.Info("config already exists, leaving it alone", "path", path)
		return nil
	}

	contents, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	slog.Info("writing config", "path", path)
	return os.WriteFile(path, contents, 0600)
}

// WriteLocalConfigs points the dashboard at the mock server, both use the given
// credentials.
func WriteLocalConfigs(dbPath string, creds credentials) error {
	root, err := devenv.GetWorkspaceRoot()
	if err != nil {
		return err
	}
	err = writeLocalConfig(root, "mockserver.local.json5", map[string]any{
		"addr":     "127.0.0.1:5000",
		"database": dbPath,
		"username": creds.Username,
		"password": creds.Password,
	})
	if err != nil {
		return err
	}
	return writeLocalConfig(root, "dashboard.local.json5", map[string]any{
		"base_url": "http://127.0.0.1:5000",
		"username": creds.Username,
		"password": creds.Password,
	})
}

func PrintUsage() {
	fmt.Println("start the mock server:  go run ./cmd/mockserver")
	fmt.Println("watch the dashboard:    go run ./cmd/dashboard watch")
}
