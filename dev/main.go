package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	devenv "listingsdash/dev/env"
	"listingsdash/lib/serviceutil"
)

func create(ctx context.Context, recreate bool) error {
	_, err := os.Stat("go.mod")
	if os.IsNotExist(err) {
		return fmt.Errorf("the dev environment must be created in the repository root (the same directory as the 'go.mod' file)")
	}

	if recreate {
		statePath, err := devenv.ResolvePath("<dev_state>")
		if err != nil {
			return err
		}
		err = os.RemoveAll(statePath)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	creds, err := askCredentials()
	if err != nil {
		return err
	}
	dbPath, err := CreateListingsDB(ctx)
	if err != nil {
		return err
	}
	err = WriteLocalConfigs(dbPath, creds)
	if err != nil {
		return err
	}
	PrintUsage()

	return nil
}

func main() {
	recreate := flag.Bool("recreate", false, "recreate the dev environment from scratch")
	flag.Parse()

	err := create(context.Background(), *recreate)
	if err != nil {
		serviceutil.Fatal("failed to create dev environment", err)
	}

	slog.Info("dev environment created successfully!")
}
