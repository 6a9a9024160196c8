package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"mylibrary/internal/config"
)

type options struct {
	command string
	name    string
	dir     string
}

// loadOptions reads .env files first so MIGRATIONS_DIR may come from them.
func loadOptions(args []string) (options, error) {
	config.LoadEnvFiles()
	return parseOptions(args)
}

func parseOptions(args []string) (options, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	command := fs.String("command", "up", "Migration command: up, down, status, create")
	name := fs.String("name", "", "Name for 'create' command")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts := options{command: *command, name: *name, dir: migrationsDir()}
	switch opts.command {
	case "up", "down", "status":
	case "create":
		if opts.name == "" {
			return options{}, errors.New("name is required for 'create' command")
		}
	default:
		return options{}, fmt.Errorf("unknown command: %s. Use: up, down, status, create", opts.command)
	}
	return opts, nil
}

func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return "db/migrations"
}
