package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"mylibrary/internal/config"
	"mylibrary/internal/platform/database"

	"github.com/pressly/goose/v3"
)

func main() {
	opts, err := loadOptions(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger := cfg.Logger()

	if opts.command == "create" {
		if err := goose.Create(nil, opts.dir, opts.name, "sql"); err != nil {
			logger.Error("create migration", "name", opts.name, "error", err)
			os.Exit(1)
		}
		logger.Info("migration created", "name", opts.name)
		return
	}

	db, err := database.Open(context.Background(), cfg.DatabaseDSN)
	if err != nil {
		logger.Error("connect to database", "dsn", cfg.RedactedDSN(), "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := run(db.SQL, opts); err != nil {
		logger.Error("migration failed", "command", opts.command, "error", err)
		os.Exit(1)
	}
	logger.Info("migration command finished", "command", opts.command, "dir", opts.dir)
}

func run(db *sql.DB, opts options) error {
	goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch opts.command {
	case "up":
		return goose.Up(db, opts.dir)
	case "down":
		return goose.Down(db, opts.dir)
	case "status":
		return goose.Status(db, opts.dir)
	}
	return fmt.Errorf("unknown command: %s", opts.command)
}
