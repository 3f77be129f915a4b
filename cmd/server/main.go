// Package main implements the entry point for the taskping server,
// which scans tasks for approaching and missed due dates and notifies
// their assignees by email.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mwhitlock/taskping/internal/config"
	"github.com/mwhitlock/taskping/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		fmt.Fprintf(os.Stderr, "taskping: %v\n", err)
		os.Exit(1)
	}
}

// run loads configuration, wires the application together, and either
// executes a migration command or serves HTTP until shutdown.
func run(migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	log := logger.Setup(cfg.Server.LogLevel)
	log.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"due_soon_window_hours", cfg.Notification.DueSoonWindowHours,
		"scan_concurrency", cfg.Notification.ScanConcurrency,
		"ledger_backend", ledgerBackend(cfg))

	if migrateCmd != "" {
		return runMigrations(cfg, migrateCmd)
	}

	app, err := newApplication(cfg, log)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer app.cleanup()

	return app.startHTTPServer(app.setupRouter())
}

// ledgerBackend names the notification ledger implementation selected
// by the configuration, for startup logging.
func ledgerBackend(cfg *config.Config) string {
	if cfg.Redis.URL != "" {
		return "redis"
	}
	return "postgres"
}
