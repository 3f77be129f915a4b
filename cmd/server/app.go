package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mwhitlock/taskping/internal/config"
	"github.com/mwhitlock/taskping/internal/events"
	"github.com/mwhitlock/taskping/internal/platform/mailer"
	"github.com/mwhitlock/taskping/internal/platform/postgres"
	"github.com/mwhitlock/taskping/internal/platform/redisledger"
	"github.com/mwhitlock/taskping/internal/service"
	"github.com/mwhitlock/taskping/internal/store"
)

// application holds the wired dependency graph for the server.
type application struct {
	config      *config.Config
	logger      *slog.Logger
	db          *sql.DB
	redisClient *redis.Client

	scanRunner *service.ScanRunner
	emitter    events.Emitter
}

// newApplication builds the full dependency graph: database, ledger,
// mailer, services, and event handlers.
func newApplication(cfg *config.Config, log *slog.Logger) (*application, error) {
	db, err := setupDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	app := &application{
		config: cfg,
		logger: log,
		db:     db,
	}

	userStore := postgres.NewPostgresUserStore(db)
	taskReader := postgres.NewPostgresTaskReader(db)

	ledger, err := app.setupLedger()
	if err != nil {
		db.Close()
		return nil, err
	}

	mailClient := mailer.New(mailer.Config{
		Endpoint: cfg.Mailer.Endpoint,
		APIKey:   cfg.Mailer.APIKey,
		From:     cfg.Mailer.From,
	})

	dispatchTimeout := time.Duration(cfg.Notification.DispatchTimeoutMs) * time.Millisecond
	resolver := service.NewAssigneeResolver(userStore, log)
	dispatcher := service.NewDispatcher(mailClient, dispatchTimeout, log)

	app.scanRunner = service.NewScanRunner(
		taskReader,
		resolver,
		ledger,
		dispatcher,
		service.ScanConfig{
			DueSoonWindow: time.Duration(cfg.Notification.DueSoonWindowHours) * time.Hour,
			Concurrency:   cfg.Notification.ScanConcurrency,
			Deadline:      time.Duration(cfg.Notification.ScanDeadlineSeconds) * time.Second,
		},
		log,
	)

	// Assignment notifications ride on the in-process event bus: the
	// task subsystem emits assignment.created after its write commits.
	notifier := service.NewAssignmentNotifier(resolver, dispatcher, dispatchTimeout, log)
	emitter := events.NewInMemoryEmitter(log)
	emitter.RegisterHandler(service.NewAssignmentEventHandler(notifier, log))
	app.emitter = emitter

	return app, nil
}

// setupLedger selects the notification ledger backend. Redis is used
// when configured; otherwise reservations live in Postgres alongside
// the task data.
func (app *application) setupLedger() (store.NotificationLedger, error) {
	if app.config.Redis.URL == "" {
		return postgres.NewPostgresNotificationLedger(app.db), nil
	}

	opts, err := redis.ParseURL(app.config.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	app.redisClient = redis.NewClient(opts)

	ttl := time.Duration(app.config.Redis.LedgerTTLHours) * time.Hour
	return redisledger.New(app.redisClient, ttl), nil
}

// cleanup releases held connections. Safe to call once after the server
// has stopped.
func (app *application) cleanup() {
	if app.redisClient != nil {
		if err := app.redisClient.Close(); err != nil {
			app.logger.Error("failed to close redis client", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
