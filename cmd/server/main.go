package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/PortNumber53/agency-site/backend/internal/config"
	"github.com/PortNumber53/agency-site/backend/internal/estimator"
	"github.com/PortNumber53/agency-site/backend/internal/httpserver"
	"github.com/PortNumber53/agency-site/backend/internal/logging"
	"github.com/PortNumber53/agency-site/backend/internal/migrations"
	"github.com/PortNumber53/agency-site/backend/internal/models"
	"github.com/PortNumber53/agency-site/backend/internal/notify"
	"github.com/PortNumber53/agency-site/backend/internal/sessions"
	"github.com/PortNumber53/agency-site/backend/internal/store"
	"github.com/PortNumber53/agency-site/backend/internal/worker"
)

const jobRetention = 30 * 24 * time.Hour

func main() {
	// Best-effort: load environment variables from .env-style files in local
	// development. These calls are safe to ignore in production environments.
	_ = godotenv.Load(
		"../.env",
		".env",
	)

	cfg, err := config.Load()
	if err != nil {
		// The logger is configured from cfg, so fall back to a bare one.
		zap.NewExample().Fatal("failed to load configuration", zap.Error(err))
	}

	logger := logging.New(logging.Options{Production: cfg.IsProduction(), FilePath: cfg.LogFile})
	defer func() { _ = logger.Sync() }()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	logDBTarget(logger, "primary", cfg.DatabaseURL)
	configureDB(db)

	st, err := store.New(db)
	if err != nil {
		logger.Fatal("failed to create store", zap.Error(err))
	}
	if err := st.Ping(context.Background(), 5*time.Second); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}

	if err := runMigrationsWithDirtyFix(db, logger); err != nil {
		logger.Fatal("failed to apply database migrations", zap.Error(err))
	}

	jobStore, err := store.NewJobStore(db)
	if err != nil {
		logger.Fatal("failed to create job store", zap.Error(err))
	}
	pruneJobs(jobStore, logger)

	notifier := notify.NewClient(cfg.NotifyWebhookURL, cfg.NotifyWebhookSecret, logger)
	if !notifier.Enabled() {
		logger.Warn("NOTIFY_WEBHOOK_URL not set; notifications will only be logged")
	}

	jobWorker := worker.New(worker.DefaultConfig(), jobStore, logger.Named("worker"))
	worker.RegisterNotificationJobs(jobWorker, notifier)
	jobWorker.SetInstrumentation(&worker.Instrumentation{
		OnFail: func(job *models.Job, err error, d time.Duration) {
			logger.Warn("notification job failed",
				zap.Int64("job_id", job.ID),
				zap.String("job_type", job.JobType),
				zap.Int("attempts", job.Attempts),
				zap.Duration("duration", d),
				zap.Error(err),
			)
		},
		OnHeartbeat: func(workerID string, s worker.Stats) {
			logger.Debug("worker heartbeat",
				zap.String("worker_id", workerID),
				zap.Int64("processed", s.JobsProcessed),
				zap.Int("active", s.ActiveJobs),
			)
		},
	})

	catalog := estimator.DefaultCatalog()
	srv := httpserver.New(cfg, httpserver.Deps{
		Logger:    logger,
		Catalog:   catalog,
		Sessions:  sessions.New(catalog, cfg.SessionTTL),
		Submitter: store.NewQuoteSubmitter(st),
		Contacts:  st,
		Quotes:    st,
		Jobs:      jobStore,
		Worker:    jobWorker,
	})

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-shutdownCtx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("backend starting", zap.String("addr", cfg.ServerAddress), zap.String("env", cfg.Environment))
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server exited with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func configureDB(db *sql.DB) {
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
}

func runMigrationsWithDirtyFix(db *sql.DB, logger *zap.Logger) error {
	err := migrations.Up(db, logger)
	if err == nil || !migrations.IsDirty(err) {
		return err
	}

	logger.Warn("migrations: dirty database detected, attempting to fix", zap.Error(err))
	if fixErr := migrations.FixDirtyDatabase(db, logger); fixErr != nil {
		logger.Error("migrations: failed to fix dirty database", zap.Error(fixErr))
		return err
	}
	return migrations.Up(db, logger)
}

func pruneJobs(jobs *store.JobStore, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := jobs.CleanupOldJobs(ctx, jobRetention)
	if err != nil {
		logger.Warn("failed to prune old jobs", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Info("pruned finished jobs", zap.Int64("count", n))
	}
}

func logDBTarget(logger *zap.Logger, name, dsn string) {
	// Avoid logging secrets: only log hostname + database path.
	u, err := url.Parse(dsn)
	if err != nil {
		logger.Info("db configured", zap.String("name", name), zap.NamedError("dsn_error", err))
		return
	}
	logger.Info("db configured",
		zap.String("name", name),
		zap.String("host", u.Hostname()),
		zap.String("db", strings.TrimPrefix(u.Path, "/")),
	)
}
