package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/PortNumber53/agency-site/backend/internal/config"
	"github.com/PortNumber53/agency-site/backend/internal/logging"
	"github.com/PortNumber53/agency-site/backend/internal/migrations"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(
		"../.env",
		".env",
	)

	logger := logging.New(logging.Options{})
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "up":
		logger.Info("applying migrations")
		if err := migrations.Up(db, logger); err != nil {
			logger.Fatal("failed to apply migrations", zap.Error(err))
		}

	case "fix":
		logger.Info("attempting to fix dirty database")
		if err := migrations.FixDirtyDatabase(db, logger); err != nil {
			logger.Fatal("failed to fix dirty database", zap.Error(err))
		}

	case "force":
		if len(os.Args) < 3 {
			usage()
		}
		v, err := strconv.ParseUint(os.Args[2], 10, 32)
		if err != nil {
			logger.Fatal("invalid version number", zap.String("version", os.Args[2]))
		}
		if err := migrations.ForceVersion(db, uint(v)); err != nil {
			logger.Fatal("failed to force version", zap.Error(err))
		}
		logger.Info("database version forced", zap.Uint64("version", v))

	case "status":
		status, err := migrations.CurrentStatus(db)
		if err != nil {
			logger.Fatal("failed to read migration status", zap.Error(err))
		}
		if status.Fresh {
			fmt.Println("version: none (no migrations applied)")
			return
		}
		fmt.Printf("version: %d\ndirty: %t\n", status.Version, status.Dirty)

	default:
		usage()
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [up|fix|force <version>|status]\n", os.Args[0])
	os.Exit(2)
}
