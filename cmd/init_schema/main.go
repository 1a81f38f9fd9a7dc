package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/chemlink/analytics-etl/internal/config"
	"github.com/chemlink/analytics-etl/internal/db"
	"github.com/chemlink/analytics-etl/internal/platform/envutil"
	"github.com/chemlink/analytics-etl/internal/platform/logger"
)

// Warehouse DDL, applied in dependency order.
var schemaFiles = []string{
	"01_create_schemas.sql",
	"02_staging_tables.sql",
	"03_core_tables.sql",
	"04_aggregate_views.sql",
	"05_ai_views.sql",
}

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()

	dir := flag.String("dir", "schema", "directory holding the ordered DDL files")
	flag.Parse()

	log, err := logger.New(envutil.Get("LOG_MODE", "local"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init:", err)
		return 1
	}
	defer log.Sync()

	cfg, err := config.Load(log)
	if err != nil {
		log.Error("configuration failed", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	analytics, err := db.Connect(ctx, config.StoreAnalytics, cfg.Analytics, log)
	if err != nil {
		log.Error("analytics connection failed", "error", err)
		return 1
	}
	defer analytics.Close()

	applied := 0
	failed := 0
	for _, name := range schemaFiles {
		if err := ctx.Err(); err != nil {
			log.Warn("schema init interrupted", "before_file", name)
			return 130
		}
		path := filepath.Join(*dir, name)
		ddl, err := os.ReadFile(path)
		if err != nil {
			log.Warn("schema file missing, skipped", "file", name, "error", err)
			continue
		}
		if _, err := analytics.Exec(ctx, string(ddl)); err != nil {
			log.Error("schema file failed", "file", name, "error", err)
			failed++
			continue
		}
		log.Info("schema file applied", "file", name)
		applied++
	}

	log.Info("schema initialization complete", "applied", applied, "failed", failed)
	if failed > 0 {
		return 1
	}
	return 0
}
