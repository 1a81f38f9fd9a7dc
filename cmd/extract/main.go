package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/chemlink/analytics-etl/internal/config"
	"github.com/chemlink/analytics-etl/internal/db"
	"github.com/chemlink/analytics-etl/internal/etl/extract"
	"github.com/chemlink/analytics-etl/internal/etl/load"
	"github.com/chemlink/analytics-etl/internal/etl/report"
	"github.com/chemlink/analytics-etl/internal/platform/envutil"
	"github.com/chemlink/analytics-etl/internal/platform/logger"
)

// Full refresh of the relational staging tables: both sources, persons
// first, dependents filtered to live person IDs.
func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()

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

	rep := report.NewRun()

	analytics, err := db.Connect(ctx, config.StoreAnalytics, cfg.Analytics, log)
	if err != nil {
		log.Error("analytics connection failed", "error", err)
		return 1
	}
	defer analytics.Close()

	loader := &load.Loader{Pool: analytics, Log: log, Report: rep, Tuning: cfg.Tuning}

	chemlink, err := db.Connect(ctx, config.StoreChemlink, cfg.Chemlink, log)
	if err != nil {
		log.Error("chemlink connection failed", "error", err)
		return 1
	}
	extract.Chemlink(ctx, chemlink, loader, rep, log)
	chemlink.Close()

	if ctx.Err() == nil {
		engagement, err := db.Connect(ctx, config.StoreEngagement, cfg.Engagement, log)
		if err != nil {
			log.Error("engagement connection failed", "error", err)
			return 1
		}
		extract.Engagement(ctx, engagement, loader, rep, log)
		engagement.Close()
	}

	rep.Summary(log, "relational extract")
	return rep.Finalize(ctx.Err() != nil)
}
