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
	"github.com/chemlink/analytics-etl/internal/etl/aggregate"
	"github.com/chemlink/analytics-etl/internal/etl/report"
	"github.com/chemlink/analytics-etl/internal/platform/envutil"
	"github.com/chemlink/analytics-etl/internal/platform/logger"
)

// Recomputes the aggregates schema and refreshes the engagement view.
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

	agg := &aggregate.Aggregator{Pool: analytics, Log: log, Report: rep}
	agg.Run(ctx)

	rep.Summary(log, "aggregate")
	return rep.Finalize(ctx.Err() != nil)
}
