package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/chemlink/analytics-etl/internal/config"
	"github.com/chemlink/analytics-etl/internal/db"
	"github.com/chemlink/analytics-etl/internal/etl/graph"
	"github.com/chemlink/analytics-etl/internal/etl/load"
	"github.com/chemlink/analytics-etl/internal/etl/report"
	"github.com/chemlink/analytics-etl/internal/platform/envutil"
	"github.com/chemlink/analytics-etl/internal/platform/logger"
	"github.com/chemlink/analytics-etl/internal/platform/neo4jdb"
	"github.com/chemlink/analytics-etl/internal/repos"
)

// Mirrors the career graph into staging and records the run in meta.
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
	if !cfg.Graph.Configured() {
		log.Error("graph store not configured, set NEO4J_URI")
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

	client, err := neo4jdb.New(cfg.Graph, log)
	if err != nil {
		log.Error("graph connection failed", "error", err)
		return 1
	}
	defer client.Close(ctx)

	loader := &load.Loader{Pool: analytics, Log: log, Report: rep, Tuning: cfg.Tuning}
	ex := &graph.Extractor{Client: client, Loader: loader, Report: rep, Log: log}
	stats := ex.Run(ctx)

	recordRun(ctx, cfg, log, rep, stats)

	rep.Summary(log, "graph extract")
	return rep.Finalize(ctx.Err() != nil)
}

// recordRun writes run history best-effort: a meta write failure is a
// warning and never changes the exit code.
func recordRun(ctx context.Context, cfg config.Config, log *logger.Logger, rep *report.Run, stats graph.Stats) {
	meta, err := db.OpenMeta(cfg.Analytics, log)
	if err != nil {
		log.Warn("run history unavailable", "error", err)
		return
	}
	repo, err := repos.NewExtractionRunRepo(meta, log)
	if err != nil {
		log.Warn("run history migration failed", "error", err)
		return
	}

	status := "success"
	var errMsg string
	switch {
	case ctx.Err() != nil:
		status = "cancelled"
		errMsg = ctx.Err().Error()
	case rep.HasErrors():
		status = "failed"
		errMsg = rep.Errors()[0].Message
	}
	run := &repos.ExtractionRun{
		Kind:          "full",
		Nodes:         stats.Nodes,
		Relationships: stats.Relationships,
		StartedAt:     rep.Started,
		CompletedAt:   time.Now(),
		Status:        status,
		ErrorMessage:  errMsg,
	}
	if err := repo.Create(context.WithoutCancel(ctx), run); err != nil {
		log.Warn("run history write failed", "error", err)
	}
}
