package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/chemlink/analytics-etl/internal/etl/orchestrator"
	"github.com/chemlink/analytics-etl/internal/platform/envutil"
	"github.com/chemlink/analytics-etl/internal/platform/logger"
)

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// Runs the extract binaries sequentially; see orchestrator.Jobs for the
// registry and order.
func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()

	var only stringList
	all := flag.Bool("all", false, "run every extract job (default when no --only given)")
	flag.Var(&only, "only", "run one extract job by name; repeatable")
	flag.Parse()

	log, err := logger.New(envutil.Get("LOG_MODE", "local"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init:", err)
		return 1
	}
	defer log.Sync()

	jobs, err := orchestrator.Select(only, *all)
	if err != nil {
		var usage *orchestrator.UsageError
		if errors.As(err, &usage) {
			fmt.Fprintln(os.Stderr, usage.Error())
			flag.Usage()
			return 2
		}
		log.Error("job selection failed", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := &orchestrator.Runner{Log: log}
	results := runner.Run(ctx, jobs)

	failed := 0
	for _, res := range results {
		if !res.OK() {
			failed++
			log.Error("extract job unsuccessful", "job", res.Job.Name, "exit_code", res.ExitCode, "error", res.Err)
		}
	}
	if failed == 0 {
		log.Info("all requested extracts completed", "jobs", len(results))
	}
	return orchestrator.Exit(results)
}
