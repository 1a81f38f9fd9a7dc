// Package orchestrator runs the extract binaries sequentially as child
// processes, streaming their output and collecting exit codes.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/chemlink/analytics-etl/internal/platform/logger"
)

// Jobs maps each job name to its sibling binary. Order matters: the
// relational extract feeds the identity data the graph transforms join
// against, so it runs first on a full run.
var Jobs = []Job{
	{Name: "core", Binary: "extract"},
	{Name: "neo4j", Binary: "extract_graph"},
	{Name: "glossary", Binary: "extract_glossary"},
}

type Job struct {
	Name   string
	Binary string
}

// UsageError marks a bad job selection; callers exit 2 on it.
type UsageError struct{ msg string }

func (e *UsageError) Error() string { return e.msg }

// Select resolves the requested job names. --all combined with --only is
// a usage error, as is any unknown name. No selection at all means every
// job.
func Select(only []string, all bool) ([]Job, error) {
	if len(only) > 0 && all {
		return nil, &UsageError{msg: "cannot combine --all with --only"}
	}
	if len(only) == 0 {
		return Jobs, nil
	}
	byName := make(map[string]Job, len(Jobs))
	for _, j := range Jobs {
		byName[j.Name] = j
	}
	var selected []Job
	var unknown []string
	for _, name := range only {
		j, ok := byName[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		selected = append(selected, j)
	}
	if len(unknown) > 0 {
		return nil, &UsageError{msg: "unknown extract name(s): " + strings.Join(unknown, ", ")}
	}
	return selected, nil
}

// Result is one child run's outcome.
type Result struct {
	Job      Job
	ExitCode int
	Err      error
}

func (r Result) OK() bool { return r.ExitCode == 0 && r.Err == nil }

type Runner struct {
	Log *logger.Logger

	// BinDir overrides where job binaries are looked up; empty means
	// the directory of the running executable.
	BinDir string
}

// Run executes the selected jobs in order. A failing job does not stop
// the rest; the caller inspects the results for the combined status.
func (r *Runner) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, 0, len(jobs))
	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Job: j, ExitCode: 130, Err: err})
			break
		}
		results = append(results, r.runOne(ctx, j))
	}
	return results
}

func (r *Runner) runOne(ctx context.Context, j Job) Result {
	path, err := r.binaryPath(j)
	if err != nil {
		return Result{Job: j, ExitCode: 1, Err: err}
	}
	r.Log.Info("running extract job", "job", j.Name, "binary", path)

	cmd := exec.CommandContext(ctx, path)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			code := exitErr.ExitCode()
			r.Log.Error("extract job failed", "job", j.Name, "exit_code", code)
			return Result{Job: j, ExitCode: code}
		}
		return Result{Job: j, ExitCode: 1, Err: err}
	}
	r.Log.Info("extract job completed", "job", j.Name)
	return Result{Job: j, ExitCode: 0}
}

func (r *Runner) binaryPath(j Job) (string, error) {
	dir := r.BinDir
	if dir == "" {
		self, err := os.Executable()
		if err != nil {
			return "", fmt.Errorf("locate own binary: %w", err)
		}
		dir = filepath.Dir(self)
	}
	path := filepath.Join(dir, j.Binary)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("extract binary %s: %w", path, err)
	}
	return path, nil
}

// Exit reduces the result list to a process exit code: 130 if any job
// was interrupted, 1 if any failed, else 0.
func Exit(results []Result) int {
	code := 0
	for _, res := range results {
		switch {
		case res.ExitCode == 130:
			return 130
		case !res.OK():
			code = 1
		}
	}
	return code
}
