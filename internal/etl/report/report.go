// Package report accumulates the outcome of one pipeline invocation and
// turns it into a summary log block plus a process exit code.
package report

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/chemlink/analytics-etl/internal/platform/logger"
)

type ErrorRecord struct {
	Step     string
	Table    string
	SQLState string
	Message  string
}

type TableCount struct {
	Table string
	Rows  int
}

// Run collects per-table row counts, warnings, and errors across one
// extract/transform/aggregate invocation.
type Run struct {
	Started  time.Time
	counts   []TableCount
	warnings []string
	errs     []ErrorRecord
}

func NewRun() *Run {
	return &Run{Started: time.Now()}
}

func (r *Run) RecordTable(table string, rows int) {
	r.counts = append(r.counts, TableCount{Table: table, Rows: rows})
}

func (r *Run) Warn(msg string) {
	r.warnings = append(r.warnings, msg)
}

// Fail records a step failure. When err wraps a pgconn.PgError the
// SQLSTATE code is kept so the summary can distinguish schema problems
// from data problems.
func (r *Run) Fail(step, table string, err error) {
	rec := ErrorRecord{Step: step, Table: table, Message: err.Error()}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		rec.SQLState = pgErr.Code
	}
	r.errs = append(r.errs, rec)
}

func (r *Run) Errors() []ErrorRecord { return r.errs }

func (r *Run) HasErrors() bool { return len(r.errs) > 0 }

func (r *Run) TotalRows() int {
	total := 0
	for _, c := range r.counts {
		total += c.Rows
	}
	return total
}

// Summary writes the closing log block: per-table counts, warnings, then
// errors with their SQLSTATE codes.
func (r *Run) Summary(log *logger.Logger, title string) {
	log.Info(title+" summary",
		"tables", len(r.counts),
		"total_rows", r.TotalRows(),
		"elapsed", time.Since(r.Started).Round(time.Millisecond).String(),
	)
	for _, c := range r.counts {
		log.Info("table complete", "table", c.Table, "rows", c.Rows)
	}
	for _, w := range r.warnings {
		log.Warn(w)
	}
	for _, e := range r.errs {
		log.Error("step failed",
			"step", e.Step,
			"table", e.Table,
			"sqlstate", e.SQLState,
			"error", e.Message,
		)
	}
}

// Finalize maps the run outcome to a process exit code. Interruption wins
// over errors so operators can tell a cancelled run from a failed one.
func (r *Run) Finalize(cancelled bool) int {
	switch {
	case cancelled:
		return 130
	case len(r.errs) > 0:
		return 1
	default:
		return 0
	}
}
