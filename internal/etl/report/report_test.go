package report

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestFinalizeExitCodes(t *testing.T) {
	r := NewRun()
	if got := r.Finalize(false); got != 0 {
		t.Fatalf("clean run: got %d, want 0", got)
	}
	r.Fail("transform", "core.unified_users", errors.New("boom"))
	if got := r.Finalize(false); got != 1 {
		t.Fatalf("failed run: got %d, want 1", got)
	}
	if got := r.Finalize(true); got != 130 {
		t.Fatalf("cancelled run: got %d, want 130", got)
	}
}

func TestFailExtractsSQLState(t *testing.T) {
	r := NewRun()
	pgErr := &pgconn.PgError{Code: "42P01", Message: "relation does not exist"}
	r.Fail("aggregate", "aggregates.daily_metrics", pgErr)
	r.Fail("aggregate", "", errors.New("plain"))

	recs := r.Errors()
	if len(recs) != 2 {
		t.Fatalf("got %d error records, want 2", len(recs))
	}
	if recs[0].SQLState != "42P01" {
		t.Fatalf("got sqlstate %q, want 42P01", recs[0].SQLState)
	}
	if recs[1].SQLState != "" {
		t.Fatalf("plain error picked up sqlstate %q", recs[1].SQLState)
	}
}

func TestFailExtractsWrappedSQLState(t *testing.T) {
	r := NewRun()
	inner := &pgconn.PgError{Code: "23505"}
	r.Fail("load", "staging.chemlink_persons", wrapErr(inner))
	if r.Errors()[0].SQLState != "23505" {
		t.Fatalf("wrapped pg error lost its sqlstate")
	}
}

type wrapped struct{ err error }

func (w wrapped) Error() string { return "wrapped: " + w.err.Error() }
func (w wrapped) Unwrap() error { return w.err }

func wrapErr(err error) error { return wrapped{err: err} }

func TestTotalRows(t *testing.T) {
	r := NewRun()
	r.RecordTable("staging.chemlink_persons", 100)
	r.RecordTable("staging.engagement_posts", 250)
	if got := r.TotalRows(); got != 350 {
		t.Fatalf("got %d total rows, want 350", got)
	}
}
