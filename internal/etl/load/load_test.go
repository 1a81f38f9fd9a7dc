package load

import (
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/chemlink/analytics-etl/internal/config"
	"github.com/chemlink/analytics-etl/internal/etl/report"
	"github.com/chemlink/analytics-etl/internal/etl/target"
	"github.com/chemlink/analytics-etl/internal/platform/logger"
)

func TestBatchSizeThreshold(t *testing.T) {
	tun := config.DefaultTuning()
	if got := BatchSize(1200, tun); got != 500 {
		t.Fatalf("large extract: got batch size %d, want 500", got)
	}
	if got := BatchSize(1000, tun); got != 200 {
		t.Fatalf("at threshold: got batch size %d, want 200", got)
	}
	if got := BatchSize(3, tun); got != 200 {
		t.Fatalf("small extract: got batch size %d, want 200", got)
	}
}

func TestBatchesSplit(t *testing.T) {
	got := Batches(1200, 500)
	want := [][2]int{{0, 500}, {500, 1000}, {1000, 1200}}
	if len(got) != len(want) {
		t.Fatalf("got %d batches, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("batch %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if Batches(0, 500) != nil {
		t.Fatal("zero rows should yield no batches")
	}
}

func TestBuildInsert(t *testing.T) {
	sql := buildInsert(target.StagingChemlinkPersons, []string{"id", "email", "created_at"})
	want := "INSERT INTO staging.chemlink_persons (id, email, created_at) VALUES ($1, $2, $3)"
	if sql != want {
		t.Fatalf("got %q, want %q", sql, want)
	}
}

func TestTruncateFailureRecordedOnReport(t *testing.T) {
	log, err := logger.New("local")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	rep := report.NewRun()
	l := &Loader{Log: log, Report: rep, Tuning: config.DefaultTuning()}

	l.recordTruncateFailure(target.StagingChemlinkPersons, &pgconn.PgError{
		Code:    "42P01",
		Message: "relation does not exist",
	})

	errs := rep.Errors()
	if len(errs) != 1 {
		t.Fatalf("got %d recorded errors, want 1", len(errs))
	}
	if errs[0].Step != "truncate" || errs[0].Table != "staging.chemlink_persons" {
		t.Fatalf("unexpected error record: %+v", errs[0])
	}
	if errs[0].SQLState != "42P01" {
		t.Fatalf("got sqlstate %q, want 42P01", errs[0].SQLState)
	}
	if code := rep.Finalize(false); code != 1 {
		t.Fatalf("got exit code %d, want 1", code)
	}
}

func TestReplaceRejectsUnsafeColumns(t *testing.T) {
	l := &Loader{Tuning: config.DefaultTuning()}
	_, err := l.Replace(nil, target.StagingChemlinkPersons, []string{"id; DROP TABLE"}, nil)
	if err == nil || !strings.Contains(err.Error(), "unsafe column name") {
		t.Fatalf("expected unsafe column error, got %v", err)
	}
}
