package orchestrator

import (
	"errors"
	"testing"
)

func TestSelectDefaultsToAllJobs(t *testing.T) {
	jobs, err := Select(nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != len(Jobs) {
		t.Fatalf("got %d jobs, want %d", len(jobs), len(Jobs))
	}
	if jobs[0].Name != "core" {
		t.Fatalf("core must run first, got %s", jobs[0].Name)
	}
}

func TestSelectOnlySubsetInOrderGiven(t *testing.T) {
	jobs, err := Select([]string{"glossary", "neo4j"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 || jobs[0].Name != "glossary" || jobs[1].Name != "neo4j" {
		t.Fatalf("unexpected selection: %v", jobs)
	}
}

func TestSelectRejectsAllWithOnly(t *testing.T) {
	_, err := Select([]string{"core"}, true)
	var usage *UsageError
	if !errors.As(err, &usage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestSelectRejectsUnknownNames(t *testing.T) {
	_, err := Select([]string{"core", "bogus"}, false)
	var usage *UsageError
	if !errors.As(err, &usage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestExitCombinesResults(t *testing.T) {
	ok := Result{Job: Jobs[0], ExitCode: 0}
	failed := Result{Job: Jobs[1], ExitCode: 1}
	interrupted := Result{Job: Jobs[2], ExitCode: 130}

	if got := Exit([]Result{ok, ok}); got != 0 {
		t.Fatalf("all ok: got %d, want 0", got)
	}
	if got := Exit([]Result{ok, failed}); got != 1 {
		t.Fatalf("one failed: got %d, want 1", got)
	}
	if got := Exit([]Result{failed, interrupted}); got != 130 {
		t.Fatalf("interrupt wins: got %d, want 130", got)
	}
	if got := Exit(nil); got != 0 {
		t.Fatalf("empty results: got %d, want 0", got)
	}
}
