package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveFallbackChain(t *testing.T) {
	t.Setenv("ANALYTICS_DB_HOST", "fallback-host")
	t.Setenv("ANALYTICS_DB_HOST_CLUSTER", "cluster-host")

	if got := resolve("ANALYTICS_DB_HOST", "cluster"); got != "cluster-host" {
		t.Fatalf("expected cluster-host, got %q", got)
	}
	if got := resolve("ANALYTICS_DB_HOST", "local"); got != "fallback-host" {
		t.Fatalf("expected fallback-host, got %q", got)
	}
}

func TestValidateReportsMissingSettings(t *testing.T) {
	cfg := PostgresConfig{Host: "db.internal", Port: "5432"}
	err := cfg.Validate(StoreChemlink)
	if err == nil {
		t.Fatalf("expected validation error for missing name/user")
	}
	msg := err.Error()
	for _, want := range []string{"CHEMLINK_PRD_DB_NAME", "CHEMLINK_PRD_DB_USER"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("error %q does not name %s", msg, want)
		}
	}
	if strings.Contains(msg, "CHEMLINK_PRD_DB_HOST") {
		t.Fatalf("error %q should not name the host, it was provided", msg)
	}
}

func TestLoadRejectsUnknownEnv(t *testing.T) {
	t.Setenv("ETL_ENV", "staging")
	if _, err := Load(nil); err == nil {
		t.Fatalf("expected error for unknown ETL_ENV")
	}
}

func TestTuningDefaultsAndOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "etl.yaml")
	body := "dormant_days: 14\nchurned_days: 60\nfield_precedence: engagement\ntest_account_emails:\n  - qa@example.com\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write tuning file: %v", err)
	}
	t.Setenv("ETL_ENV", "local")
	t.Setenv("ETL_CONFIG_FILE", path)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	tn := cfg.Tuning
	if tn.DormantDays != 14 || tn.ChurnedDays != 60 {
		t.Fatalf("overlay not applied: %+v", tn)
	}
	if tn.BatchSizeLarge != 500 || tn.LargeRowThreshold != 1000 {
		t.Fatalf("defaults lost under overlay: %+v", tn)
	}
	if tn.FieldPrecedence != PrecedenceEngagement {
		t.Fatalf("expected engagement precedence, got %q", tn.FieldPrecedence)
	}
	if len(tn.TestAccountEmails) != 1 || tn.TestAccountEmails[0] != "qa@example.com" {
		t.Fatalf("expected overridden email list, got %v", tn.TestAccountEmails)
	}
}

func TestTuningValidateOrdering(t *testing.T) {
	tn := DefaultTuning()
	tn.ChurnedDays = tn.DormantDays
	if err := tn.Validate(); err == nil {
		t.Fatalf("expected churned<=dormant to be rejected")
	}
}
