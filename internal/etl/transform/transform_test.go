package transform

import (
	"strings"
	"testing"

	"github.com/chemlink/analytics-etl/internal/config"
)

func TestScoreWeightsSumToHundred(t *testing.T) {
	if got := scoreTotal(); got != 100 {
		t.Fatalf("score weights sum to %d, want 100", got)
	}
}

func TestScoreExprContainsEveryRule(t *testing.T) {
	expr := scoreExpr()
	for _, r := range scoreRules {
		if !strings.Contains(expr, r.cond) {
			t.Fatalf("rule %s missing from rendered expression", r.name)
		}
	}
}

func TestLifecycleCaseBranchOrder(t *testing.T) {
	sql := lifecycleCase(config.DefaultTuning())
	churned := strings.Index(sql, "'CHURNED'")
	dormant := strings.Index(sql, "'DORMANT'")
	engaged := strings.Index(sql, "'ENGAGED'")
	newUser := strings.Index(sql, "'NEW'")
	activated := strings.Index(sql, "'ACTIVATED'")
	for name, idx := range map[string]int{
		"CHURNED": churned, "DORMANT": dormant, "ENGAGED": engaged,
		"NEW": newUser, "ACTIVATED": activated,
	} {
		if idx < 0 {
			t.Fatalf("branch %s missing", name)
		}
	}
	if !(churned < dormant && dormant < engaged && engaged < newUser && newUser < activated) {
		t.Fatal("lifecycle branches out of order")
	}
}

func TestLifecycleCaseUsesConfiguredThresholds(t *testing.T) {
	tun := config.DefaultTuning()
	tun.ChurnedDays = 120
	tun.DormantDays = 45
	tun.NewUserDays = 14
	sql := lifecycleCase(tun)
	for _, want := range []string{"> 120", "> 45", "<= 14"} {
		if !strings.Contains(sql, want) {
			t.Fatalf("threshold %q missing from case expression", want)
		}
	}
}

func TestCoalescedPrecedence(t *testing.T) {
	if got := coalesced(config.PrecedenceChemlink, "email"); got != "COALESCE(cp.email, ep.email)" {
		t.Fatalf("chemlink precedence: got %q", got)
	}
	if got := coalesced(config.PrecedenceEngagement, "email"); got != "COALESCE(ep.email, cp.email)" {
		t.Fatalf("engagement precedence: got %q", got)
	}
}

func TestUnifiedUsersSQLShape(t *testing.T) {
	sql := unifiedUsersSQL(config.DefaultTuning())
	for _, want := range []string{
		"INSERT INTO core.unified_users",
		"SELECT DISTINCT ON (cp.id)",
		"LEFT JOIN staging.engagement_persons ep ON cp.id = ep.external_id",
		"cp.email = ANY($1)",
		"WHERE cp.deleted_at IS NULL",
	} {
		if !strings.Contains(sql, want) {
			t.Fatalf("unified users SQL missing %q", want)
		}
	}
}

func TestEventSourcesCoverAllTypes(t *testing.T) {
	want := map[string]bool{"post": true, "comment": true, "vote": true, "collection": true, "view": true}
	if len(eventSources) != len(want) {
		t.Fatalf("got %d event sources, want %d", len(eventSources), len(want))
	}
	for _, ev := range eventSources {
		if !want[ev.name] {
			t.Fatalf("unexpected event source %q", ev.name)
		}
		if !strings.Contains(ev.sql, "'"+ev.name+"' AS activity_type") {
			t.Fatalf("source %q does not tag its activity_type", ev.name)
		}
		if !strings.Contains(ev.sql, "is_first_activity_of_type") {
			t.Fatalf("source %q missing first-activity flag", ev.name)
		}
	}
}

func TestUserCohortsOrderedAscending(t *testing.T) {
	if !strings.HasSuffix(userCohortsSQL, "ORDER BY cohort_month") {
		t.Fatal("user cohorts must be ordered ascending by cohort month")
	}
}

func TestSourceIDDerivation(t *testing.T) {
	want := "('x' || SUBSTRING(REPLACE(p.id::TEXT, '-', ''), 1, 15))::BIT(60)::BIGINT"
	if got := uuidSourceID("p.id"); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if uuidSourceID("p.id") != uuidSourceID("p.id") {
		t.Fatal("expression is not deterministic")
	}
	if uuidSourceID("p.id") == uuidSourceID("c.id") {
		t.Fatal("distinct key columns must render distinct expressions")
	}

	uuidKeyed := map[string]string{"post": "p.id", "comment": "c.id"}
	for _, ev := range eventSources {
		if col, ok := uuidKeyed[ev.name]; ok {
			if !strings.Contains(ev.sql, uuidSourceID(col)+" AS source_id") {
				t.Fatalf("source %q does not derive source_id from %s", ev.name, col)
			}
			continue
		}
		if strings.Contains(ev.sql, "BIT(60)") {
			t.Fatalf("integer-keyed source %q must pass its key through", ev.name)
		}
		if !strings.Contains(ev.sql, ".id AS source_id") {
			t.Fatalf("source %q does not pass its key through as source_id", ev.name)
		}
	}
}
