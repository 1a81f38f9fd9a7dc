package aggregate

import (
	"strings"
	"testing"
)

func TestBaseRollupOrder(t *testing.T) {
	if len(baseRollups) != 8 {
		t.Fatalf("got %d base rollups, want 8", len(baseRollups))
	}
	if baseRollups[0].name != "daily_metrics" || baseRollups[1].name != "monthly_metrics" {
		t.Fatal("monthly rollup must follow daily, which it reads from")
	}
}

func TestRollupSQLTargetsMatch(t *testing.T) {
	for _, r := range append(append([]rollup{}, baseRollups...), graphRollups...) {
		if !strings.Contains(r.sql, "INSERT INTO "+r.tbl.Qualified()) {
			t.Fatalf("rollup %s does not insert into %s", r.name, r.tbl.Qualified())
		}
	}
}

func TestZeroDenominatorsGuarded(t *testing.T) {
	for _, frag := range []string{
		"WHEN cu.total_users_cumulative > 0",
		"WHEN a.active_users > 0",
	} {
		if !strings.Contains(dailyMetricsSQL, frag) {
			t.Fatalf("daily metrics missing guard %q", frag)
		}
	}
	for _, frag := range []string{
		"WHEN LAG(r.total_users_end_of_month) OVER (ORDER BY r.metric_month) > 0",
		"WHEN LAG(mau.mau) OVER (ORDER BY r.metric_month) > 0",
	} {
		if !strings.Contains(monthlyMetricsSQL, frag) {
			t.Fatalf("monthly metrics missing lag guard %q", frag)
		}
	}
}

func TestCohortRetentionWeekRange(t *testing.T) {
	if !strings.Contains(cohortRetentionSQL, "generate_series(0, 52)") {
		t.Fatal("cohort retention must cover weeks 0 through 52")
	}
}

func TestPeriodRollupsOrderedAscending(t *testing.T) {
	if !strings.HasSuffix(dailyMetricsSQL, "ORDER BY ds.metric_date") {
		t.Fatal("daily metrics must be ordered ascending by date")
	}
	if !strings.HasSuffix(monthlyMetricsSQL, "ORDER BY r.metric_month") {
		t.Fatal("monthly metrics must be ordered ascending by month")
	}
	if !strings.HasSuffix(cohortRetentionSQL, "ORDER BY cohort_month, weeks_since_signup") {
		t.Fatal("cohort retention must be ordered ascending by cohort then week")
	}
}

func TestGraphRollupsComplete(t *testing.T) {
	want := []string{
		"connection_recommendations", "company_network_map", "skills_matching",
		"career_path_patterns", "location_based_networks", "alumni_networks",
		"project_collaboration_graph",
	}
	if len(graphRollups) != len(want) {
		t.Fatalf("got %d graph rollups, want %d", len(graphRollups), len(want))
	}
	for i, r := range graphRollups {
		if r.name != want[i] {
			t.Fatalf("graph rollup %d: got %s, want %s", i, r.name, want[i])
		}
	}
}
