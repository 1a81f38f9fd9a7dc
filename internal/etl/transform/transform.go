// Package transform rebuilds the core schema from staging. Each sub-step
// is one set-based INSERT..SELECT executed in its own transaction so a
// failing step never poisons the others.
package transform

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chemlink/analytics-etl/internal/config"
	"github.com/chemlink/analytics-etl/internal/etl/report"
	"github.com/chemlink/analytics-etl/internal/etl/schemagate"
	"github.com/chemlink/analytics-etl/internal/etl/target"
	"github.com/chemlink/analytics-etl/internal/platform/logger"
)

type Transformer struct {
	Pool   *pgxpool.Pool
	Log    *logger.Logger
	Report *report.Run
	Tuning config.Tuning
}

// Run executes the core rebuild: unified users, glossary, activity
// events, cohorts, then the gated graph transforms. Cancellation is
// honored at sub-step boundaries only; a running statement completes.
func (t *Transformer) Run(ctx context.Context) {
	steps := []struct {
		name string
		fn   func(context.Context)
	}{
		{"unified_users", t.unifiedUsers},
		{"glossary_terms", t.glossaryTerms},
		{"activity_events", t.activityEvents},
		{"user_cohorts", t.userCohorts},
		{"graph", t.graph},
	}
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			t.Log.Warn("transform interrupted", "before_step", s.name)
			return
		}
		t.Log.Info("transform step", "step", s.name)
		s.fn(ctx)
	}
}

// clear truncates the sub-step's destinations. Unlike the staging loader
// a failed truncate aborts the sub-step, since inserting on top of stale
// core rows would double-count everything downstream.
func (t *Transformer) clear(ctx context.Context, step string, tables ...target.Table) bool {
	for _, tbl := range tables {
		if _, err := t.Pool.Exec(ctx, "TRUNCATE TABLE "+tbl.Qualified()+" CASCADE"); err != nil {
			t.Report.Fail(step, tbl.Qualified(), err)
			return false
		}
	}
	return true
}

func (t *Transformer) exec(ctx context.Context, step string, tbl target.Table, sql string, args ...any) {
	tag, err := t.Pool.Exec(ctx, sql, args...)
	if err != nil {
		t.Report.Fail(step, tbl.Qualified(), err)
		return
	}
	t.Report.RecordTable(tbl.Qualified(), int(tag.RowsAffected()))
	t.Log.Info("transform complete", "step", step, "rows", tag.RowsAffected())
}

func (t *Transformer) unifiedUsers(ctx context.Context) {
	if !t.clear(ctx, "unified_users", target.CoreUnifiedUsers) {
		return
	}
	sql := unifiedUsersSQL(t.Tuning)
	t.exec(ctx, "unified_users", target.CoreUnifiedUsers, sql, t.Tuning.TestAccountEmails)
}

func (t *Transformer) glossaryTerms(ctx context.Context) {
	if !t.clear(ctx, "glossary_terms", target.CoreGlossaryTerms) {
		return
	}
	t.exec(ctx, "glossary_terms", target.CoreGlossaryTerms, glossaryTermsSQL)
}

func (t *Transformer) activityEvents(ctx context.Context) {
	if !t.clear(ctx, "activity_events", target.CoreUserActivityEvents) {
		return
	}
	for _, ev := range eventSources {
		if err := ctx.Err(); err != nil {
			return
		}
		t.exec(ctx, "activity_events_"+ev.name, target.CoreUserActivityEvents, ev.sql)
	}
}

func (t *Transformer) userCohorts(ctx context.Context) {
	if !t.clear(ctx, "user_cohorts", target.CoreUserCohorts) {
		return
	}
	t.exec(ctx, "user_cohorts", target.CoreUserCohorts, userCohortsSQL)
}

func (t *Transformer) graph(ctx context.Context) {
	gated := append(append([]target.Table{}, target.GraphStagingTables...), target.GraphCoreTables...)
	avail, err := schemagate.Check(ctx, t.Pool, gated)
	if err != nil {
		t.Report.Fail("graph_gate", "", err)
		return
	}
	if !avail.Available() {
		msg := "graph schema not initialized, skipping graph transforms: missing " +
			strings.Join(avail.MissingNames(), ", ")
		t.Report.Warn(msg)
		t.Log.Warn(msg)
		return
	}
	if !t.clear(ctx, "graph", target.GraphCoreTables...) {
		return
	}
	t.exec(ctx, "worked_together", target.CoreUserRelationships, workedTogetherSQL)
	t.exec(ctx, "studied_together", target.CoreUserRelationships, studiedTogetherSQL)
	t.exec(ctx, "company_networks", target.CoreCompanyNetworks, companyNetworksSQL)
	t.exec(ctx, "education_networks", target.CoreEducationNetworks, educationNetworksSQL)
	t.exec(ctx, "location_networks", target.CoreLocationNetworks, locationNetworksSQL)
	t.exec(ctx, "project_collaborations", target.CoreProjectCollaborations, projectCollaborationsSQL)
}
