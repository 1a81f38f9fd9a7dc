// Package graph mirrors the career graph into staging: one table per
// node label plus a flat edge list every graph transform joins against.
package graph

import (
	"context"

	"github.com/chemlink/analytics-etl/internal/etl/load"
	"github.com/chemlink/analytics-etl/internal/etl/report"
	"github.com/chemlink/analytics-etl/internal/etl/target"
	"github.com/chemlink/analytics-etl/internal/platform/logger"
	"github.com/chemlink/analytics-etl/internal/platform/neo4jdb"
)

// nodeSpec maps one node label onto its staging table. keys double as
// the staging column names, in insert order.
type nodeSpec struct {
	name  string
	tbl   target.Table
	query string
	keys  []string
}

var nodeSpecs = []nodeSpec{
	{
		name: "persons",
		tbl:  target.StagingGraphPersons,
		query: `MATCH (p:Person)
RETURN p.person_id AS person_id,
       p.email AS email,
       p.secondary_email AS secondary_email,
       p.first_name AS first_name,
       p.last_name AS last_name,
       p.mobile_number AS mobile_number,
       p.mobile_number_country_code AS mobile_number_country_code`,
		keys: []string{"person_id", "email", "secondary_email", "first_name", "last_name", "mobile_number", "mobile_number_country_code"},
	},
	{
		name:  "companies",
		tbl:   target.StagingGraphCompanies,
		query: `MATCH (c:Company) RETURN c.company_id AS company_id, c.company_name AS company_name`,
		keys:  []string{"company_id", "company_name"},
	},
	{
		name:  "roles",
		tbl:   target.StagingGraphRoles,
		query: `MATCH (r:Role) RETURN r.role_id AS role_id, r.title AS title`,
		keys:  []string{"role_id", "title"},
	},
	{
		name:  "schools",
		tbl:   target.StagingGraphSchools,
		query: `MATCH (s:School) RETURN s.school_id AS school_id, s.school_name AS school_name`,
		keys:  []string{"school_id", "school_name"},
	},
	{
		name:  "degrees",
		tbl:   target.StagingGraphDegrees,
		query: `MATCH (d:Degree) RETURN d.degree_id AS degree_id, d.degree_name AS degree_name`,
		keys:  []string{"degree_id", "degree_name"},
	},
	{
		name:  "locations",
		tbl:   target.StagingGraphLocations,
		query: `MATCH (l:Location) RETURN l.location_id AS location_id, l.country AS country`,
		keys:  []string{"location_id", "country"},
	},
	{
		name:  "projects",
		tbl:   target.StagingGraphProjects,
		query: `MATCH (p:Project) RETURN p.project_id AS project_id, p.project_name AS project_name`,
		keys:  []string{"project_id", "project_name"},
	},
	{
		name:  "languages",
		tbl:   target.StagingGraphLanguages,
		query: `MATCH (l:Language) RETURN l.language_id AS language_id, l.language_name AS language_name`,
		keys:  []string{"language_id", "language_name"},
	},
	{
		name: "experiences",
		tbl:  target.StagingGraphExperiences,
		query: `MATCH (e:Experience)
RETURN e.experience_id AS experience_id,
       e.start_date AS start_date,
       e.end_date AS end_date,
       e.type AS type`,
		keys: []string{"experience_id", "start_date", "end_date", "type"},
	},
	{
		name: "educations",
		tbl:  target.StagingGraphEducations,
		query: `MATCH (e:Education)
RETURN e.education_id AS education_id,
       e.start_date AS start_date,
       e.end_date AS end_date,
       e.field_of_study AS field_of_study`,
		keys: []string{"education_id", "start_date", "end_date", "field_of_study"},
	},
}

// Every edge flattens to a typed (source, target) pair. Nodes identify
// themselves by whichever domain key they carry; the internal graph id
// is a last resort for unkeyed nodes.
const relationshipsQuery = `MATCH (a)-[r]->(b)
RETURN
    CASE
        WHEN a.person_id IS NOT NULL THEN a.person_id
        WHEN a.company_id IS NOT NULL THEN a.company_id
        WHEN a.role_id IS NOT NULL THEN a.role_id
        WHEN a.school_id IS NOT NULL THEN a.school_id
        WHEN a.degree_id IS NOT NULL THEN a.degree_id
        WHEN a.location_id IS NOT NULL THEN a.location_id
        WHEN a.project_id IS NOT NULL THEN a.project_id
        WHEN a.language_id IS NOT NULL THEN a.language_id
        WHEN a.experience_id IS NOT NULL THEN a.experience_id
        WHEN a.education_id IS NOT NULL THEN a.education_id
        ELSE toString(id(a))
    END AS source_node_id,
    labels(a)[0] AS source_node_type,
    type(r) AS relationship_type,
    CASE
        WHEN b.person_id IS NOT NULL THEN b.person_id
        WHEN b.company_id IS NOT NULL THEN b.company_id
        WHEN b.role_id IS NOT NULL THEN b.role_id
        WHEN b.school_id IS NOT NULL THEN b.school_id
        WHEN b.degree_id IS NOT NULL THEN b.degree_id
        WHEN b.location_id IS NOT NULL THEN b.location_id
        WHEN b.project_id IS NOT NULL THEN b.project_id
        WHEN b.language_id IS NOT NULL THEN b.language_id
        WHEN b.experience_id IS NOT NULL THEN b.experience_id
        WHEN b.education_id IS NOT NULL THEN b.education_id
        ELSE toString(id(b))
    END AS target_node_id,
    labels(b)[0] AS target_node_type`

var relationshipKeys = []string{"source_node_id", "source_node_type", "relationship_type", "target_node_id", "target_node_type"}

// Stats reports what one graph extract moved, for run history.
type Stats struct {
	Nodes         int
	Relationships int
}

type Extractor struct {
	Client *neo4jdb.Client
	Loader *load.Loader
	Report *report.Run
	Log    *logger.Logger
}

// Run refreshes every node staging table and the edge list. A failed
// table is recorded and the remaining tables still run.
func (e *Extractor) Run(ctx context.Context) Stats {
	var stats Stats
	for _, ns := range nodeSpecs {
		if err := ctx.Err(); err != nil {
			return stats
		}
		rows, err := e.Client.Collect(ctx, ns.query, ns.keys)
		if err != nil {
			e.Report.Fail("graph_"+ns.name, ns.tbl.Qualified(), err)
			continue
		}
		e.Log.Info("graph nodes extracted", "label", ns.name, "rows", len(rows))
		n, err := e.Loader.Replace(ctx, ns.tbl, ns.keys, rows)
		e.Report.RecordTable(ns.tbl.Qualified(), n)
		if err != nil {
			e.Report.Fail("graph_"+ns.name, ns.tbl.Qualified(), err)
			continue
		}
		stats.Nodes += n
	}

	if err := ctx.Err(); err != nil {
		return stats
	}
	rows, err := e.Client.Collect(ctx, relationshipsQuery, relationshipKeys)
	if err != nil {
		e.Report.Fail("graph_relationships", target.StagingGraphRelationships.Qualified(), err)
		return stats
	}
	e.Log.Info("graph edges extracted", "rows", len(rows))
	n, err := e.Loader.Replace(ctx, target.StagingGraphRelationships, relationshipKeys, rows)
	e.Report.RecordTable(target.StagingGraphRelationships.Qualified(), n)
	if err != nil {
		e.Report.Fail("graph_relationships", target.StagingGraphRelationships.Qualified(), err)
		return stats
	}
	stats.Relationships = n
	return stats
}
