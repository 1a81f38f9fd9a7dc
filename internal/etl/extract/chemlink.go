package extract

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chemlink/analytics-etl/internal/etl/load"
	"github.com/chemlink/analytics-etl/internal/etl/report"
	"github.com/chemlink/analytics-etl/internal/etl/target"
	"github.com/chemlink/analytics-etl/internal/platform/logger"
)

// Root person query. The primary key is aliased to text so the identity
// set can be rebound as an ANY parameter, and the profile document is
// rendered to text so staging stores it as a plain string.
const chemlinkPersonsQuery = `
SELECT
    id::TEXT AS id, person_id, name, profile::TEXT AS profile,
    chemlink_id, kratos_id, hydra_id,
    first_name, middle_name, last_name, email, secondary_email,
    mobile_number, mobile_number_country_code,
    headline_description, linked_in_url, career_goals,
    business_experience_summary, profile_picture,
    location_id, company_id, role_id, has_finder,
    created_at, updated_at, deleted_at
FROM persons
WHERE deleted_at IS NULL
ORDER BY id`

const chemlinkExperiencesQuery = `
SELECT
    id, person_id, company_id, role_id, project_id, location_id,
    description, start_date, end_date, type,
    created_at, updated_at, deleted_at
FROM experiences
WHERE deleted_at IS NULL
  AND person_id = ANY($1::uuid[])
ORDER BY person_id, created_at DESC`

const chemlinkEducationQuery = `
SELECT
    id, person_id, school_id, degree_id, field_of_study,
    description, start_date, end_date,
    created_at, updated_at, deleted_at
FROM education
WHERE deleted_at IS NULL
  AND person_id = ANY($1::uuid[])
ORDER BY person_id, start_date DESC`

const chemlinkCollectionsQuery = `
SELECT
    id, person_id, name, description, privacy,
    created_at, updated_at, deleted_at
FROM collections
WHERE deleted_at IS NULL
  AND person_id = ANY($1::uuid[])
ORDER BY person_id, created_at DESC`

const chemlinkQueryVotesQuery = `
SELECT
    id, type, profile_id, voter_id, score, search_key,
    actual_query, remarks, created_at, updated_at, deleted_at
FROM query_votes
WHERE deleted_at IS NULL
  AND voter_id = ANY($1::uuid[])
ORDER BY voter_id, created_at DESC`

const chemlinkViewAccessQuery = `
SELECT
    id, person_id, type, expiry, metadata,
    created_at, updated_at, deleted_at
FROM view_access
WHERE deleted_at IS NULL
  AND person_id = ANY($1::uuid[])
ORDER BY person_id, created_at DESC`

// Glossary has no person ownership and keeps rows with null descriptions.
const chemlinkGlossaryQuery = `
SELECT
    id, term, meaning, category, description,
    created_at, updated_at
FROM glossary
ORDER BY id`

// Chemlink refreshes every chemlink staging table. Persons come first;
// when no live persons exist the dependent tables are skipped entirely.
func Chemlink(ctx context.Context, source *pgxpool.Pool, loader *load.Loader, run *report.Run, log *logger.Logger) {
	j := &job{source: source, loader: loader, run: run, log: log}
	log.Info("extracting chemlink source")

	cols, rows, err := Query(ctx, source, chemlinkPersonsQuery)
	if err != nil {
		run.Fail("chemlink_persons", target.StagingChemlinkPersons.Qualified(), err)
		return
	}
	j.replace(ctx, "chemlink_persons", target.StagingChemlinkPersons, cols, rows)

	set := NewIdentitySet(rows)
	if set.Len() == 0 {
		run.Warn("no chemlink persons found, skipping dependent tables")
		return
	}
	log.Info("chemlink identity set built", "persons", set.Len())

	j.dependent(ctx, "chemlink_experiences", target.StagingChemlinkExperiences, chemlinkExperiencesQuery, set)
	j.dependent(ctx, "chemlink_education", target.StagingChemlinkEducation, chemlinkEducationQuery, set)
	j.dependent(ctx, "chemlink_collections", target.StagingChemlinkCollections, chemlinkCollectionsQuery, set)
	j.dependent(ctx, "chemlink_query_votes", target.StagingChemlinkQueryVotes, chemlinkQueryVotesQuery, set)
	j.dependent(ctx, "chemlink_view_access", target.StagingChemlinkViewAccess, chemlinkViewAccessQuery, set)

	if err := ctx.Err(); err != nil {
		return
	}
	gcols, grows, err := Query(ctx, source, chemlinkGlossaryQuery)
	if err != nil {
		run.Fail("chemlink_glossary", target.StagingChemlinkGlossary.Qualified(), err)
		return
	}
	j.replace(ctx, "chemlink_glossary", target.StagingChemlinkGlossary, gcols, grows)
}

// Glossary refreshes only the glossary staging table, for the standalone
// glossary job.
func Glossary(ctx context.Context, source *pgxpool.Pool, loader *load.Loader, run *report.Run, log *logger.Logger) {
	j := &job{source: source, loader: loader, run: run, log: log}
	log.Info("extracting chemlink glossary")

	cols, rows, err := Query(ctx, source, chemlinkGlossaryQuery)
	if err != nil {
		run.Fail("glossary", target.StagingChemlinkGlossary.Qualified(), err)
		return
	}
	j.replace(ctx, "glossary", target.StagingChemlinkGlossary, cols, rows)
}
