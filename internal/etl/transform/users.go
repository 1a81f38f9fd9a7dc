package transform

import (
	"fmt"

	"github.com/chemlink/analytics-etl/internal/config"
)

// coalesced picks the winning source for a profile field shared by both
// relational sources.
func coalesced(p config.Precedence, col string) string {
	if p == config.PrecedenceEngagement {
		return fmt.Sprintf("COALESCE(ep.%s, cp.%s)", col, col)
	}
	return fmt.Sprintf("COALESCE(cp.%s, ep.%s)", col, col)
}

// firstActivityExpr is the earliest action of any kind. The far-future
// fallback keeps LEAST well-defined for users with no activity; cohort
// math filters the sentinel back out.
const firstActivityExpr = `LEAST(
            COALESCE((SELECT MIN(p.created_at) FROM staging.engagement_posts p WHERE p.person_id = ep.id), '9999-12-31'::TIMESTAMP),
            COALESCE((SELECT MIN(c.created_at) FROM staging.engagement_comments c WHERE c.person_id = ep.id), '9999-12-31'::TIMESTAMP),
            COALESCE((SELECT MIN(qv.created_at) FROM staging.chemlink_query_votes qv WHERE qv.voter_id = cp.id), '9999-12-31'::TIMESTAMP),
            COALESCE((SELECT MIN(col.created_at) FROM staging.chemlink_collections col WHERE col.person_id = cp.id), '9999-12-31'::TIMESTAMP)
        )`

// unifiedUsersSQL builds the merge of both person sources into
// core.unified_users. The configured test-account email list binds as $1.
func unifiedUsersSQL(t config.Tuning) string {
	return fmt.Sprintf(`
    INSERT INTO core.unified_users (
        chemlink_id, engagement_person_id, person_id,
        email, first_name, last_name,
        has_finder, user_type,
        experience_count, education_count, profile_completion_score,
        posts_created, comments_made, votes_cast, collections_created,
        mentions_received, groups_joined, views_given,
        signup_date, last_activity_date, first_post_date, first_vote_date,
        days_since_signup, days_to_first_activity,
        user_lifecycle_stage, activation_status, activated_at,
        is_test_account,
        created_at, updated_at, deleted_at
    )
    SELECT DISTINCT ON (cp.id)
        cp.id AS chemlink_id,
        ep.id AS engagement_person_id,
        cp.person_id AS person_id,
        %s AS email,
        %s AS first_name,
        %s AS last_name,
        COALESCE(cp.has_finder, FALSE) AS has_finder,
        CASE WHEN cp.has_finder THEN 'FINDER' ELSE 'STANDARD' END AS user_type,
        (SELECT COUNT(*) FROM staging.chemlink_experiences e
         WHERE e.person_id = cp.id AND e.deleted_at IS NULL) AS experience_count,
        (SELECT COUNT(*) FROM staging.chemlink_education ed
         WHERE ed.person_id = cp.id AND ed.deleted_at IS NULL) AS education_count,
        %s AS profile_completion_score,
        (SELECT COUNT(*) FROM staging.engagement_posts p
         WHERE p.person_id = ep.id AND p.deleted_at IS NULL) AS posts_created,
        (SELECT COUNT(*) FROM staging.engagement_comments c
         WHERE c.person_id = ep.id AND c.deleted_at IS NULL) AS comments_made,
        (SELECT COUNT(*) FROM staging.chemlink_query_votes qv
         WHERE qv.voter_id = cp.id AND qv.deleted_at IS NULL) AS votes_cast,
        (SELECT COUNT(*) FROM staging.chemlink_collections col
         WHERE col.person_id = cp.id AND col.deleted_at IS NULL) AS collections_created,
        (SELECT COUNT(*) FROM staging.engagement_mentions m
         WHERE m.mentioned_person_id = ep.id AND m.deleted_at IS NULL) AS mentions_received,
        (SELECT COUNT(*) FROM staging.engagement_group_members gm
         WHERE gm.person_id = ep.id AND gm.deleted_at IS NULL) AS groups_joined,
        (SELECT COUNT(*) FROM staging.chemlink_view_access va
         WHERE va.person_id = cp.id AND va.deleted_at IS NULL) AS views_given,
        cp.created_at AS signup_date,
        GREATEST(
            cp.updated_at,
            COALESCE((SELECT MAX(p.created_at) FROM staging.engagement_posts p WHERE p.person_id = ep.id), cp.created_at),
            COALESCE((SELECT MAX(c.created_at) FROM staging.engagement_comments c WHERE c.person_id = ep.id), cp.created_at),
            COALESCE((SELECT MAX(qv.created_at) FROM staging.chemlink_query_votes qv WHERE qv.voter_id = cp.id), cp.created_at),
            COALESCE((SELECT MAX(col.created_at) FROM staging.chemlink_collections col WHERE col.person_id = cp.id), cp.created_at)
        ) AS last_activity_date,
        (SELECT MIN(p.created_at) FROM staging.engagement_posts p WHERE p.person_id = ep.id) AS first_post_date,
        (SELECT MIN(qv.created_at) FROM staging.chemlink_query_votes qv WHERE qv.voter_id = cp.id) AS first_vote_date,
        EXTRACT(DAY FROM (CURRENT_TIMESTAMP - cp.created_at)) AS days_since_signup,
        EXTRACT(DAY FROM (%s - cp.created_at)) AS days_to_first_activity,
        %s AS user_lifecycle_stage,
        CASE WHEN %s THEN TRUE ELSE FALSE END AS activation_status,
        %s AS activated_at,
        CASE WHEN cp.email = ANY($1) THEN TRUE ELSE FALSE END AS is_test_account,
        cp.created_at,
        cp.updated_at,
        cp.deleted_at
    FROM staging.chemlink_persons cp
    LEFT JOIN staging.engagement_persons ep ON cp.id = ep.external_id
    WHERE cp.deleted_at IS NULL
    ORDER BY cp.id`,
		coalesced(t.FieldPrecedence, "email"),
		coalesced(t.FieldPrecedence, "first_name"),
		coalesced(t.FieldPrecedence, "last_name"),
		scoreExpr(),
		firstActivityExpr,
		lifecycleCase(t),
		hasActivityExpr,
		firstActivityExpr,
	)
}
