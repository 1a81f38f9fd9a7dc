package extract

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chemlink/analytics-etl/internal/etl/load"
	"github.com/chemlink/analytics-etl/internal/etl/report"
	"github.com/chemlink/analytics-etl/internal/etl/target"
	"github.com/chemlink/analytics-etl/internal/platform/logger"
)

const engagementPersonsQuery = `
SELECT
    id::TEXT AS id, external_id, iam_id, email, first_name, last_name,
    company_name, role_title, employment_status,
    mobile_number, mobile_number_country_code,
    profile_picture_key, profile_pic_updated_at,
    created_at, updated_at, deleted_at
FROM persons
WHERE deleted_at IS NULL
ORDER BY id`

const engagementPostsQuery = `
SELECT
    id, person_id, type, content, link_url, media_keys,
    status, group_id, created_at, updated_at, deleted_at
FROM posts
WHERE deleted_at IS NULL
  AND person_id = ANY($1::uuid[])
ORDER BY person_id, created_at DESC`

const engagementCommentsQuery = `
SELECT
    id, post_id, person_id, content, parent_comment_id,
    created_at, updated_at, deleted_at
FROM comments
WHERE deleted_at IS NULL
  AND person_id = ANY($1::uuid[])
ORDER BY person_id, created_at DESC`

// Groups are owned through created_by rather than person_id.
const engagementGroupsQuery = `
SELECT
    id, name, description, created_by,
    created_at, updated_at, deleted_at
FROM groups
WHERE deleted_at IS NULL
  AND created_by = ANY($1::uuid[])
ORDER BY created_by, created_at DESC`

const engagementGroupMembersQuery = `
SELECT
    id, group_id, person_id, role, confirmed_at,
    created_at, updated_at, deleted_at
FROM group_members
WHERE deleted_at IS NULL
  AND person_id = ANY($1::uuid[])
ORDER BY person_id, created_at DESC`

const engagementMentionsQuery = `
SELECT
    id, mentioned_person_id, post_id, comment_id,
    created_at, deleted_at
FROM mentions
WHERE deleted_at IS NULL
  AND mentioned_person_id = ANY($1::uuid[])
ORDER BY mentioned_person_id, created_at DESC`

// Engagement refreshes every engagement staging table, persons first.
func Engagement(ctx context.Context, source *pgxpool.Pool, loader *load.Loader, run *report.Run, log *logger.Logger) {
	j := &job{source: source, loader: loader, run: run, log: log}
	log.Info("extracting engagement source")

	cols, rows, err := Query(ctx, source, engagementPersonsQuery)
	if err != nil {
		run.Fail("engagement_persons", target.StagingEngagementPersons.Qualified(), err)
		return
	}
	j.replace(ctx, "engagement_persons", target.StagingEngagementPersons, cols, rows)

	set := NewIdentitySet(rows)
	if set.Len() == 0 {
		run.Warn("no engagement persons found, skipping dependent tables")
		return
	}
	log.Info("engagement identity set built", "persons", set.Len())

	j.dependent(ctx, "engagement_posts", target.StagingEngagementPosts, engagementPostsQuery, set)
	j.dependent(ctx, "engagement_comments", target.StagingEngagementComments, engagementCommentsQuery, set)
	j.dependent(ctx, "engagement_groups", target.StagingEngagementGroups, engagementGroupsQuery, set)
	j.dependent(ctx, "engagement_group_members", target.StagingEngagementGroupMembers, engagementGroupMembersQuery, set)
	j.dependent(ctx, "engagement_mentions", target.StagingEngagementMentions, engagementMentionsQuery, set)
}
