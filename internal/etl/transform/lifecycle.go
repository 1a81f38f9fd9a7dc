package transform

import (
	"fmt"

	"github.com/chemlink/analytics-etl/internal/config"
)

// lastActivityExpr is the most recent of profile update, post, and vote
// for one chemlink person, used by the lifecycle classifier.
const lastActivityExpr = `GREATEST(
                cp.updated_at,
                COALESCE((SELECT MAX(p.created_at) FROM staging.engagement_posts p WHERE p.person_id = ep.id), cp.created_at),
                COALESCE((SELECT MAX(qv.created_at) FROM staging.chemlink_query_votes qv WHERE qv.voter_id = cp.id), cp.created_at)
            )`

// hasActivityExpr marks a user as having ever acted: a post, vote, or
// collection counts, comments and views alone do not.
const hasActivityExpr = `EXISTS(SELECT 1 FROM staging.engagement_posts p WHERE p.person_id = ep.id)
                OR EXISTS(SELECT 1 FROM staging.chemlink_query_votes qv WHERE qv.voter_id = cp.id)
                OR EXISTS(SELECT 1 FROM staging.chemlink_collections col WHERE col.person_id = cp.id)`

// lifecycleCase classifies users by recency. Branch order matters:
// churn beats dormancy beats engagement, and only users with no activity
// at all fall through to NEW or ACTIVATED.
func lifecycleCase(t config.Tuning) string {
	return fmt.Sprintf(`CASE
            WHEN EXTRACT(DAY FROM (CURRENT_TIMESTAMP - %[1]s)) > %[2]d THEN 'CHURNED'
            WHEN EXTRACT(DAY FROM (CURRENT_TIMESTAMP - %[1]s)) > %[3]d THEN 'DORMANT'
            WHEN %[4]s THEN 'ENGAGED'
            WHEN EXTRACT(DAY FROM (CURRENT_TIMESTAMP - cp.created_at)) <= %[5]d THEN 'NEW'
            ELSE 'ACTIVATED'
        END`, lastActivityExpr, t.ChurnedDays, t.DormantDays, hasActivityExpr, t.NewUserDays)
}
