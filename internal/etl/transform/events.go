package transform

// eventSource is one typed feed into core.user_activity_events.
type eventSource struct {
	name string
	sql  string
}

// uuidSourceID renders the stable event id expression for a UUID-keyed
// source row. The first 15 hex characters of the key become a 60 bit
// integer, so the same source row always maps to the same BIGINT.
func uuidSourceID(col string) string {
	return "('x' || SUBSTRING(REPLACE(" + col + "::TEXT, '-', ''), 1, 15))::BIT(60)::BIGINT"
}

// UUID-keyed sources derive source_id from the first 60 bits of the key
// so the event id stays a stable BIGINT; integer-keyed sources pass their
// key through unchanged.
var eventSources = []eventSource{
	{"post", postEventsSQL},
	{"comment", commentEventsSQL},
	{"vote", voteEventsSQL},
	{"collection", collectionEventsSQL},
	{"view", viewEventsSQL},
}

var postEventsSQL = `
    INSERT INTO core.user_activity_events (
        user_id, activity_type, activity_date,
        source_database, source_table, source_id,
        metadata, days_since_signup, is_first_activity_of_type
    )
    SELECT
        u.chemlink_id AS user_id,
        'post' AS activity_type,
        p.created_at AS activity_date,
        'engagement' AS source_database,
        'posts' AS source_table,
        ` + uuidSourceID("p.id") + ` AS source_id,
        json_build_object(
            'type', p.type,
            'status', p.status,
            'has_link', CASE WHEN p.link_url IS NOT NULL THEN true ELSE false END,
            'has_media', CASE WHEN p.media_keys IS NOT NULL THEN true ELSE false END
        )::JSONB AS metadata,
        EXTRACT(DAY FROM (p.created_at - u.signup_date)) AS days_since_signup,
        p.created_at = (SELECT MIN(p2.created_at) FROM staging.engagement_posts p2 WHERE p2.person_id = p.person_id) AS is_first_activity_of_type
    FROM staging.engagement_posts p
    JOIN staging.engagement_persons ep ON p.person_id = ep.id
    JOIN core.unified_users u ON ep.id = u.engagement_person_id
    WHERE p.deleted_at IS NULL`

var commentEventsSQL = `
    INSERT INTO core.user_activity_events (
        user_id, activity_type, activity_date,
        source_database, source_table, source_id,
        metadata, days_since_signup, is_first_activity_of_type
    )
    SELECT
        u.chemlink_id AS user_id,
        'comment' AS activity_type,
        c.created_at AS activity_date,
        'engagement' AS source_database,
        'comments' AS source_table,
        ` + uuidSourceID("c.id") + ` AS source_id,
        json_build_object(
            'post_id', c.post_id::TEXT,
            'is_reply', CASE WHEN c.parent_comment_id IS NOT NULL THEN true ELSE false END
        )::JSONB AS metadata,
        EXTRACT(DAY FROM (c.created_at - u.signup_date)) AS days_since_signup,
        c.created_at = (SELECT MIN(c2.created_at) FROM staging.engagement_comments c2 WHERE c2.person_id = c.person_id) AS is_first_activity_of_type
    FROM staging.engagement_comments c
    JOIN staging.engagement_persons ep ON c.person_id = ep.id
    JOIN core.unified_users u ON ep.id = u.engagement_person_id
    WHERE c.deleted_at IS NULL`

const voteEventsSQL = `
    INSERT INTO core.user_activity_events (
        user_id, activity_type, activity_date,
        source_database, source_table, source_id,
        metadata, days_since_signup, is_first_activity_of_type
    )
    SELECT
        qv.voter_id AS user_id,
        'vote' AS activity_type,
        qv.created_at AS activity_date,
        'chemlink' AS source_database,
        'query_votes' AS source_table,
        qv.id AS source_id,
        json_build_object(
            'type', qv.type,
            'score', qv.score,
            'profile_id', qv.profile_id
        )::JSONB AS metadata,
        EXTRACT(DAY FROM (qv.created_at - u.signup_date)) AS days_since_signup,
        qv.created_at = (SELECT MIN(qv2.created_at) FROM staging.chemlink_query_votes qv2 WHERE qv2.voter_id = qv.voter_id) AS is_first_activity_of_type
    FROM staging.chemlink_query_votes qv
    JOIN core.unified_users u ON qv.voter_id = u.chemlink_id
    WHERE qv.deleted_at IS NULL`

const collectionEventsSQL = `
    INSERT INTO core.user_activity_events (
        user_id, activity_type, activity_date,
        source_database, source_table, source_id,
        metadata, days_since_signup, is_first_activity_of_type
    )
    SELECT
        col.person_id AS user_id,
        'collection' AS activity_type,
        col.created_at AS activity_date,
        'chemlink' AS source_database,
        'collections' AS source_table,
        col.id AS source_id,
        json_build_object(
            'name', col.name,
            'privacy', col.privacy
        )::JSONB AS metadata,
        EXTRACT(DAY FROM (col.created_at - u.signup_date)) AS days_since_signup,
        col.created_at = (SELECT MIN(col2.created_at) FROM staging.chemlink_collections col2 WHERE col2.person_id = col.person_id) AS is_first_activity_of_type
    FROM staging.chemlink_collections col
    JOIN core.unified_users u ON col.person_id = u.chemlink_id
    WHERE col.deleted_at IS NULL`

const viewEventsSQL = `
    INSERT INTO core.user_activity_events (
        user_id, activity_type, activity_date,
        source_database, source_table, source_id,
        metadata, days_since_signup, is_first_activity_of_type
    )
    SELECT
        va.person_id AS user_id,
        'view' AS activity_type,
        va.created_at AS activity_date,
        'chemlink' AS source_database,
        'view_access' AS source_table,
        va.id AS source_id,
        json_build_object(
            'type', va.type,
            'expiry', va.expiry
        )::JSONB AS metadata,
        EXTRACT(DAY FROM (va.created_at - u.signup_date)) AS days_since_signup,
        va.created_at = (SELECT MIN(va2.created_at) FROM staging.chemlink_view_access va2 WHERE va2.person_id = va.person_id) AS is_first_activity_of_type
    FROM staging.chemlink_view_access va
    JOIN core.unified_users u ON va.person_id = u.chemlink_id
    WHERE va.deleted_at IS NULL`
