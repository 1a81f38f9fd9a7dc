package aggregate

// The daily series spans from the first signup through today so gaps in
// activity still produce zero-valued rows.
const dailyMetricsSQL = `
    INSERT INTO aggregates.daily_metrics (
        metric_date, new_signups, total_users, total_users_cumulative, dau,
        posts_created, comments_created, votes_cast, collections_created, views_given,
        active_posters, active_commenters, active_voters, active_collectors,
        finder_active, standard_active, new_finder_signups, new_standard_signups,
        engagement_rate, social_engagement_rate
    )
    WITH daily_signups AS (
        SELECT
            DATE(signup_date) AS signup_date,
            COUNT(*) AS new_users,
            COUNT(*) FILTER (WHERE has_finder = TRUE) AS new_finders,
            COUNT(*) FILTER (WHERE has_finder = FALSE) AS new_standards
        FROM core.unified_users
        WHERE deleted_at IS NULL
            AND is_test_account = FALSE
        GROUP BY DATE(signup_date)
    ),
    daily_activities AS (
        SELECT
            DATE(activity_date) AS activity_date,
            COUNT(DISTINCT user_id) AS active_users,
            COUNT(*) FILTER (WHERE activity_type = 'post') AS posts,
            COUNT(*) FILTER (WHERE activity_type = 'comment') AS comments,
            COUNT(*) FILTER (WHERE activity_type = 'vote') AS votes,
            COUNT(*) FILTER (WHERE activity_type = 'collection') AS collections,
            COUNT(*) FILTER (WHERE activity_type = 'view') AS views,
            COUNT(DISTINCT user_id) FILTER (WHERE activity_type = 'post') AS posters,
            COUNT(DISTINCT user_id) FILTER (WHERE activity_type = 'comment') AS commenters,
            COUNT(DISTINCT user_id) FILTER (WHERE activity_type = 'vote') AS voters,
            COUNT(DISTINCT user_id) FILTER (WHERE activity_type = 'collection') AS collectors
        FROM core.user_activity_events
        GROUP BY DATE(activity_date)
    ),
    daily_active_by_type AS (
        SELECT
            DATE(e.activity_date) AS activity_date,
            COUNT(DISTINCT e.user_id) FILTER (WHERE u.has_finder = TRUE) AS finder_active,
            COUNT(DISTINCT e.user_id) FILTER (WHERE u.has_finder = FALSE) AS standard_active
        FROM core.user_activity_events e
        JOIN core.unified_users u ON e.user_id = u.chemlink_id
        WHERE u.deleted_at IS NULL
            AND u.is_test_account = FALSE
        GROUP BY DATE(e.activity_date)
    ),
    date_series AS (
        SELECT generate_series(
            (SELECT MIN(DATE(signup_date)) FROM core.unified_users),
            CURRENT_DATE,
            '1 day'::interval
        )::DATE AS metric_date
    ),
    cumulative_users AS (
        SELECT
            ds.metric_date,
            COUNT(*) AS total_users_cumulative
        FROM date_series ds
        LEFT JOIN core.unified_users u ON DATE(u.signup_date) <= ds.metric_date
        WHERE u.deleted_at IS NULL
            AND u.is_test_account = FALSE
        GROUP BY ds.metric_date
    )
    SELECT
        ds.metric_date,
        COALESCE(s.new_users, 0) AS new_signups,
        COALESCE(s.new_users, 0) AS total_users,
        COALESCE(cu.total_users_cumulative, 0) AS total_users_cumulative,
        COALESCE(a.active_users, 0) AS dau,
        COALESCE(a.posts, 0) AS posts_created,
        COALESCE(a.comments, 0) AS comments_created,
        COALESCE(a.votes, 0) AS votes_cast,
        COALESCE(a.collections, 0) AS collections_created,
        COALESCE(a.views, 0) AS views_given,
        COALESCE(a.posters, 0) AS active_posters,
        COALESCE(a.commenters, 0) AS active_commenters,
        COALESCE(a.voters, 0) AS active_voters,
        COALESCE(a.collectors, 0) AS active_collectors,
        COALESCE(abt.finder_active, 0) AS finder_active,
        COALESCE(abt.standard_active, 0) AS standard_active,
        COALESCE(s.new_finders, 0) AS new_finder_signups,
        COALESCE(s.new_standards, 0) AS new_standard_signups,
        CASE
            WHEN cu.total_users_cumulative > 0
            THEN ROUND((a.active_users::NUMERIC / cu.total_users_cumulative) * 100, 2)
            ELSE 0
        END AS engagement_rate,
        CASE
            WHEN a.active_users > 0
            THEN ROUND(((a.posters + a.commenters)::NUMERIC / a.active_users) * 100, 2)
            ELSE 0
        END AS social_engagement_rate
    FROM date_series ds
    LEFT JOIN daily_signups s ON ds.metric_date = s.signup_date
    LEFT JOIN daily_activities a ON ds.metric_date = a.activity_date
    LEFT JOIN daily_active_by_type abt ON ds.metric_date = abt.activity_date
    LEFT JOIN cumulative_users cu ON ds.metric_date = cu.metric_date
    ORDER BY ds.metric_date`

// Growth and retention compare against the lagged previous month; a
// missing or zero previous period yields 0, never NULL or an error.
const monthlyMetricsSQL = `
    INSERT INTO aggregates.monthly_metrics (
        metric_month, new_signups, total_users_end_of_month, growth_rate_pct,
        mau, avg_dau, total_posts, total_comments, total_votes, total_collections,
        activation_rate, avg_activities_per_user, avg_engagement_score,
        finder_mau, standard_mau, finder_adoption_pct,
        retained_from_prev_month, retention_rate
    )
    WITH monthly_rollup AS (
        SELECT
            DATE_TRUNC('month', metric_date)::DATE AS metric_month,
            SUM(new_signups) AS new_signups,
            MAX(total_users_cumulative) AS total_users_end_of_month,
            AVG(dau) AS avg_dau,
            SUM(posts_created) AS total_posts,
            SUM(comments_created) AS total_comments,
            SUM(votes_cast) AS total_votes,
            SUM(collections_created) AS total_collections,
            MAX(finder_active) AS finder_mau,
            MAX(standard_active) AS standard_mau
        FROM aggregates.daily_metrics
        GROUP BY DATE_TRUNC('month', metric_date)
    ),
    monthly_activity_users AS (
        SELECT
            DATE_TRUNC('month', e.activity_date)::DATE AS metric_month,
            COUNT(DISTINCT e.user_id) AS mau,
            COUNT(*) AS total_activities
        FROM core.user_activity_events e
        JOIN core.unified_users u ON e.user_id = u.chemlink_id
        WHERE u.deleted_at IS NULL
            AND u.is_test_account = FALSE
        GROUP BY DATE_TRUNC('month', e.activity_date)
    ),
    monthly_activation AS (
        SELECT
            DATE_TRUNC('month', signup_date)::DATE AS metric_month,
            COUNT(*) AS cohort_users,
            COUNT(*) FILTER (WHERE activation_status = TRUE) AS activated_users
        FROM core.unified_users
        WHERE deleted_at IS NULL
            AND is_test_account = FALSE
        GROUP BY DATE_TRUNC('month', signup_date)
    ),
    prev_month_retention AS (
        SELECT
            DATE_TRUNC('month', CURRENT_DATE)::DATE AS metric_month,
            COUNT(DISTINCT e.user_id) AS retained_from_prev
        FROM core.user_activity_events e
        WHERE DATE_TRUNC('month', e.activity_date) = DATE_TRUNC('month', CURRENT_DATE)
            AND EXISTS (
                SELECT 1 FROM core.user_activity_events e2
                WHERE e2.user_id = e.user_id
                    AND DATE_TRUNC('month', e2.activity_date) = DATE_TRUNC('month', CURRENT_DATE - INTERVAL '1 month')
            )
    )
    SELECT
        r.metric_month,
        r.new_signups,
        r.total_users_end_of_month,
        CASE
            WHEN LAG(r.total_users_end_of_month) OVER (ORDER BY r.metric_month) > 0
            THEN ROUND(((r.total_users_end_of_month - LAG(r.total_users_end_of_month) OVER (ORDER BY r.metric_month))::NUMERIC /
                       LAG(r.total_users_end_of_month) OVER (ORDER BY r.metric_month)) * 100, 2)
            ELSE 0
        END AS growth_rate_pct,
        COALESCE(mau.mau, 0) AS mau,
        ROUND(r.avg_dau, 2) AS avg_dau,
        r.total_posts,
        r.total_comments,
        r.total_votes,
        r.total_collections,
        CASE
            WHEN act.cohort_users > 0
            THEN ROUND((act.activated_users::NUMERIC / act.cohort_users) * 100, 2)
            ELSE 0
        END AS activation_rate,
        CASE
            WHEN mau.mau > 0
            THEN ROUND(mau.total_activities::NUMERIC / mau.mau, 2)
            ELSE 0
        END AS avg_activities_per_user,
        CASE
            WHEN mau.mau > 0
            THEN ROUND((r.total_posts * 3 + r.total_comments * 2 + r.total_votes + r.total_collections * 5)::NUMERIC / mau.mau, 2)
            ELSE 0
        END AS avg_engagement_score,
        COALESCE(r.finder_mau, 0) AS finder_mau,
        COALESCE(r.standard_mau, 0) AS standard_mau,
        CASE
            WHEN r.total_users_end_of_month > 0
            THEN ROUND((r.finder_mau::NUMERIC / r.total_users_end_of_month) * 100, 2)
            ELSE 0
        END AS finder_adoption_pct,
        COALESCE(ret.retained_from_prev, 0) AS retained_from_prev_month,
        CASE
            WHEN LAG(mau.mau) OVER (ORDER BY r.metric_month) > 0
            THEN ROUND((ret.retained_from_prev::NUMERIC / LAG(mau.mau) OVER (ORDER BY r.metric_month)) * 100, 2)
            ELSE 0
        END AS retention_rate
    FROM monthly_rollup r
    LEFT JOIN monthly_activity_users mau ON r.metric_month = mau.metric_month
    LEFT JOIN monthly_activation act ON r.metric_month = act.metric_month
    LEFT JOIN prev_month_retention ret ON r.metric_month = ret.metric_month
    ORDER BY r.metric_month`

// Weekly retention curves per signup-month cohort, week 0 through 52,
// clipped to weeks that have already started.
const cohortRetentionSQL = `
    INSERT INTO aggregates.cohort_retention (
        cohort_month, weeks_since_signup, total_users, retained_users,
        retention_rate, cumulative_retention, avg_activities_per_user, total_activities
    )
    WITH cohort_base AS (
        SELECT
            DATE_TRUNC('month', signup_date)::DATE AS cohort_month,
            chemlink_id,
            signup_date
        FROM core.unified_users
        WHERE deleted_at IS NULL
            AND is_test_account = FALSE
    ),
    week_series AS (
        SELECT generate_series(0, 52) AS weeks_since_signup
    ),
    cohort_weeks AS (
        SELECT
            cb.cohort_month,
            ws.weeks_since_signup,
            cb.chemlink_id,
            cb.signup_date,
            cb.signup_date + (ws.weeks_since_signup * INTERVAL '1 week') AS week_start,
            cb.signup_date + ((ws.weeks_since_signup + 1) * INTERVAL '1 week') AS week_end
        FROM cohort_base cb
        CROSS JOIN week_series ws
        WHERE cb.signup_date + (ws.weeks_since_signup * INTERVAL '1 week') <= CURRENT_DATE
    ),
    cohort_activity AS (
        SELECT
            cw.cohort_month,
            cw.weeks_since_signup,
            cw.chemlink_id,
            COUNT(e.id) AS activities
        FROM cohort_weeks cw
        LEFT JOIN core.user_activity_events e ON
            cw.chemlink_id = e.user_id
            AND e.activity_date >= cw.week_start
            AND e.activity_date < cw.week_end
        GROUP BY cw.cohort_month, cw.weeks_since_signup, cw.chemlink_id
    )
    SELECT
        cohort_month,
        weeks_since_signup,
        COUNT(DISTINCT chemlink_id) AS total_users,
        COUNT(DISTINCT chemlink_id) FILTER (WHERE activities > 0) AS retained_users,
        ROUND((COUNT(DISTINCT chemlink_id) FILTER (WHERE activities > 0)::NUMERIC / COUNT(DISTINCT chemlink_id)) * 100, 2) AS retention_rate,
        ROUND((COUNT(DISTINCT chemlink_id) FILTER (WHERE activities > 0)::NUMERIC /
               FIRST_VALUE(COUNT(DISTINCT chemlink_id)) OVER (PARTITION BY cohort_month ORDER BY weeks_since_signup)) * 100, 2) AS cumulative_retention,
        ROUND(AVG(activities) FILTER (WHERE activities > 0), 2) AS avg_activities_per_user,
        SUM(activities) AS total_activities
    FROM cohort_activity
    GROUP BY cohort_month, weeks_since_signup
    HAVING COUNT(DISTINCT chemlink_id) > 0
    ORDER BY cohort_month, weeks_since_signup`

const postMetricsSQL = `
    INSERT INTO aggregates.post_metrics (
        metric_date, posts_created, comments_created, unique_posters, unique_commenters,
        avg_posts_per_poster, avg_comments_per_post, avg_votes_per_post,
        engagement_rate_comments_pct, engagement_rate_votes_pct, total_votes,
        text_posts, link_posts, media_posts
    )
    WITH post_data AS (
        SELECT
            DATE(activity_date) AS metric_date,
            COUNT(*) FILTER (WHERE activity_type = 'post') AS posts_created,
            COUNT(*) FILTER (WHERE activity_type = 'comment') AS comments_created,
            COUNT(*) FILTER (WHERE activity_type = 'vote') AS votes_created,
            COUNT(DISTINCT user_id) FILTER (WHERE activity_type = 'post') AS unique_posters,
            COUNT(DISTINCT user_id) FILTER (WHERE activity_type = 'comment') AS unique_commenters,
            COUNT(*) FILTER (WHERE activity_type = 'post' AND metadata->>'has_link' = 'false' AND metadata->>'has_media' = 'false') AS text_posts,
            COUNT(*) FILTER (WHERE activity_type = 'post' AND metadata->>'has_link' = 'true') AS link_posts,
            COUNT(*) FILTER (WHERE activity_type = 'post' AND metadata->>'has_media' = 'true') AS media_posts
        FROM core.user_activity_events
        WHERE activity_type IN ('post', 'comment', 'vote')
        GROUP BY DATE(activity_date)
    )
    SELECT
        metric_date,
        posts_created,
        comments_created,
        unique_posters,
        unique_commenters,
        ROUND(posts_created::NUMERIC / NULLIF(unique_posters, 0), 2) AS avg_posts_per_poster,
        ROUND(comments_created::NUMERIC / NULLIF(posts_created, 0), 2) AS avg_comments_per_post,
        ROUND(votes_created::NUMERIC / NULLIF(posts_created, 0), 2) AS avg_votes_per_post,
        ROUND((comments_created::NUMERIC / NULLIF(posts_created, 0)) * 100, 2) AS engagement_rate_comments_pct,
        ROUND((votes_created::NUMERIC / NULLIF(posts_created, 0)) * 100, 2) AS engagement_rate_votes_pct,
        votes_created AS total_votes,
        text_posts,
        link_posts,
        media_posts
    FROM post_data
    ORDER BY metric_date`

const finderMetricsSQL = `
    INSERT INTO aggregates.finder_metrics (
        metric_date, total_votes, unique_voters, profiles_viewed, unique_profile_viewers
    )
    SELECT
        DATE(e.activity_date) AS metric_date,
        COUNT(*) FILTER (WHERE e.activity_type = 'vote') AS total_votes,
        COUNT(DISTINCT e.user_id) FILTER (WHERE e.activity_type = 'vote') AS unique_voters,
        COUNT(*) FILTER (WHERE e.activity_type = 'view') AS profiles_viewed,
        COUNT(DISTINCT e.user_id) FILTER (WHERE e.activity_type = 'view') AS unique_profile_viewers
    FROM core.user_activity_events e
    WHERE e.activity_type IN ('vote', 'view')
    GROUP BY DATE(e.activity_date)
    ORDER BY metric_date`

const collectionMetricsSQL = `
    INSERT INTO aggregates.collection_metrics (
        metric_date, total_collections_created, public_collections, private_collections, unique_collectors
    )
    SELECT
        DATE(e.activity_date) AS metric_date,
        COUNT(*) AS total_collections_created,
        COUNT(*) FILTER (WHERE e.metadata->>'privacy' = 'PUBLIC') AS public_collections,
        COUNT(*) FILTER (WHERE e.metadata->>'privacy' = 'PRIVATE') AS private_collections,
        COUNT(DISTINCT e.user_id) AS unique_collectors
    FROM core.user_activity_events e
    WHERE e.activity_type = 'collection'
    GROUP BY DATE(e.activity_date)
    ORDER BY metric_date`

// Profile and funnel metrics are point-in-time snapshots keyed to today,
// not historical series.
const profileMetricsSQL = `
    INSERT INTO aggregates.profile_metrics (
        metric_date, profiles_updated, experiences_added, education_added,
        avg_profile_completion_score, profiles_with_headline, profiles_with_linkedin,
        profiles_with_location, profiles_with_experience, profiles_with_education
    )
    SELECT
        CURRENT_DATE AS metric_date,
        (SELECT COUNT(*) FROM staging.chemlink_persons
         WHERE deleted_at IS NULL AND DATE(updated_at) = CURRENT_DATE AND updated_at != created_at) AS profiles_updated,
        (SELECT COUNT(*) FROM staging.chemlink_experiences
         WHERE deleted_at IS NULL AND DATE(created_at) = CURRENT_DATE) AS experiences_added,
        (SELECT COUNT(*) FROM staging.chemlink_education
         WHERE deleted_at IS NULL AND DATE(created_at) = CURRENT_DATE) AS education_added,
        ROUND(AVG(u.profile_completion_score), 2) AS avg_profile_completion_score,
        COUNT(*) FILTER (WHERE p.headline_description IS NOT NULL) AS profiles_with_headline,
        COUNT(*) FILTER (WHERE p.linked_in_url IS NOT NULL) AS profiles_with_linkedin,
        COUNT(*) FILTER (WHERE p.location_id IS NOT NULL) AS profiles_with_location,
        COUNT(*) FILTER (WHERE u.experience_count > 0) AS profiles_with_experience,
        COUNT(*) FILTER (WHERE u.education_count > 0) AS profiles_with_education
    FROM core.unified_users u
    JOIN staging.chemlink_persons p ON u.chemlink_id = p.id
    WHERE u.deleted_at IS NULL AND u.is_test_account = FALSE`

const funnelMetricsSQL = `
    INSERT INTO aggregates.funnel_metrics (
        metric_date, total_signups, profiles_with_basic_info, profiles_with_experience,
        profiles_with_education, profiles_completed, profiles_activated,
        basic_info_rate, experience_rate, education_rate, completion_rate, activation_rate
    )
    SELECT
        CURRENT_DATE AS metric_date,
        COUNT(*) AS total_signups,
        COUNT(*) FILTER (WHERE first_name IS NOT NULL AND last_name IS NOT NULL AND email IS NOT NULL) AS profiles_with_basic_info,
        COUNT(*) FILTER (WHERE experience_count > 0) AS profiles_with_experience,
        COUNT(*) FILTER (WHERE education_count > 0) AS profiles_with_education,
        COUNT(*) FILTER (WHERE profile_completion_score >= 70) AS profiles_completed,
        COUNT(*) FILTER (WHERE activation_status = TRUE) AS profiles_activated,
        ROUND((COUNT(*) FILTER (WHERE first_name IS NOT NULL AND last_name IS NOT NULL)::NUMERIC / COUNT(*)) * 100, 2) AS basic_info_rate,
        ROUND((COUNT(*) FILTER (WHERE experience_count > 0)::NUMERIC / COUNT(*)) * 100, 2) AS experience_rate,
        ROUND((COUNT(*) FILTER (WHERE education_count > 0)::NUMERIC / COUNT(*)) * 100, 2) AS education_rate,
        ROUND((COUNT(*) FILTER (WHERE profile_completion_score >= 70)::NUMERIC / COUNT(*)) * 100, 2) AS completion_rate,
        ROUND((COUNT(*) FILTER (WHERE activation_status = TRUE)::NUMERIC / COUNT(*)) * 100, 2) AS activation_rate
    FROM core.unified_users
    WHERE deleted_at IS NULL AND is_test_account = FALSE`
