package transform

// Cohorts exclude deleted and test accounts. days_to_first_activity
// carries a far-future sentinel for never-activated users, so the
// average filters values past 10000 days.
const userCohortsSQL = `
    INSERT INTO core.user_cohorts (
        cohort_month, total_users, finder_users, standard_users,
        avg_profile_completion, avg_experience_count, avg_education_count,
        activated_users, activation_rate, avg_days_to_activation,
        retained_30d, retained_60d, retained_90d,
        retention_rate_30d, retention_rate_60d, retention_rate_90d
    )
    SELECT
        DATE_TRUNC('month', signup_date) AS cohort_month,
        COUNT(*) AS total_users,
        COUNT(*) FILTER (WHERE has_finder = TRUE) AS finder_users,
        COUNT(*) FILTER (WHERE has_finder = FALSE) AS standard_users,
        ROUND(AVG(profile_completion_score), 2) AS avg_profile_completion,
        ROUND(AVG(experience_count), 2) AS avg_experience_count,
        ROUND(AVG(education_count), 2) AS avg_education_count,
        COUNT(*) FILTER (WHERE activation_status = TRUE) AS activated_users,
        ROUND((COUNT(*) FILTER (WHERE activation_status = TRUE)::NUMERIC / COUNT(*)) * 100, 2) AS activation_rate,
        ROUND(AVG(days_to_first_activity) FILTER (WHERE days_to_first_activity IS NOT NULL AND days_to_first_activity < 10000), 2) AS avg_days_to_activation,
        COUNT(*) FILTER (WHERE last_activity_date >= signup_date + INTERVAL '30 days') AS retained_30d,
        COUNT(*) FILTER (WHERE last_activity_date >= signup_date + INTERVAL '60 days') AS retained_60d,
        COUNT(*) FILTER (WHERE last_activity_date >= signup_date + INTERVAL '90 days') AS retained_90d,
        ROUND((COUNT(*) FILTER (WHERE last_activity_date >= signup_date + INTERVAL '30 days')::NUMERIC / COUNT(*)) * 100, 2) AS retention_rate_30d,
        ROUND((COUNT(*) FILTER (WHERE last_activity_date >= signup_date + INTERVAL '60 days')::NUMERIC / COUNT(*)) * 100, 2) AS retention_rate_60d,
        ROUND((COUNT(*) FILTER (WHERE last_activity_date >= signup_date + INTERVAL '90 days')::NUMERIC / COUNT(*)) * 100, 2) AS retention_rate_90d
    FROM core.unified_users
    WHERE deleted_at IS NULL
      AND is_test_account = FALSE
    GROUP BY DATE_TRUNC('month', signup_date)
    ORDER BY cohort_month`
