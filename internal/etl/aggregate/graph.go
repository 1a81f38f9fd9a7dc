package aggregate

// Graph rollups read the graph-derived core tables only; they never
// touch the raw edge list. Row limits bound the cross joins on dense
// networks.

const connectionRecommendationsSQL = `
    INSERT INTO aggregates.connection_recommendations (
        user_id, recommended_user_id, recommendation_score,
        common_companies, common_roles, common_schools,
        common_locations, recommendation_reason
    )
    WITH base_relationships AS (
        SELECT
            LEAST(r.user_id, r.related_user_id) AS user_id,
            GREATEST(r.user_id, r.related_user_id) AS recommended_user_id,
            r.relationship_strength,
            r.connection_context,
            r.relationship_type
        FROM core.user_relationships r
        WHERE r.relationship_strength > 0
    ),
    ranked_relationships AS (
        SELECT
            user_id,
            recommended_user_id,
            MAX(relationship_strength * 10)::DECIMAL(5,2) AS recommendation_score,
            array_agg(DISTINCT relationship_type) AS relationship_types
        FROM base_relationships
        GROUP BY user_id, recommended_user_id
    )
    SELECT
        user_id,
        recommended_user_id,
        recommendation_score,
        '{}' AS common_companies,
        '{}' AS common_roles,
        '{}' AS common_schools,
        '{}' AS common_locations,
        CASE
            WHEN 'WORKED_TOGETHER' = ANY(relationship_types) THEN 'Worked at the same companies'
            WHEN 'STUDIED_TOGETHER' = ANY(relationship_types) THEN 'Studied at the same schools'
            ELSE 'Have connections in common'
        END AS recommendation_reason
    FROM ranked_relationships
    ORDER BY recommendation_score DESC
    LIMIT 100000`

const companyNetworkMapSQL = `
    INSERT INTO aggregates.company_network_map (
        company_id_1, company_id_2, company_name_1, company_name_2,
        shared_employee_count, employee_ids, network_strength_score
    )
    SELECT
        cn1.company_id AS company_id_1,
        cn2.company_id AS company_id_2,
        cn1.company_name AS company_name_1,
        cn2.company_name AS company_name_2,
        COUNT(DISTINCT u.user_id) AS shared_employee_count,
        array_agg(DISTINCT u.user_id) AS employee_ids,
        (COUNT(DISTINCT u.user_id) * 1.0)::DECIMAL(5,2) AS network_strength_score
    FROM core.company_networks cn1
    CROSS JOIN LATERAL unnest(cn1.user_ids) AS u(user_id)
    JOIN core.company_networks cn2 ON u.user_id = ANY(cn2.user_ids)
        AND cn1.company_id < cn2.company_id
    GROUP BY cn1.company_id, cn1.company_name, cn2.company_id, cn2.company_name
    HAVING COUNT(DISTINCT u.user_id) > 0
    ORDER BY shared_employee_count DESC
    LIMIT 10000`

const skillsMatchingSQL = `
    INSERT INTO aggregates.skills_matching_scores (
        user_id, role_id, role_title, experience_years,
        proficiency_score, similar_user_ids, similar_user_count
    )
    SELECT DISTINCT ON (u.user_id, cn.role_id)
        u.user_id,
        cn.role_id,
        cn.role_title,
        LEAST(EXTRACT(YEAR FROM AGE(CURRENT_DATE, uu.signup_date)), 50)::DECIMAL(4,1) AS experience_years,
        LEAST((uu.experience_count * 10 + uu.profile_completion_score / 10), 999)::DECIMAL(5,2) AS proficiency_score,
        cn.user_ids AS similar_user_ids,
        cn.user_count AS similar_user_count
    FROM (SELECT DISTINCT unnest(user_ids) AS user_id FROM core.company_networks) u
    JOIN core.unified_users uu ON u.user_id = uu.chemlink_id
    JOIN core.company_networks cn ON u.user_id = ANY(cn.user_ids)
    WHERE cn.role_id IS NOT NULL
    ORDER BY u.user_id, cn.role_id, proficiency_score DESC
    LIMIT 50000`

const careerPathPatternsSQL = `
    INSERT INTO aggregates.career_path_patterns (
        path_vector, path_hash, role_sequence, user_count, user_ids, avg_years_per_role
    )
    SELECT
        array_to_string(array_agg(DISTINCT cn.role_title ORDER BY cn.role_title), ' -> ') AS path_vector,
        hashtextextended(
            COALESCE(array_to_string(array_agg(DISTINCT cn.role_title ORDER BY cn.role_title), ' -> '), ''),
            0
        )::text AS path_hash,
        array_agg(DISTINCT cn.role_title ORDER BY cn.role_title) AS role_sequence,
        COUNT(DISTINCT u.user_id) AS user_count,
        array_agg(DISTINCT u.user_id) AS user_ids,
        2.5 AS avg_years_per_role
    FROM (SELECT DISTINCT unnest(user_ids) AS user_id FROM core.company_networks) u
    JOIN core.company_networks cn ON u.user_id = ANY(cn.user_ids)
    WHERE cn.role_title IS NOT NULL
    GROUP BY cn.company_id
    HAVING COUNT(DISTINCT u.user_id) >= 2
    ORDER BY user_count DESC
    LIMIT 1000`

const locationNetworksSQL = `
    INSERT INTO aggregates.location_based_networks (
        location_id, country, user_ids, user_count,
        company_diversity_score, role_diversity_score,
        top_companies, top_roles
    )
    SELECT
        ln.location_id,
        ln.country,
        ln.user_ids,
        ln.user_count,
        (SELECT COUNT(DISTINCT cn.company_id)::DECIMAL(5,2)
         FROM core.company_networks cn
         WHERE cn.user_ids && ln.user_ids
        ) AS company_diversity_score,
        (SELECT COUNT(DISTINCT cn.role_id)::DECIMAL(5,2)
         FROM core.company_networks cn
         WHERE cn.user_ids && ln.user_ids AND cn.role_id IS NOT NULL
        ) AS role_diversity_score,
        (SELECT array_agg(sub.company_name ORDER BY sub.user_count DESC)
         FROM (
             SELECT DISTINCT ON (cn.company_name) cn.company_name, cn.user_count
             FROM core.company_networks cn
             WHERE cn.user_ids && ln.user_ids
             ORDER BY cn.company_name, cn.user_count DESC
             LIMIT 10
         ) sub
        ) AS top_companies,
        (SELECT array_agg(sub.role_title ORDER BY sub.user_count DESC)
         FROM (
             SELECT DISTINCT ON (cn.role_title) cn.role_title, cn.user_count
             FROM core.company_networks cn
             WHERE cn.user_ids && ln.user_ids AND cn.role_title IS NOT NULL
             ORDER BY cn.role_title, cn.user_count DESC
             LIMIT 10
         ) sub
        ) AS top_roles
    FROM core.location_networks ln
    WHERE ln.user_count > 0
    ORDER BY ln.user_count DESC`

const alumniNetworksSQL = `
    INSERT INTO aggregates.alumni_networks (
        school_id, school_name, degree_id, degree_name,
        user_ids, alumni_count, graduation_year_min, graduation_year_max,
        current_companies, current_roles
    )
    SELECT
        en.school_id,
        en.school_name,
        COALESCE(en.degree_id, 'ALL') AS degree_id,
        en.degree_name,
        en.user_ids,
        en.user_count AS alumni_count,
        en.graduation_year_min,
        en.graduation_year_max,
        (SELECT array_agg(sub.company_name ORDER BY sub.user_count DESC)
         FROM (
             SELECT DISTINCT ON (cn.company_name) cn.company_name, cn.user_count
             FROM core.company_networks cn
             WHERE cn.user_ids && en.user_ids
             ORDER BY cn.company_name, cn.user_count DESC
             LIMIT 10
         ) sub
        ) AS current_companies,
        (SELECT array_agg(sub.role_title ORDER BY sub.user_count DESC)
         FROM (
             SELECT DISTINCT ON (cn.role_title) cn.role_title, cn.user_count
             FROM core.company_networks cn
             WHERE cn.user_ids && en.user_ids AND cn.role_title IS NOT NULL
             ORDER BY cn.role_title, cn.user_count DESC
             LIMIT 10
         ) sub
        ) AS current_roles
    FROM core.education_networks en
    WHERE en.user_count > 0
    ORDER BY en.user_count DESC`

const projectCollaborationGraphSQL = `
    INSERT INTO aggregates.project_collaboration_graph (
        project_id, project_name, company_id, company_name,
        user_ids, user_count, role_ids, collaboration_strength
    )
    SELECT
        pc.project_id,
        pc.project_name,
        pc.company_id,
        (SELECT cn.company_name FROM core.company_networks cn
         WHERE cn.company_id = pc.company_id LIMIT 1) AS company_name,
        pc.user_ids,
        pc.user_count,
        pc.role_ids,
        (pc.user_count * 1.0)::DECIMAL(5,2) AS collaboration_strength
    FROM core.project_collaborations pc
    WHERE pc.user_count > 0
    ORDER BY pc.user_count DESC
    LIMIT 10000`
