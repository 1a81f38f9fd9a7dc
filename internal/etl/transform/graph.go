package transform

// Graph node IDs in staging are coupled through the edge list in
// staging.neo4j_relationships; graph persons map back onto unified
// users by email. Experience and education dates arrive as strings in
// either ISO or month-year form, hence the guarded casts.

// Pairs of users who shared a company. The source_node_id ordering keeps
// each pair canonical, smaller id first.
const workedTogetherSQL = `
    INSERT INTO core.user_relationships (
        user_id, related_user_id, relationship_type,
        relationship_strength, connection_context, first_connected_at
    )
    SELECT DISTINCT
        u1.chemlink_id AS user_id,
        u2.chemlink_id AS related_user_id,
        'WORKED_TOGETHER' AS relationship_type,
        COUNT(DISTINCT c.company_id) AS relationship_strength,
        jsonb_build_object(
            'companies', array_agg(DISTINCT c.company_name),
            'roles', array_agg(DISTINCT r.title)
        ) AS connection_context,
        MIN(
            CASE
                WHEN e1.start_date ~ '^\d{4}-\d{2}-\d{2}$' THEN e1.start_date::timestamp
                WHEN e1.start_date ~ '^\d{1,2}-\d{4}$' THEN to_date(e1.start_date, 'FMMM-YYYY')::timestamp
                ELSE NULL
            END
        ) AS first_connected_at
    FROM staging.neo4j_relationships rel1
    JOIN staging.neo4j_relationships rel2 ON rel1.target_node_id = rel2.target_node_id
        AND rel1.target_node_type = 'Company'
        AND rel2.target_node_type = 'Company'
        AND rel1.source_node_id < rel2.source_node_id
    JOIN staging.neo4j_persons p1 ON rel1.source_node_id = p1.person_id
    JOIN staging.neo4j_persons p2 ON rel2.source_node_id = p2.person_id
    JOIN core.unified_users u1 ON p1.email = u1.email
    JOIN core.unified_users u2 ON p2.email = u2.email
    LEFT JOIN staging.neo4j_companies c ON rel1.target_node_id = c.company_id
    LEFT JOIN staging.neo4j_experiences e1 ON rel1.source_node_id = e1.experience_id
    LEFT JOIN staging.neo4j_relationships rel_role ON rel1.source_node_id = rel_role.source_node_id AND rel_role.relationship_type = 'WORKED_AS'
    LEFT JOIN staging.neo4j_roles r ON rel_role.target_node_id = r.role_id
    WHERE rel1.relationship_type IN ('EXPERIENCED_IN', 'WORKED_AT')
        AND u1.chemlink_id != u2.chemlink_id
    GROUP BY u1.chemlink_id, u2.chemlink_id
    HAVING COUNT(DISTINCT c.company_id) > 0`

const studiedTogetherSQL = `
    INSERT INTO core.user_relationships (
        user_id, related_user_id, relationship_type,
        relationship_strength, connection_context, first_connected_at
    )
    SELECT DISTINCT
        u1.chemlink_id AS user_id,
        u2.chemlink_id AS related_user_id,
        'STUDIED_TOGETHER' AS relationship_type,
        COUNT(DISTINCT s.school_id) AS relationship_strength,
        jsonb_build_object(
            'schools', array_agg(DISTINCT s.school_name),
            'degrees', array_agg(DISTINCT d.degree_name)
        ) AS connection_context,
        MIN(
            CASE
                WHEN ed1.start_date ~ '^\d{4}-\d{2}-\d{2}$' THEN ed1.start_date::timestamp
                WHEN ed1.start_date ~ '^\d{1,2}-\d{4}$' THEN to_date(ed1.start_date, 'FMMM-YYYY')::timestamp
                ELSE NULL
            END
        ) AS first_connected_at
    FROM staging.neo4j_relationships rel1
    JOIN staging.neo4j_relationships rel2 ON rel1.target_node_id = rel2.target_node_id
        AND rel1.target_node_type = 'School'
        AND rel2.target_node_type = 'School'
        AND rel1.source_node_id < rel2.source_node_id
    JOIN staging.neo4j_persons p1 ON rel1.source_node_id = p1.person_id
    JOIN staging.neo4j_persons p2 ON rel2.source_node_id = p2.person_id
    JOIN core.unified_users u1 ON p1.email = u1.email
    JOIN core.unified_users u2 ON p2.email = u2.email
    LEFT JOIN staging.neo4j_schools s ON rel1.target_node_id = s.school_id
    LEFT JOIN staging.neo4j_educations ed1 ON rel1.source_node_id = ed1.education_id
    LEFT JOIN staging.neo4j_relationships rel_deg ON rel1.source_node_id = rel_deg.source_node_id AND rel_deg.relationship_type = 'EARNED'
    LEFT JOIN staging.neo4j_degrees d ON rel_deg.target_node_id = d.degree_id
    WHERE rel1.relationship_type IN ('EDUCATED_IN', 'STUDIED_AT')
        AND u1.chemlink_id != u2.chemlink_id
    GROUP BY u1.chemlink_id, u2.chemlink_id
    HAVING COUNT(DISTINCT s.school_id) > 0`

const companyNetworksSQL = `
    INSERT INTO core.company_networks (
        company_id, company_name, role_id, role_title, user_ids, user_count
    )
    SELECT
        c.company_id,
        c.company_name,
        r.role_id,
        r.title AS role_title,
        array_agg(DISTINCT u.chemlink_id) AS user_ids,
        COUNT(DISTINCT u.chemlink_id) AS user_count
    FROM staging.neo4j_companies c
    JOIN staging.neo4j_relationships rel_comp ON c.company_id = rel_comp.target_node_id
        AND rel_comp.target_node_type = 'Company'
    JOIN staging.neo4j_persons p ON rel_comp.source_node_id = p.person_id
    JOIN core.unified_users u ON p.email = u.email
    LEFT JOIN staging.neo4j_relationships rel_role ON rel_comp.source_node_id = rel_role.source_node_id
        AND rel_role.relationship_type = 'WORKED_AS'
    LEFT JOIN staging.neo4j_roles r ON rel_role.target_node_id = r.role_id
    WHERE rel_comp.relationship_type IN ('WORKS_AT', 'WORKED_AT')
    GROUP BY c.company_id, c.company_name, r.role_id, r.title`

const educationNetworksSQL = `
    INSERT INTO core.education_networks (
        school_id, school_name, degree_id, degree_name,
        user_ids, user_count, graduation_year_min, graduation_year_max
    )
    SELECT
        s.school_id,
        s.school_name,
        d.degree_id,
        d.degree_name,
        array_agg(DISTINCT u.chemlink_id) AS user_ids,
        COUNT(DISTINCT u.chemlink_id) AS user_count,
        MIN(
            EXTRACT(YEAR FROM (
                CASE
                    WHEN ed.end_date ~ '^\d{4}-\d{2}-\d{2}$' THEN ed.end_date::date
                    WHEN ed.end_date ~ '^\d{1,2}-\d{4}$' THEN to_date(ed.end_date, 'FMMM-YYYY')
                    ELSE NULL
                END
            ))
        ) AS graduation_year_min,
        MAX(
            EXTRACT(YEAR FROM (
                CASE
                    WHEN ed.end_date ~ '^\d{4}-\d{2}-\d{2}$' THEN ed.end_date::date
                    WHEN ed.end_date ~ '^\d{1,2}-\d{4}$' THEN to_date(ed.end_date, 'FMMM-YYYY')
                    ELSE NULL
                END
            ))
        ) AS graduation_year_max
    FROM staging.neo4j_schools s
    JOIN staging.neo4j_relationships rel_school ON s.school_id = rel_school.target_node_id
        AND rel_school.target_node_type = 'School'
    JOIN staging.neo4j_educations ed ON rel_school.source_node_id = ed.education_id
    JOIN staging.neo4j_relationships rel_person ON ed.education_id = rel_person.target_node_id
        AND rel_person.relationship_type = 'EDUCATED_IN'
    JOIN staging.neo4j_persons p ON rel_person.source_node_id = p.person_id
    JOIN core.unified_users u ON p.email = u.email
    LEFT JOIN staging.neo4j_relationships rel_deg ON ed.education_id = rel_deg.source_node_id
        AND rel_deg.relationship_type = 'EARNED'
    LEFT JOIN staging.neo4j_degrees d ON rel_deg.target_node_id = d.degree_id
    WHERE rel_school.relationship_type = 'STUDIED_AT'
    GROUP BY s.school_id, s.school_name, d.degree_id, d.degree_name`

const locationNetworksSQL = `
    INSERT INTO core.location_networks (
        location_id, country, user_ids, user_count
    )
    SELECT
        l.location_id,
        l.country,
        array_agg(DISTINCT u.chemlink_id) AS user_ids,
        COUNT(DISTINCT u.chemlink_id) AS user_count
    FROM staging.neo4j_locations l
    JOIN staging.neo4j_relationships rel ON l.location_id = rel.target_node_id
        AND rel.target_node_type = 'Location'
    JOIN staging.neo4j_persons p ON rel.source_node_id = p.person_id
    JOIN core.unified_users u ON p.email = u.email
    WHERE rel.relationship_type = 'LIVES_AT'
    GROUP BY l.location_id, l.country`

const projectCollaborationsSQL = `
    INSERT INTO core.project_collaborations (
        project_id, project_name, company_id, user_ids, user_count, role_ids
    )
    SELECT
        proj.project_id,
        proj.project_name,
        c.company_id,
        array_agg(DISTINCT u.chemlink_id) AS user_ids,
        COUNT(DISTINCT u.chemlink_id) AS user_count,
        array_agg(DISTINCT r.title) AS role_ids
    FROM staging.neo4j_projects proj
    JOIN staging.neo4j_relationships rel_proj ON proj.project_id = rel_proj.target_node_id
        AND rel_proj.target_node_type = 'Project'
    JOIN staging.neo4j_experiences exp ON rel_proj.source_node_id = exp.experience_id
    JOIN staging.neo4j_relationships rel_person ON exp.experience_id = rel_person.target_node_id
        AND rel_person.relationship_type = 'EXPERIENCED_IN'
    JOIN staging.neo4j_persons p ON rel_person.source_node_id = p.person_id
    JOIN core.unified_users u ON p.email = u.email
    LEFT JOIN staging.neo4j_relationships rel_comp ON exp.experience_id = rel_comp.source_node_id
        AND rel_comp.relationship_type = 'WORKED_AT'
    LEFT JOIN staging.neo4j_companies c ON rel_comp.target_node_id = c.company_id
    LEFT JOIN staging.neo4j_relationships rel_role ON exp.experience_id = rel_role.source_node_id
        AND rel_role.relationship_type = 'WORKED_AS'
    LEFT JOIN staging.neo4j_roles r ON rel_role.target_node_id = r.role_id
    WHERE rel_proj.relationship_type = 'WORKED_ON'
    GROUP BY proj.project_id, proj.project_name, c.company_id`
