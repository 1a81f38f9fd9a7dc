package transform

// Glossary rows with an empty or null description are dropped outright;
// the published term falls back through term, meaning, category for its
// display value.
const glossaryTermsSQL = `
    INSERT INTO core.glossary_terms (
        glossary_id, term, meaning, category, description,
        display_value, created_at, updated_at
    )
    SELECT
        g.id AS glossary_id,
        NULLIF(TRIM(g.term), '') AS term,
        NULLIF(TRIM(g.meaning), '') AS meaning,
        NULLIF(TRIM(g.category), '') AS category,
        g.description,
        COALESCE(
            NULLIF(TRIM(g.term), ''),
            NULLIF(TRIM(g.meaning), ''),
            NULLIF(TRIM(g.category), '')
        ) AS display_value,
        g.created_at,
        g.updated_at
    FROM staging.chemlink_glossary g
    WHERE g.description IS NOT NULL
      AND TRIM(g.description) <> ''`
