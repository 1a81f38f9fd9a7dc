package transform

import (
	"fmt"
	"strings"
)

// scoreRule is one component of the profile completion score. The rule
// set is closed; weights must sum to exactly 100 so the score stays a
// percentage.
type scoreRule struct {
	name   string
	weight int
	cond   string
}

var scoreRules = []scoreRule{
	{"first_name", 10, "cp.first_name IS NOT NULL AND LENGTH(cp.first_name) > 0"},
	{"last_name", 10, "cp.last_name IS NOT NULL AND LENGTH(cp.last_name) > 0"},
	{"email", 10, "cp.email IS NOT NULL"},
	{"headline", 15, "cp.headline_description IS NOT NULL AND LENGTH(cp.headline_description) > 10"},
	{"linkedin", 10, "cp.linked_in_url IS NOT NULL"},
	{"experience", 20, "(SELECT COUNT(*) FROM staging.chemlink_experiences e WHERE e.person_id = cp.id AND e.deleted_at IS NULL) > 0"},
	{"education", 15, "(SELECT COUNT(*) FROM staging.chemlink_education ed WHERE ed.person_id = cp.id AND ed.deleted_at IS NULL) > 0"},
	{"location", 10, "cp.location_id IS NOT NULL"},
}

func scoreTotal() int {
	total := 0
	for _, r := range scoreRules {
		total += r.weight
	}
	return total
}

// scoreExpr renders the rule table into a single SQL expression.
func scoreExpr() string {
	parts := make([]string, len(scoreRules))
	for i, r := range scoreRules {
		parts[i] = fmt.Sprintf("CASE WHEN %s THEN %d ELSE 0 END", r.cond, r.weight)
	}
	return "(\n            " + strings.Join(parts, " +\n            ") + "\n        )"
}
