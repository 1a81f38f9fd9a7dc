// Package target enumerates every warehouse table the pipeline may write.
// All TRUNCATE/INSERT SQL is assembled from these entries only; table and
// column identifiers supplied at runtime never reach SQL unvalidated.
package target

import "regexp"

type Table struct {
	Schema string
	Name   string
}

func (t Table) Qualified() string { return t.Schema + "." + t.Name }

// Staging mirrors of the relational sources.
var (
	StagingChemlinkPersons     = Table{"staging", "chemlink_persons"}
	StagingChemlinkExperiences = Table{"staging", "chemlink_experiences"}
	StagingChemlinkEducation   = Table{"staging", "chemlink_education"}
	StagingChemlinkCollections = Table{"staging", "chemlink_collections"}
	StagingChemlinkQueryVotes  = Table{"staging", "chemlink_query_votes"}
	StagingChemlinkViewAccess  = Table{"staging", "chemlink_view_access"}
	StagingChemlinkGlossary    = Table{"staging", "chemlink_glossary"}

	StagingEngagementPersons      = Table{"staging", "engagement_persons"}
	StagingEngagementPosts        = Table{"staging", "engagement_posts"}
	StagingEngagementComments     = Table{"staging", "engagement_comments"}
	StagingEngagementGroups       = Table{"staging", "engagement_groups"}
	StagingEngagementGroupMembers = Table{"staging", "engagement_group_members"}
	StagingEngagementMentions     = Table{"staging", "engagement_mentions"}
)

// Staging mirrors of the graph store.
var (
	StagingGraphPersons       = Table{"staging", "neo4j_persons"}
	StagingGraphCompanies     = Table{"staging", "neo4j_companies"}
	StagingGraphRoles         = Table{"staging", "neo4j_roles"}
	StagingGraphSchools       = Table{"staging", "neo4j_schools"}
	StagingGraphDegrees       = Table{"staging", "neo4j_degrees"}
	StagingGraphLocations     = Table{"staging", "neo4j_locations"}
	StagingGraphProjects      = Table{"staging", "neo4j_projects"}
	StagingGraphLanguages     = Table{"staging", "neo4j_languages"}
	StagingGraphExperiences   = Table{"staging", "neo4j_experiences"}
	StagingGraphEducations    = Table{"staging", "neo4j_educations"}
	StagingGraphRelationships = Table{"staging", "neo4j_relationships"}
)

// Core entities.
var (
	CoreUnifiedUsers          = Table{"core", "unified_users"}
	CoreGlossaryTerms         = Table{"core", "glossary_terms"}
	CoreUserActivityEvents    = Table{"core", "user_activity_events"}
	CoreUserCohorts           = Table{"core", "user_cohorts"}
	CoreUserRelationships     = Table{"core", "user_relationships"}
	CoreCareerPaths           = Table{"core", "career_paths"}
	CoreEducationNetworks     = Table{"core", "education_networks"}
	CoreCompanyNetworks       = Table{"core", "company_networks"}
	CoreLocationNetworks      = Table{"core", "location_networks"}
	CoreProjectCollaborations = Table{"core", "project_collaborations"}
)

// Aggregate rollups.
var (
	AggDailyMetrics          = Table{"aggregates", "daily_metrics"}
	AggMonthlyMetrics        = Table{"aggregates", "monthly_metrics"}
	AggCohortRetention       = Table{"aggregates", "cohort_retention"}
	AggPostMetrics           = Table{"aggregates", "post_metrics"}
	AggFinderMetrics         = Table{"aggregates", "finder_metrics"}
	AggCollectionMetrics     = Table{"aggregates", "collection_metrics"}
	AggProfileMetrics        = Table{"aggregates", "profile_metrics"}
	AggFunnelMetrics         = Table{"aggregates", "funnel_metrics"}
	AggConnectionRecs        = Table{"aggregates", "connection_recommendations"}
	AggCompanyNetworkMap     = Table{"aggregates", "company_network_map"}
	AggSkillsMatching        = Table{"aggregates", "skills_matching_scores"}
	AggCareerPathPatterns    = Table{"aggregates", "career_path_patterns"}
	AggLocationNetworks      = Table{"aggregates", "location_based_networks"}
	AggAlumniNetworks        = Table{"aggregates", "alumni_networks"}
	AggProjectCollabGraph    = Table{"aggregates", "project_collaboration_graph"}
	AggUserEngagementLevels  = Table{"aggregates", "user_engagement_levels"}
)

// GraphStagingTables is the full set the graph extract populates; the
// transformer's schema gate checks it before running graph sub-steps.
var GraphStagingTables = []Table{
	StagingGraphRelationships,
	StagingGraphPersons,
	StagingGraphCompanies,
	StagingGraphRoles,
	StagingGraphSchools,
	StagingGraphDegrees,
	StagingGraphLocations,
	StagingGraphProjects,
	StagingGraphLanguages,
	StagingGraphExperiences,
	StagingGraphEducations,
}

// GraphCoreTables are the graph-derived core tables the transform fills.
var GraphCoreTables = []Table{
	CoreUserRelationships,
	CoreCareerPaths,
	CoreEducationNetworks,
	CoreCompanyNetworks,
	CoreLocationNetworks,
	CoreProjectCollaborations,
}

// GraphAggregateTables are the graph-derived aggregate targets gated as a
// block in the aggregate stage.
var GraphAggregateTables = []Table{
	AggConnectionRecs,
	AggCompanyNetworkMap,
	AggSkillsMatching,
	AggCareerPathPatterns,
	AggLocationNetworks,
	AggAlumniNetworks,
	AggProjectCollabGraph,
}

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ValidIdent reports whether a column name extracted from a source result
// set is safe to splice into an INSERT statement.
func ValidIdent(s string) bool {
	return identPattern.MatchString(s)
}
