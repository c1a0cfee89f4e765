package domain

// Activity policy names. AggregateCounters.ActivityPolicy holds one of them.
const (
	ActivityPullRequests = "pull-requests"
	ActivityCommits      = "commits"
)

// AggregateCounters is the snapshot produced by one collection run.
// It is the hand-off between collection and scoring and is never persisted.
type AggregateCounters struct {
	TotalRepos         int      `json:"total_repos"`
	Languages          []string `json:"languages"`
	ComplexProjects    int      `json:"complex_projects"`
	DetailedDocs       int      `json:"detailed_docs"`
	BestPractices      int      `json:"best_practices"`
	InnovativeProjects int      `json:"innovative_projects"`
	HighImpactProjects int      `json:"high_impact_projects"`
	MaxForksCount      int      `json:"max_forks_count"`

	ActivityPolicy string `json:"activity_policy"`

	// pull-requests policy
	ForkedRepos           int `json:"forked_repos"`
	ForksReceived         int `json:"forks_received"`
	PullRequestsGenerated int `json:"pull_requests_generated"`
	PullRequestsMerged    int `json:"pull_requests_merged"`

	// commits policy
	Commits            int   `json:"commits"`
	CommitsPerRepo     []int `json:"commits_per_repo,omitempty"`
	RegularCommitRepos int   `json:"regular_commit_repos"`
	CollaborativeRepos int   `json:"collaborative_repos"`
}

// SubScore is one bounded contribution to the total.
type SubScore struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Max   float64 `json:"max"`
}

// ScoreBreakdown lists every sub-score in a fixed order together with their sum.
type ScoreBreakdown struct {
	Scores     []SubScore `json:"scores"`
	Total      float64    `json:"total"`
	Max        float64    `json:"max"`
	Normalized float64    `json:"normalized"`
}

// Get returns the sub-score with the given name.
func (b ScoreBreakdown) Get(name string) (SubScore, bool) {
	for _, s := range b.Scores {
		if s.Name == name {
			return s, true
		}
	}
	return SubScore{}, false
}

// NewScoreBreakdown sums the sub-scores and derives the 0-100 normalized value.
func NewScoreBreakdown(scores []SubScore) ScoreBreakdown {
	b := ScoreBreakdown{Scores: scores}
	for _, s := range scores {
		b.Total += s.Value
		b.Max += s.Max
	}
	if b.Max > 0 {
		b.Normalized = b.Total / b.Max * 100
	}
	return b
}
