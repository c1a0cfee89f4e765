// Package domain contains the core data structures and domain logic for the application.
package domain

import "strings"

// RepositoryRecord is the subset of a repository's metadata the scorer relies on.
// It is taken verbatim from the API and never modified afterwards.
type RepositoryRecord struct {
	FullName    string `json:"full_name"`
	Description string `json:"description,omitempty"`
	Fork        bool   `json:"fork"`
	ForksCount  int    `json:"forks_count"`
}

// Owner returns the owner part of FullName ("owner/name").
func (r RepositoryRecord) Owner() string {
	owner, _, _ := strings.Cut(r.FullName, "/")
	return owner
}

// Name returns the repository part of FullName.
// If FullName has no slash, it is returned unchanged.
func (r RepositoryRecord) Name() string {
	_, name, ok := strings.Cut(r.FullName, "/")
	if !ok {
		return r.FullName
	}
	return name
}

// PullRequestTally counts pull requests for a single repository.
type PullRequestTally struct {
	Generated int `json:"generated"`
	Merged    int `json:"merged"`
}

// ActivityTally holds the per-repository activity signals gathered by an activity policy.
// Only the fields relevant to the policy in use are populated.
type ActivityTally struct {
	Fork          bool             `json:"fork"`
	ForksReceived int              `json:"forks_received"`
	PullRequests  PullRequestTally `json:"pull_requests"`
	Commits       int              `json:"commits"`
	Contributors  int              `json:"contributors"`
}

// RepositorySignals is everything learned about one repository during collection.
type RepositorySignals struct {
	Repository    RepositoryRecord
	Languages     []string
	Complex       bool
	Innovative    bool
	HighImpact    bool
	DetailedDocs  bool
	BestPractices bool
	Activity      ActivityTally
}
