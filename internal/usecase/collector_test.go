package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/naka-gawa/github-score/internal/classify"
	"github.com/naka-gawa/github-score/internal/domain"
	"github.com/naka-gawa/github-score/internal/scoring"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var errAPI = errors.New("github api error")

func newTestCollector(fetcher *mockFetcher, activity ActivityPolicy, logger logrus.FieldLogger) *Collector {
	rules := scoring.Default()
	return NewCollector(fetcher, classify.NewKeywordClassifier(rules.Keywords), activity, rules, 3, logger)
}

// repoFixture describes the mocked responses for one repository.
type repoFixture struct {
	record       domain.RepositoryRecord
	languages    []string
	languagesErr error
	readme       string
	readmeErr    error
	license      bool
	licenseErr   error
	contributing bool
	prs          domain.PullRequestTally
	prsErr       error
}

func (f repoFixture) expect(m *mockFetcher) {
	m.On("FetchLanguages", mock.Anything, f.record).Return(f.languages, f.languagesErr)
	m.On("FetchReadme", mock.Anything, f.record).Return(f.readme, f.readmeErr)
	m.On("HasLicense", mock.Anything, f.record).Return(f.license, f.licenseErr)
	if f.license {
		m.On("HasFile", mock.Anything, f.record, ContributingGuide).Return(f.contributing, nil)
	}
	m.On("FetchPullRequests", mock.Anything, f.record).Return(f.prs, f.prsErr)
}

func sixRepositoryFixtures() []repoFixture {
	return []repoFixture{
		{
			record:       domain.RepositoryRecord{FullName: "octo/vision", Description: "Deep Learning for images"},
			languages:    []string{"C++", "Python"},
			readme:       strings.Repeat("x", 1500),
			license:      true,
			contributing: true,
			prs:          domain.PullRequestTally{Generated: 3, Merged: 1},
		},
		{
			record:       domain.RepositoryRecord{FullName: "octo/cli", Description: "A command line tool"},
			languages:    []string{"Go"},
			readme:       "short",
			license:      true,
			contributing: true,
			prs:          domain.PullRequestTally{Generated: 1},
			prsErr:       errAPI,
		},
		{
			record:       domain.RepositoryRecord{FullName: "octo/web", Description: "Practical use dashboards"},
			languages:    []string{"CSS", "TypeScript"},
			readme:       strings.Repeat("y", 1000),
			license:      true,
			contributing: true,
		},
		{
			record:       domain.RepositoryRecord{FullName: "octo/algo", Description: "Complex algorithms, a novel take"},
			languages:    []string{"Go", "Python"},
			license:      true,
			contributing: false,
		},
		{
			record:       domain.RepositoryRecord{FullName: "octo/dots"},
			languagesErr: errAPI,
		},
		{
			record:     domain.RepositoryRecord{FullName: "octo/notes", Description: "notes"},
			languages:  []string{},
			readmeErr:  errAPI,
			licenseErr: errAPI,
		},
	}
}

func TestCollector_Collect(t *testing.T) {
	fixtures := sixRepositoryFixtures()
	records := make([]domain.RepositoryRecord, len(fixtures))
	fetcher := new(mockFetcher)
	for i, f := range fixtures {
		records[i] = f.record
		f.expect(fetcher)
	}
	fetcher.On("FetchRepositories", mock.Anything, "octo").Return(records, nil)

	collector := newTestCollector(fetcher, PullRequestPolicy{}, discardLogger())
	counters := collector.Collect(context.Background(), "octo")

	assert.Equal(t, domain.AggregateCounters{
		TotalRepos:            6,
		Languages:             []string{"C++", "CSS", "Go", "Python", "TypeScript"},
		ComplexProjects:       2,
		DetailedDocs:          1,
		BestPractices:         3,
		InnovativeProjects:    1,
		HighImpactProjects:    1,
		ActivityPolicy:        ActivityPullRequests,
		PullRequestsGenerated: 4,
		PullRequestsMerged:    1,
	}, counters)

	// No repository has forks, so the forks endpoint is never queried.
	fetcher.AssertNotCalled(t, "CountForks", mock.Anything, mock.Anything)
	fetcher.AssertExpectations(t)
}

func TestCollector_CollectDegradesWhenRepositoryListFails(t *testing.T) {
	logger, hook := test.NewNullLogger()
	fetcher := new(mockFetcher)
	fetcher.On("FetchRepositories", mock.Anything, "octo").Return(nil, errAPI)

	collector := newTestCollector(fetcher, PullRequestPolicy{}, logger)
	counters := collector.Collect(context.Background(), "octo")

	assert.Equal(t, domain.AggregateCounters{
		Languages:      []string{},
		ActivityPolicy: ActivityPullRequests,
	}, counters)

	var warned bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Data[logrus.ErrorKey] == errAPI {
			warned = true
		}
	}
	assert.True(t, warned, "the failure must be logged")
	fetcher.AssertExpectations(t)
}

func TestCollector_CollectWithCommitPolicy(t *testing.T) {
	repos := []domain.RepositoryRecord{
		{FullName: "octo/a", Fork: true, ForksCount: 2},
		{FullName: "octo/b"},
		{FullName: "octo/c", ForksCount: 9},
	}
	fetcher := new(mockFetcher)
	fetcher.On("FetchRepositories", mock.Anything, "octo").Return(repos, nil)
	for _, r := range repos {
		fetcher.On("FetchLanguages", mock.Anything, r).Return([]string{"Go"}, nil)
		fetcher.On("FetchReadme", mock.Anything, r).Return("", nil)
		fetcher.On("HasLicense", mock.Anything, r).Return(false, nil)
	}
	fetcher.On("CountCommits", mock.Anything, repos[0]).Return(12, nil)
	fetcher.On("CountCommits", mock.Anything, repos[1]).Return(2, nil)
	fetcher.On("CountCommits", mock.Anything, repos[2]).Return(5, errAPI)
	fetcher.On("CountContributors", mock.Anything, repos[0]).Return(3, nil)
	fetcher.On("CountContributors", mock.Anything, repos[1]).Return(1, nil)
	fetcher.On("CountContributors", mock.Anything, repos[2]).Return(0, errAPI)

	collector := newTestCollector(fetcher, CommitPolicy{RegularThreshold: 5}, discardLogger())
	counters := collector.Collect(context.Background(), "octo")

	assert.Equal(t, 3, counters.TotalRepos)
	assert.Equal(t, []string{"Go"}, counters.Languages)
	assert.Equal(t, ActivityCommits, counters.ActivityPolicy)
	assert.Equal(t, 19, counters.Commits)
	assert.Equal(t, []int{12, 2, 5}, counters.CommitsPerRepo)
	assert.Equal(t, 2, counters.RegularCommitRepos)
	assert.Equal(t, 1, counters.CollaborativeRepos)
	assert.Equal(t, 9, counters.MaxForksCount)
	assert.Zero(t, counters.ForkedRepos, "fork flags belong to the pull-requests policy")

	fetcher.AssertNotCalled(t, "FetchPullRequests", mock.Anything, mock.Anything)
	fetcher.AssertExpectations(t)
}

func TestCollector_HasDetailedDocs(t *testing.T) {
	repo := domain.RepositoryRecord{FullName: "octo/repo"}
	testCases := []struct {
		name     string
		readme   string
		err      error
		expected bool
	}{
		{name: "longer than the minimum", readme: strings.Repeat("a", 1001), expected: true},
		{name: "exactly the minimum", readme: strings.Repeat("a", 1000), expected: false},
		{name: "length counts characters, not bytes", readme: strings.Repeat("é", 600), expected: false},
		{name: "missing README", readme: "", expected: false},
		{name: "undecodable README", err: errAPI, expected: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := new(mockFetcher)
			fetcher.On("FetchReadme", mock.Anything, repo).Return(tc.readme, tc.err)
			collector := newTestCollector(fetcher, PullRequestPolicy{}, discardLogger())

			assert.Equal(t, tc.expected, collector.HasDetailedDocs(context.Background(), repo))
			fetcher.AssertExpectations(t)
		})
	}
}

func TestCollector_FollowsBestPractices(t *testing.T) {
	repo := domain.RepositoryRecord{FullName: "octo/repo"}
	testCases := []struct {
		name       string
		license    bool
		licenseErr error
		checkGuide bool
		guide      bool
		guideErr   error
		expected   bool
	}{
		{name: "license and guide", license: true, checkGuide: true, guide: true, expected: true},
		{name: "license without guide", license: true, checkGuide: true, guide: false, expected: false},
		{name: "guide lookup fails", license: true, checkGuide: true, guideErr: errAPI, expected: false},
		{name: "no license skips the guide", license: false, expected: false},
		{name: "license lookup fails", licenseErr: errAPI, expected: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := new(mockFetcher)
			fetcher.On("HasLicense", mock.Anything, repo).Return(tc.license, tc.licenseErr)
			if tc.checkGuide {
				fetcher.On("HasFile", mock.Anything, repo, "CONTRIBUTING.md").Return(tc.guide, tc.guideErr)
			}
			collector := newTestCollector(fetcher, PullRequestPolicy{}, discardLogger())

			assert.Equal(t, tc.expected, collector.FollowsBestPractices(context.Background(), repo))
			fetcher.AssertExpectations(t)
		})
	}
}

func TestPullRequestPolicy_CountsForksOnlyWhenForked(t *testing.T) {
	repo := domain.RepositoryRecord{FullName: "octo/popular", Fork: true, ForksCount: 3}
	fetcher := new(mockFetcher)
	fetcher.On("CountForks", mock.Anything, repo).Return(3, nil)
	fetcher.On("FetchPullRequests", mock.Anything, repo).Return(domain.PullRequestTally{Generated: 5, Merged: 4}, nil)

	tally := PullRequestPolicy{}.Collect(context.Background(), fetcher, repo, discardLogger())
	assert.Equal(t, domain.ActivityTally{Fork: true, ForksReceived: 3, PullRequests: domain.PullRequestTally{Generated: 5, Merged: 4}}, tally)

	var counters domain.AggregateCounters
	PullRequestPolicy{}.Merge(&counters, tally)
	PullRequestPolicy{}.Merge(&counters, tally)
	assert.Equal(t, 2, counters.ForkedRepos)
	assert.Equal(t, 6, counters.ForksReceived)
	assert.Equal(t, 10, counters.PullRequestsGenerated)
	assert.Equal(t, 8, counters.PullRequestsMerged)
	fetcher.AssertExpectations(t)
}
