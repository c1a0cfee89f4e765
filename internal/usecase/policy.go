package usecase

import (
	"context"
	"fmt"

	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/github-score/internal/domain"
	"github.com/naka-gawa/github-score/internal/gateway"
	"github.com/sirupsen/logrus"
)

// Policy names accepted by NewActivityPolicy and NewEngagementPolicy.
const (
	ActivityPullRequests = domain.ActivityPullRequests
	ActivityCommits      = domain.ActivityCommits

	EngagementSocial     = "social"
	EngagementRepository = "repository"
)

// ActivityInput is one raw count fed into the activity curve.
type ActivityInput struct {
	Name  string
	Value float64
}

// ActivityPolicy decides which activity signals are gathered for each repository
// and which three counts feed the activity curve.
type ActivityPolicy interface {
	Name() string
	// Collect gathers the signals of one repository. Failures are logged and leave zero values.
	Collect(ctx context.Context, fetcher gateway.Fetcher, repo domain.RepositoryRecord, logger logrus.FieldLogger) domain.ActivityTally
	Merge(counters *domain.AggregateCounters, tally domain.ActivityTally)
	Inputs(counters domain.AggregateCounters) []ActivityInput
}

// NewActivityPolicy returns the activity policy with the given name.
func NewActivityPolicy(name string, regularCommitThreshold int) (ActivityPolicy, error) {
	switch name {
	case ActivityPullRequests, "":
		return PullRequestPolicy{}, nil
	case ActivityCommits:
		return CommitPolicy{RegularThreshold: regularCommitThreshold}, nil
	default:
		return nil, fmt.Errorf("unknown activity policy %q (want %s or %s)", name, ActivityPullRequests, ActivityCommits)
	}
}

// PullRequestPolicy measures activity through forks and pull requests.
type PullRequestPolicy struct{}

func (PullRequestPolicy) Name() string { return ActivityPullRequests }

func (PullRequestPolicy) Collect(ctx context.Context, fetcher gateway.Fetcher, repo domain.RepositoryRecord, logger logrus.FieldLogger) domain.ActivityTally {
	tally := domain.ActivityTally{Fork: repo.Fork}
	if repo.ForksCount > 0 {
		forks, err := fetcher.CountForks(ctx, repo)
		if err != nil {
			logger.WithError(err).Warn("Counting forks failed, using partial count")
		}
		tally.ForksReceived = forks
	}
	prs, err := fetcher.FetchPullRequests(ctx, repo)
	if err != nil {
		logger.WithError(err).Warn("Listing pull requests failed, using partial count")
	}
	tally.PullRequests = prs
	return tally
}

func (PullRequestPolicy) Merge(c *domain.AggregateCounters, t domain.ActivityTally) {
	if t.Fork {
		c.ForkedRepos++
	}
	c.ForksReceived += t.ForksReceived
	c.PullRequestsGenerated += t.PullRequests.Generated
	c.PullRequestsMerged += t.PullRequests.Merged
}

func (PullRequestPolicy) Inputs(c domain.AggregateCounters) []ActivityInput {
	return []ActivityInput{
		{Name: "forked_repositories", Value: float64(c.ForkedRepos)},
		{Name: "pull_requests_generated", Value: float64(c.PullRequestsGenerated)},
		{Name: "pull_requests_merged", Value: float64(c.PullRequestsMerged)},
	}
}

// CommitPolicy measures activity through commit history and contributor counts.
type CommitPolicy struct {
	// RegularThreshold is the commit count at which a repository counts as regularly maintained.
	RegularThreshold int
}

func (CommitPolicy) Name() string { return ActivityCommits }

func (CommitPolicy) Collect(ctx context.Context, fetcher gateway.Fetcher, repo domain.RepositoryRecord, logger logrus.FieldLogger) domain.ActivityTally {
	var tally domain.ActivityTally
	commits, err := fetcher.CountCommits(ctx, repo)
	if err != nil {
		logger.WithError(err).Warn("Listing commits failed, using partial count")
	}
	tally.Commits = commits
	contributors, err := fetcher.CountContributors(ctx, repo)
	if err != nil {
		logger.WithError(err).Warn("Listing contributors failed, using partial count")
	}
	tally.Contributors = contributors
	return tally
}

func (p CommitPolicy) Merge(c *domain.AggregateCounters, t domain.ActivityTally) {
	c.Commits += t.Commits
	c.CommitsPerRepo = append(c.CommitsPerRepo, t.Commits)
	if t.Commits >= p.RegularThreshold {
		c.RegularCommitRepos++
	}
	if t.Contributors > 1 {
		c.CollaborativeRepos++
	}
}

func (CommitPolicy) Inputs(c domain.AggregateCounters) []ActivityInput {
	median, err := stats.Median(stats.LoadRawData(c.CommitsPerRepo))
	if err != nil {
		median = 0
	}
	return []ActivityInput{
		{Name: "regular_activity", Value: float64(c.RegularCommitRepos)},
		{Name: "commit_activity", Value: median},
		{Name: "collaboration", Value: float64(c.CollaborativeRepos)},
	}
}

// EngagementPolicy grades how engaged an account is.
type EngagementPolicy interface {
	Name() string
	Level(profile domain.Profile, counters domain.AggregateCounters) domain.Level
}

// NewEngagementPolicy returns the engagement policy with the given name.
func NewEngagementPolicy(name string) (EngagementPolicy, error) {
	switch name {
	case EngagementSocial, "":
		return SocialEngagement{}, nil
	case EngagementRepository:
		return RepositoryEngagement{Full: 5, Partial: 1}, nil
	default:
		return nil, fmt.Errorf("unknown engagement policy %q (want %s or %s)", name, EngagementSocial, EngagementRepository)
	}
}

// SocialEngagement looks at the follower graph: both directions non-zero is full,
// either one is partial.
type SocialEngagement struct{}

func (SocialEngagement) Name() string { return EngagementSocial }

func (SocialEngagement) Level(p domain.Profile, _ domain.AggregateCounters) domain.Level {
	switch {
	case p.Followers > 0 && p.Following > 0:
		return domain.LevelFull
	case p.Followers > 0 || p.Following > 0:
		return domain.LevelPartial
	default:
		return domain.LevelNone
	}
}

// RepositoryEngagement looks at how often the user's repositories were forked.
// Some repository above Full forks is full engagement, above Partial is partial.
type RepositoryEngagement struct {
	Full    int
	Partial int
}

func (RepositoryEngagement) Name() string { return EngagementRepository }

func (e RepositoryEngagement) Level(_ domain.Profile, c domain.AggregateCounters) domain.Level {
	switch {
	case c.MaxForksCount > e.Full:
		return domain.LevelFull
	case c.MaxForksCount > e.Partial:
		return domain.LevelPartial
	default:
		return domain.LevelNone
	}
}

// ProfileCompleteness grades the profile by field presence:
// name, email, bio and avatar all set is full, at least two is partial.
func ProfileCompleteness(p domain.Profile) domain.Level {
	switch n := p.FilledFields(); {
	case n == 4:
		return domain.LevelFull
	case n >= 2:
		return domain.LevelPartial
	default:
		return domain.LevelNone
	}
}
