// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/github-score/internal/domain"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	FetchRepositories(ctx context.Context, user string) ([]domain.RepositoryRecord, error)
	FetchLanguages(ctx context.Context, repo domain.RepositoryRecord) ([]string, error)
	// FetchReadme returns the decoded README. A repository without one yields "" and no error.
	FetchReadme(ctx context.Context, repo domain.RepositoryRecord) (string, error)
	HasLicense(ctx context.Context, repo domain.RepositoryRecord) (bool, error)
	HasFile(ctx context.Context, repo domain.RepositoryRecord, path string) (bool, error)
	FetchPullRequests(ctx context.Context, repo domain.RepositoryRecord) (domain.PullRequestTally, error)
	CountCommits(ctx context.Context, repo domain.RepositoryRecord) (int, error)
	CountContributors(ctx context.Context, repo domain.RepositoryRecord) (int, error)
	CountForks(ctx context.Context, repo domain.RepositoryRecord) (int, error)
	FetchProfile(ctx context.Context, user string) (domain.Profile, error)
}

// Options configures the HTTP stack behind the gateway.
type Options struct {
	// Token is optional. Without it requests are anonymous and GraphQL is not used.
	Token          string
	BaseURL        string
	GraphQLURL     string
	RequestTimeout time.Duration
	// RequestsPerSecond paces outgoing requests. Zero disables pacing.
	RequestsPerSecond float64
	MaxPages          int
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        logrus.FieldLogger
	maxPages      int
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(opts Options, logger logrus.FieldLogger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	var transport http.RoundTripper = rateLimitWaiter
	if opts.RequestsPerSecond > 0 {
		transport = newPacedTransport(transport, rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1))
	}
	if opts.Token != "" {
		transport = &oauth2.Transport{
			Base:   transport,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
		}
	}
	httpClient := &http.Client{Transport: transport, Timeout: opts.RequestTimeout}

	restClient := github.NewClient(httpClient)
	if opts.BaseURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("failed to parse GitHub API URL: %w", err)
		}
		restClient.BaseURL = baseURL
	}

	g := &GitHubGateway{
		restClient: restClient,
		logger:     logger,
		maxPages:   opts.MaxPages,
	}
	if opts.Token != "" {
		if opts.GraphQLURL != "" {
			g.graphqlClient = githubv4.NewEnterpriseClient(opts.GraphQLURL, httpClient)
		} else {
			g.graphqlClient = githubv4.NewClient(httpClient)
		}
	}
	return g, nil
}

func (g *GitHubGateway) FetchRepositories(ctx context.Context, user string) ([]domain.RepositoryRecord, error) {
	g.logger.Debugf("Fetching repositories of %s...", user)
	var records []domain.RepositoryRecord
	err := g.paginate(ctx, "repositories of "+user, func(lo github.ListOptions) (int, *github.Response, error) {
		opts := &github.RepositoryListByUserOptions{ListOptions: lo}
		repos, resp, err := g.restClient.Repositories.ListByUser(ctx, user, opts)
		if err != nil {
			return 0, resp, err
		}
		for _, r := range repos {
			records = append(records, toRecord(r))
		}
		return len(repos), resp, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories of %s: %w", user, err)
	}
	g.logger.Debugf("Fetched %d repositories of %s.", len(records), user)
	return records, nil
}

func toRecord(r *github.Repository) domain.RepositoryRecord {
	return domain.RepositoryRecord{
		FullName:    r.GetFullName(),
		Description: r.GetDescription(),
		Fork:        r.GetFork(),
		ForksCount:  r.GetForksCount(),
	}
}

func (g *GitHubGateway) FetchLanguages(ctx context.Context, repo domain.RepositoryRecord) ([]string, error) {
	langs, _, err := g.restClient.Repositories.ListLanguages(ctx, repo.Owner(), repo.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to list languages of %s: %w", repo.FullName, err)
	}
	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (g *GitHubGateway) FetchReadme(ctx context.Context, repo domain.RepositoryRecord) (string, error) {
	readme, _, err := g.restClient.Repositories.GetReadme(ctx, repo.Owner(), repo.Name(), nil)
	if err != nil {
		if hasStatus(err, http.StatusNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get README of %s: %w", repo.FullName, err)
	}
	content, err := readme.GetContent()
	if err != nil {
		return "", fmt.Errorf("failed to decode README of %s: %w", repo.FullName, err)
	}
	if !utf8.ValidString(content) {
		return "", fmt.Errorf("failed to decode README of %s: content is not valid UTF-8", repo.FullName)
	}
	return content, nil
}

func (g *GitHubGateway) HasLicense(ctx context.Context, repo domain.RepositoryRecord) (bool, error) {
	_, _, err := g.restClient.Repositories.License(ctx, repo.Owner(), repo.Name())
	if err != nil {
		if hasStatus(err, http.StatusNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get license of %s: %w", repo.FullName, err)
	}
	return true, nil
}

func (g *GitHubGateway) HasFile(ctx context.Context, repo domain.RepositoryRecord, path string) (bool, error) {
	_, _, _, err := g.restClient.Repositories.GetContents(ctx, repo.Owner(), repo.Name(), path, nil)
	if err != nil {
		if hasStatus(err, http.StatusNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get %s of %s: %w", path, repo.FullName, err)
	}
	return true, nil
}

// FetchPullRequests counts pull requests in every state.
// A pull request counts as merged only when it carries a merge timestamp.
// On a mid-way failure the partial tally is returned together with the error.
func (g *GitHubGateway) FetchPullRequests(ctx context.Context, repo domain.RepositoryRecord) (domain.PullRequestTally, error) {
	var tally domain.PullRequestTally
	err := g.paginate(ctx, "pull requests of "+repo.FullName, func(lo github.ListOptions) (int, *github.Response, error) {
		opts := &github.PullRequestListOptions{State: "all", ListOptions: lo}
		prs, resp, err := g.restClient.PullRequests.List(ctx, repo.Owner(), repo.Name(), opts)
		if err != nil {
			return 0, resp, err
		}
		tally.Generated += len(prs)
		for _, pr := range prs {
			if pr.MergedAt != nil {
				tally.Merged++
			}
		}
		return len(prs), resp, nil
	})
	if err != nil {
		return tally, fmt.Errorf("failed to list pull requests of %s: %w", repo.FullName, err)
	}
	return tally, nil
}

// CountCommits counts every commit on the default branch. An empty repository has zero commits.
func (g *GitHubGateway) CountCommits(ctx context.Context, repo domain.RepositoryRecord) (int, error) {
	count := 0
	err := g.paginate(ctx, "commits of "+repo.FullName, func(lo github.ListOptions) (int, *github.Response, error) {
		commits, resp, err := g.restClient.Repositories.ListCommits(ctx, repo.Owner(), repo.Name(), &github.CommitsListOptions{ListOptions: lo})
		if err != nil {
			return 0, resp, err
		}
		count += len(commits)
		return len(commits), resp, nil
	})
	if err != nil {
		if hasStatus(err, http.StatusConflict) {
			return count, nil
		}
		return count, fmt.Errorf("failed to list commits of %s: %w", repo.FullName, err)
	}
	return count, nil
}

func (g *GitHubGateway) CountContributors(ctx context.Context, repo domain.RepositoryRecord) (int, error) {
	count := 0
	err := g.paginate(ctx, "contributors of "+repo.FullName, func(lo github.ListOptions) (int, *github.Response, error) {
		contributors, resp, err := g.restClient.Repositories.ListContributors(ctx, repo.Owner(), repo.Name(), &github.ListContributorsOptions{ListOptions: lo})
		if err != nil {
			return 0, resp, err
		}
		count += len(contributors)
		return len(contributors), resp, nil
	})
	if err != nil {
		return count, fmt.Errorf("failed to list contributors of %s: %w", repo.FullName, err)
	}
	return count, nil
}

func (g *GitHubGateway) CountForks(ctx context.Context, repo domain.RepositoryRecord) (int, error) {
	count := 0
	err := g.paginate(ctx, "forks of "+repo.FullName, func(lo github.ListOptions) (int, *github.Response, error) {
		forks, resp, err := g.restClient.Repositories.ListForks(ctx, repo.Owner(), repo.Name(), &github.RepositoryListForksOptions{ListOptions: lo})
		if err != nil {
			return 0, resp, err
		}
		count += len(forks)
		return len(forks), resp, nil
	})
	if err != nil {
		return count, fmt.Errorf("failed to list forks of %s: %w", repo.FullName, err)
	}
	return count, nil
}

// hasStatus reports whether err is a GitHub API error with one of the given status codes.
func hasStatus(err error, codes ...int) bool {
	var ghErr *github.ErrorResponse
	if !errors.As(err, &ghErr) || ghErr.Response == nil {
		return false
	}
	return slices.Contains(codes, ghErr.Response.StatusCode)
}
