package usecase

import (
	"context"
	"io"

	"github.com/naka-gawa/github-score/internal/domain"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the behavior of the GitHub gateway without making real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchRepositories(ctx context.Context, user string) ([]domain.RepositoryRecord, error) {
	args := m.Called(ctx, user)
	// The returned slice is nil when an error occurs.
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RepositoryRecord), args.Error(1)
}

func (m *mockFetcher) FetchLanguages(ctx context.Context, repo domain.RepositoryRecord) ([]string, error) {
	args := m.Called(ctx, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockFetcher) FetchReadme(ctx context.Context, repo domain.RepositoryRecord) (string, error) {
	args := m.Called(ctx, repo)
	return args.String(0), args.Error(1)
}

func (m *mockFetcher) HasLicense(ctx context.Context, repo domain.RepositoryRecord) (bool, error) {
	args := m.Called(ctx, repo)
	return args.Bool(0), args.Error(1)
}

func (m *mockFetcher) HasFile(ctx context.Context, repo domain.RepositoryRecord, path string) (bool, error) {
	args := m.Called(ctx, repo, path)
	return args.Bool(0), args.Error(1)
}

func (m *mockFetcher) FetchPullRequests(ctx context.Context, repo domain.RepositoryRecord) (domain.PullRequestTally, error) {
	args := m.Called(ctx, repo)
	return args.Get(0).(domain.PullRequestTally), args.Error(1)
}

func (m *mockFetcher) CountCommits(ctx context.Context, repo domain.RepositoryRecord) (int, error) {
	args := m.Called(ctx, repo)
	return args.Int(0), args.Error(1)
}

func (m *mockFetcher) CountContributors(ctx context.Context, repo domain.RepositoryRecord) (int, error) {
	args := m.Called(ctx, repo)
	return args.Int(0), args.Error(1)
}

func (m *mockFetcher) CountForks(ctx context.Context, repo domain.RepositoryRecord) (int, error) {
	args := m.Called(ctx, repo)
	return args.Int(0), args.Error(1)
}

func (m *mockFetcher) FetchProfile(ctx context.Context, user string) (domain.Profile, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.Profile), args.Error(1)
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
