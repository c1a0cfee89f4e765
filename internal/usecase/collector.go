// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"sort"
	"unicode/utf8"

	"github.com/naka-gawa/github-score/internal/classify"
	"github.com/naka-gawa/github-score/internal/domain"
	"github.com/naka-gawa/github-score/internal/gateway"
	"github.com/naka-gawa/github-score/internal/scoring"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ContributingGuide is the file whose presence, together with a license,
// marks a repository as following best practices.
const ContributingGuide = "CONTRIBUTING.md"

// DefaultConcurrency is the number of repositories inspected at once.
const DefaultConcurrency = 4

// Collector is the use case for collecting aggregate counters of one account.
// Every remote failure degrades the affected counter and is logged; Collect never fails.
type Collector struct {
	fetcher     gateway.Fetcher
	classifier  classify.ProjectClassifier
	activity    ActivityPolicy
	rules       *scoring.Rules
	concurrency int
	logger      logrus.FieldLogger
}

// NewCollector creates a new Collector instance.
func NewCollector(fetcher gateway.Fetcher, classifier classify.ProjectClassifier, activity ActivityPolicy, rules *scoring.Rules, concurrency int, logger logrus.FieldLogger) *Collector {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Collector{
		fetcher:     fetcher,
		classifier:  classifier,
		activity:    activity,
		rules:       rules,
		concurrency: concurrency,
		logger:      logger,
	}
}

// FetchRepositories lists the user's repositories. On failure it logs and returns none.
func (c *Collector) FetchRepositories(ctx context.Context, user string) []domain.RepositoryRecord {
	repos, err := c.fetcher.FetchRepositories(ctx, user)
	if err != nil {
		c.logger.WithError(err).WithField("user", user).Warn("Unable to fetch repositories, continuing without them")
		return nil
	}
	return repos
}

// FetchLanguages returns the languages of a repository, or none on failure.
func (c *Collector) FetchLanguages(ctx context.Context, repo domain.RepositoryRecord) []string {
	langs, err := c.fetcher.FetchLanguages(ctx, repo)
	if err != nil {
		c.logger.WithError(err).WithField("repo", repo.FullName).Warn("Unable to fetch languages")
		return nil
	}
	return langs
}

// HasDetailedDocs reports whether the decoded README is longer than the configured minimum.
// A missing or undecodable README is not detailed.
func (c *Collector) HasDetailedDocs(ctx context.Context, repo domain.RepositoryRecord) bool {
	readme, err := c.fetcher.FetchReadme(ctx, repo)
	if err != nil {
		c.logger.WithError(err).WithField("repo", repo.FullName).Warn("Unable to read README")
		return false
	}
	return utf8.RuneCountInString(readme) > c.rules.ReadmeMinLength
}

// FollowsBestPractices reports whether the repository has both a license and a contributing guide.
func (c *Collector) FollowsBestPractices(ctx context.Context, repo domain.RepositoryRecord) bool {
	log := c.logger.WithField("repo", repo.FullName)
	hasLicense, err := c.fetcher.HasLicense(ctx, repo)
	if err != nil {
		log.WithError(err).Warn("Unable to check license")
	}
	if !hasLicense {
		return false
	}
	hasGuide, err := c.fetcher.HasFile(ctx, repo, ContributingGuide)
	if err != nil {
		log.WithError(err).Warn("Unable to check contributing guide")
	}
	return hasGuide
}

// Inspect gathers every signal of a single repository.
func (c *Collector) Inspect(ctx context.Context, repo domain.RepositoryRecord) domain.RepositorySignals {
	c.logger.Debugf("  Inspecting %s...", repo.FullName)
	return domain.RepositorySignals{
		Repository:    repo,
		Languages:     c.FetchLanguages(ctx, repo),
		Complex:       c.classifier.IsComplex(repo),
		Innovative:    c.classifier.IsInnovative(repo),
		HighImpact:    c.classifier.IsHighImpact(repo),
		DetailedDocs:  c.HasDetailedDocs(ctx, repo),
		BestPractices: c.FollowsBestPractices(ctx, repo),
		Activity:      c.activity.Collect(ctx, c.fetcher, repo, c.logger.WithField("repo", repo.FullName)),
	}
}

// Collect performs the main business logic.
// Repositories are inspected concurrently with a bounded fan-out and merged in
// listing order, so the result does not depend on scheduling.
func (c *Collector) Collect(ctx context.Context, user string) domain.AggregateCounters {
	c.logger.Info("Usecase: Starting data collection...")
	repos := c.FetchRepositories(ctx, user)
	c.logger.Infof("Usecase: Inspecting %d repositories...", len(repos))

	signals := make([]domain.RepositorySignals, len(repos))
	var eg errgroup.Group
	eg.SetLimit(c.concurrency)
	for i, repo := range repos {
		i, repo := i, repo
		eg.Go(func() error {
			signals[i] = c.Inspect(ctx, repo)
			return nil
		})
	}
	_ = eg.Wait() // Inspect never fails

	counters := c.merge(signals)
	counters.TotalRepos = len(repos)
	c.logger.Info("Usecase: Collection complete.")
	return counters
}

func (c *Collector) merge(signals []domain.RepositorySignals) domain.AggregateCounters {
	counters := domain.AggregateCounters{ActivityPolicy: c.activity.Name()}
	languages := make(map[string]struct{})
	for _, s := range signals {
		for _, lang := range s.Languages {
			languages[lang] = struct{}{}
		}
		if s.Complex {
			counters.ComplexProjects++
		}
		if s.Innovative {
			counters.InnovativeProjects++
		}
		if s.HighImpact {
			counters.HighImpactProjects++
		}
		if s.DetailedDocs {
			counters.DetailedDocs++
		}
		if s.BestPractices {
			counters.BestPractices++
		}
		if s.Repository.ForksCount > counters.MaxForksCount {
			counters.MaxForksCount = s.Repository.ForksCount
		}
		c.activity.Merge(&counters, s.Activity)
	}

	counters.Languages = make([]string, 0, len(languages))
	for lang := range languages {
		counters.Languages = append(counters.Languages, lang)
	}
	sort.Strings(counters.Languages)
	return counters
}
