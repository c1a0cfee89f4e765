package usecase

import (
	"context"

	"github.com/naka-gawa/github-score/internal/domain"
	"github.com/naka-gawa/github-score/internal/scoring"
	"github.com/sirupsen/logrus"
)

// Sub-score names, in report order. The three activity sub-scores are named
// by the activity policy and sit between best_practices and originality.
const (
	ScoreRepositoryCount     = "repository_count"
	ScoreLanguageDiversity   = "language_diversity"
	ScoreComplexity          = "complexity"
	ScoreReadability         = "readability"
	ScoreCommenting          = "commenting"
	ScoreBestPractices       = "best_practices"
	ScoreOriginality         = "originality"
	ScoreImpact              = "impact"
	ScoreProfileCompleteness = "profile_completeness"
	ScoreEngagement          = "engagement"
)

// ProfileFetcher is the part of the gateway the scorer needs.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, user string) (domain.Profile, error)
}

// Scorer turns aggregate counters into a score breakdown.
type Scorer struct {
	profiles   ProfileFetcher
	rules      *scoring.Rules
	activity   ActivityPolicy
	engagement EngagementPolicy
	logger     logrus.FieldLogger
}

// NewScorer creates a new Scorer instance.
func NewScorer(profiles ProfileFetcher, rules *scoring.Rules, activity ActivityPolicy, engagement EngagementPolicy, logger logrus.FieldLogger) *Scorer {
	return &Scorer{
		profiles:   profiles,
		rules:      rules,
		activity:   activity,
		engagement: engagement,
		logger:     logger,
	}
}

// Score looks up the user's profile and computes every sub-score.
// A failed profile lookup scores both profile sub-scores at their floor.
func (s *Scorer) Score(ctx context.Context, user string, counters domain.AggregateCounters) domain.ScoreBreakdown {
	profile, err := s.profiles.FetchProfile(ctx, user)
	if err != nil {
		s.logger.WithError(err).WithField("user", user).Warn("Unable to fetch profile, scoring it as empty")
		profile = domain.Profile{Login: user}
	}
	return s.Breakdown(profile, counters)
}

// Breakdown computes the sub-scores from an already fetched profile.
func (s *Scorer) Breakdown(profile domain.Profile, c domain.AggregateCounters) domain.ScoreBreakdown {
	t := s.rules.Tiers
	tier := func(name string, tier scoring.Tier, n int) domain.SubScore {
		return domain.SubScore{Name: name, Value: tier.Score(n), Max: tier.Max()}
	}

	scores := []domain.SubScore{
		tier(ScoreRepositoryCount, t.RepositoryCount, c.TotalRepos),
		tier(ScoreLanguageDiversity, t.LanguageDiversity, len(c.Languages)),
		tier(ScoreComplexity, t.Complexity, c.ComplexProjects),
		tier(ScoreReadability, t.Readability, c.DetailedDocs),
		tier(ScoreCommenting, t.Commenting, c.DetailedDocs),
		tier(ScoreBestPractices, t.BestPractices, c.BestPractices),
	}
	curve := s.rules.ActivityCurve
	for _, in := range s.activity.Inputs(c) {
		scores = append(scores, domain.SubScore{Name: in.Name, Value: curve.Score(in.Value), Max: curve.Max})
	}
	scores = append(scores,
		tier(ScoreOriginality, t.Originality, c.InnovativeProjects),
		tier(ScoreImpact, t.Impact, c.HighImpactProjects),
		domain.SubScore{
			Name:  ScoreProfileCompleteness,
			Value: s.rules.Profile.Score(ProfileCompleteness(profile)),
			Max:   s.rules.Profile.Max(),
		},
		domain.SubScore{
			Name:  ScoreEngagement,
			Value: s.rules.Profile.Score(s.engagement.Level(profile, c)),
			Max:   s.rules.Profile.Max(),
		},
	)
	return domain.NewScoreBreakdown(scores)
}
