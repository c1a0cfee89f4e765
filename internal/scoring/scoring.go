// Package scoring holds the threshold tables and the capped logarithmic curve
// used to turn aggregate counts into bounded sub-scores.
package scoring

import (
	"math"

	"github.com/naka-gawa/github-score/internal/domain"
)

// Tier is a three-step threshold table.
// A count at or above High earns HighScore, at or above Mid earns MidScore,
// and anything below Mid earns LowScore.
type Tier struct {
	High      int     `yaml:"high"`
	HighScore float64 `yaml:"high_score"`
	Mid       int     `yaml:"mid"`
	MidScore  float64 `yaml:"mid_score"`
	LowScore  float64 `yaml:"low_score"`
}

func (t Tier) Score(n int) float64 {
	switch {
	case n >= t.High:
		return t.HighScore
	case n >= t.Mid:
		return t.MidScore
	default:
		return t.LowScore
	}
}

// Max is the largest value the tier can award.
func (t Tier) Max() float64 {
	return math.Max(t.HighScore, math.Max(t.MidScore, t.LowScore))
}

// Curve is min(Max, Base + Scale*ln(1+x)).
// It gives diminishing returns: Base at x=0, saturating at Max.
type Curve struct {
	Base  float64 `yaml:"base"`
	Scale float64 `yaml:"scale"`
	Max   float64 `yaml:"max"`
}

func (c Curve) Score(x float64) float64 {
	if x < 0 || math.IsNaN(x) {
		x = 0
	}
	return math.Min(c.Max, c.Base+c.Scale*math.Log1p(x))
}

// ProfileTier maps a profile level onto a score.
type ProfileTier struct {
	Full    float64 `yaml:"full"`
	Partial float64 `yaml:"partial"`
	None    float64 `yaml:"none"`
}

func (p ProfileTier) Score(l domain.Level) float64 {
	switch l {
	case domain.LevelFull:
		return p.Full
	case domain.LevelPartial:
		return p.Partial
	default:
		return p.None
	}
}

func (p ProfileTier) Max() float64 {
	return math.Max(p.Full, math.Max(p.Partial, p.None))
}
