// Package classify decides whether a repository looks complex, innovative or
// high-impact.
package classify

import (
	"strings"

	"github.com/naka-gawa/github-score/internal/domain"
	"github.com/naka-gawa/github-score/internal/scoring"
)

// ProjectClassifier judges a repository from its metadata.
type ProjectClassifier interface {
	IsComplex(repo domain.RepositoryRecord) bool
	IsInnovative(repo domain.RepositoryRecord) bool
	IsHighImpact(repo domain.RepositoryRecord) bool
}

// KeywordClassifier matches the repository description against fixed phrase lists.
type KeywordClassifier struct {
	complex    []string
	innovative []string
	highImpact []string
}

// NewKeywordClassifier builds a classifier from the keyword families of a rule set.
func NewKeywordClassifier(k scoring.Keywords) *KeywordClassifier {
	return &KeywordClassifier{
		complex:    lower(k.Complex),
		innovative: lower(k.Innovative),
		highImpact: lower(k.HighImpact),
	}
}

func (c *KeywordClassifier) IsComplex(repo domain.RepositoryRecord) bool {
	return MatchKeywords(repo.Description, c.complex)
}

func (c *KeywordClassifier) IsInnovative(repo domain.RepositoryRecord) bool {
	return MatchKeywords(repo.Description, c.innovative)
}

func (c *KeywordClassifier) IsHighImpact(repo domain.RepositoryRecord) bool {
	return MatchKeywords(repo.Description, c.highImpact)
}

// MatchKeywords reports whether text contains any keyword, ignoring case.
// Empty text matches nothing; empty keywords are skipped.
func MatchKeywords(text string, keywords []string) bool {
	if text == "" {
		return false
	}
	text = strings.ToLower(text)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func lower(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}
