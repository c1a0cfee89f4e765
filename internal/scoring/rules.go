package scoring

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Tiers groups the threshold table of every step-function sub-score.
type Tiers struct {
	RepositoryCount   Tier `yaml:"repository_count"`
	LanguageDiversity Tier `yaml:"language_diversity"`
	Complexity        Tier `yaml:"complexity"`
	Readability       Tier `yaml:"readability"`
	Commenting        Tier `yaml:"commenting"`
	BestPractices     Tier `yaml:"best_practices"`
	Originality       Tier `yaml:"originality"`
	Impact            Tier `yaml:"impact"`
}

// Keywords are the phrase families used by the keyword classifier.
type Keywords struct {
	Complex    []string `yaml:"complex"`
	Innovative []string `yaml:"innovative"`
	HighImpact []string `yaml:"high_impact"`
}

// Rules is the complete scoring configuration.
type Rules struct {
	Name                   string      `yaml:"name"`
	Version                int         `yaml:"version"`
	Description            string      `yaml:"description"`
	Tiers                  Tiers       `yaml:"tiers"`
	Profile                ProfileTier `yaml:"profile"`
	ActivityCurve          Curve       `yaml:"activity_curve"`
	ReadmeMinLength        int         `yaml:"readme_min_length"`
	RegularCommitThreshold int         `yaml:"regular_commit_threshold"`
	Keywords               Keywords    `yaml:"keywords"`
}

// LoadBuiltin loads a built-in rule set by name.
func LoadBuiltin(name string) (*Rules, error) {
	data, err := builtinFS.ReadFile("builtin/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("scoring.LoadBuiltin: unknown rules %q: %w", name, err)
	}
	r, err := parse(data, &Rules{})
	if err != nil {
		return nil, fmt.Errorf("scoring.LoadBuiltin: parse %q: %w", name, err)
	}
	return r, nil
}

// Default returns the built-in default rules. It panics if the embedded file is broken.
func Default() *Rules {
	r, err := LoadBuiltin("default")
	if err != nil {
		panic(err)
	}
	return r
}

// LoadFile reads rules from a YAML file layered over the default rules.
// Keys the file omits keep their default value; a list given in the file
// replaces the default list. Unknown keys are rejected.
func LoadFile(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scoring.LoadFile: %w", err)
	}
	r, err := parse(data, Default())
	if err != nil {
		return nil, fmt.Errorf("scoring.LoadFile: parse %q: %w", path, err)
	}
	return r, nil
}

// parse decodes data onto base and validates the result.
func parse(data []byte, base *Rules) (*Rules, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(base); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}
	return base, nil
}

// ErrInvalidRules is returned by Validate.
var ErrInvalidRules = errors.New("invalid scoring rules")

// Validate checks that every table is ordered and every bound is sane.
func (r *Rules) Validate() error {
	tiers := map[string]Tier{
		"repository_count":   r.Tiers.RepositoryCount,
		"language_diversity": r.Tiers.LanguageDiversity,
		"complexity":         r.Tiers.Complexity,
		"readability":        r.Tiers.Readability,
		"commenting":         r.Tiers.Commenting,
		"best_practices":     r.Tiers.BestPractices,
		"originality":        r.Tiers.Originality,
		"impact":             r.Tiers.Impact,
	}
	for name, t := range tiers {
		if t.Mid < 0 || t.High < t.Mid {
			return fmt.Errorf("%w: tier %s needs high >= mid >= 0, got high=%d mid=%d", ErrInvalidRules, name, t.High, t.Mid)
		}
		if t.Max() <= 0 {
			return fmt.Errorf("%w: tier %s awards no points", ErrInvalidRules, name)
		}
	}
	if r.Profile.Max() <= 0 {
		return fmt.Errorf("%w: profile awards no points", ErrInvalidRules)
	}
	c := r.ActivityCurve
	if c.Scale < 0 || c.Max <= 0 || c.Max < c.Base {
		return fmt.Errorf("%w: activity curve needs scale >= 0 and max >= base with max > 0", ErrInvalidRules)
	}
	if r.ReadmeMinLength < 0 {
		return fmt.Errorf("%w: readme_min_length must not be negative", ErrInvalidRules)
	}
	if r.RegularCommitThreshold < 1 {
		return fmt.Errorf("%w: regular_commit_threshold must be at least 1", ErrInvalidRules)
	}
	return nil
}
