// Package config loads the runtime configuration from a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Username string
	LogLevel string
	GitHub   GitHubConfig
	Collect  CollectConfig
	Scoring  ScoringConfig
}

type GitHubConfig struct {
	Token      string
	APIURL     string
	GraphQLURL string
}

type CollectConfig struct {
	Concurrency       int
	MaxPages          int
	RequestTimeout    time.Duration
	Deadline          time.Duration
	RequestsPerSecond float64
}

type ScoringConfig struct {
	ActivityPolicy   string
	EngagementPolicy string
	// RulesPath is an optional YAML file layered over the built-in rules.
	RulesPath string
}

// Load reads the given .env files (".env" when none are named), then builds the
// configuration from environment variables. A missing .env file is not an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := &Config{
		Username: getEnv("GITHUB_SCORE_USER", ""),
		LogLevel: getEnv("LOG_LEVEL", ""),
		GitHub: GitHubConfig{
			Token:      getEnv("GITHUB_TOKEN", ""),
			APIURL:     getEnv("GITHUB_API_URL", ""),
			GraphQLURL: getEnv("GITHUB_GRAPHQL_URL", ""),
		},
		Scoring: ScoringConfig{
			ActivityPolicy:   getEnv("SCORE_ACTIVITY_POLICY", "pull-requests"),
			EngagementPolicy: getEnv("SCORE_ENGAGEMENT_POLICY", "social"),
			RulesPath:        getEnv("SCORE_RULES", ""),
		},
	}

	var err error
	if cfg.Collect.Concurrency, err = getEnvAsInt("SCORE_CONCURRENCY", 4); err != nil {
		return nil, err
	}
	if cfg.Collect.MaxPages, err = getEnvAsInt("SCORE_MAX_PAGES", 50); err != nil {
		return nil, err
	}
	if cfg.Collect.RequestTimeout, err = getEnvAsDuration("SCORE_REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.Collect.Deadline, err = getEnvAsDuration("SCORE_DEADLINE", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.Collect.RequestsPerSecond, err = getEnvAsFloat("SCORE_RPS", 0); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the limits. Policy names are checked where the policies are built.
func (c *Config) Validate() error {
	switch {
	case c.Username == "":
		return errors.New("a GitHub username is required")
	case c.Collect.Concurrency < 1:
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Collect.Concurrency)
	case c.Collect.MaxPages < 1:
		return fmt.Errorf("max pages must be at least 1, got %d", c.Collect.MaxPages)
	case c.Collect.RequestTimeout <= 0:
		return fmt.Errorf("request timeout must be positive, got %s", c.Collect.RequestTimeout)
	case c.Collect.Deadline <= 0:
		return fmt.Errorf("deadline must be positive, got %s", c.Collect.Deadline)
	case c.Collect.RequestsPerSecond < 0:
		return fmt.Errorf("requests per second must not be negative, got %g", c.Collect.RequestsPerSecond)
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
