// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/naka-gawa/github-score/internal/classify"
	"github.com/naka-gawa/github-score/internal/config"
	"github.com/naka-gawa/github-score/internal/gateway"
	"github.com/naka-gawa/github-score/internal/logger"
	"github.com/naka-gawa/github-score/internal/report"
	"github.com/naka-gawa/github-score/internal/scoring"
	"github.com/naka-gawa/github-score/internal/usecase"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score [username]",
	Short: "Computes the quality score of a GitHub account",
	Long: `Collects repository and profile signals for a GitHub user and prints every
aggregate, every sub-score and the total. Remote failures lower the score but
never abort the run. The username may also come from GITHUB_SCORE_USER.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScore,
}

func runScore(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	envFile, _ := flags.GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.Username = args[0]
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	output, _ := flags.GetString("output")
	if output != "text" && output != "json" {
		return fmt.Errorf("unknown output format %q (want text or json)", output)
	}

	// Get the verbose flag from the root command to set up the logger.
	verbose, _ := cmd.InheritedFlags().GetBool("verbose")
	log := logger.New(cmd.ErrOrStderr(), cfg.LogLevel, verbose).
		WithField("run_id", uuid.NewString())

	rules := scoring.Default()
	if cfg.Scoring.RulesPath != "" {
		if rules, err = scoring.LoadFile(cfg.Scoring.RulesPath); err != nil {
			return err
		}
	}
	activity, err := usecase.NewActivityPolicy(cfg.Scoring.ActivityPolicy, rules.RegularCommitThreshold)
	if err != nil {
		return err
	}
	engagement, err := usecase.NewEngagementPolicy(cfg.Scoring.EngagementPolicy)
	if err != nil {
		return err
	}

	// Inject dependencies and run the main business logic.
	githubGateway, err := gateway.NewGitHubGateway(gateway.Options{
		Token:             cfg.GitHub.Token,
		BaseURL:           cfg.GitHub.APIURL,
		GraphQLURL:        cfg.GitHub.GraphQLURL,
		RequestTimeout:    cfg.Collect.RequestTimeout,
		RequestsPerSecond: cfg.Collect.RequestsPerSecond,
		MaxPages:          cfg.Collect.MaxPages,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	if cfg.GitHub.Token == "" {
		log.Warn("GITHUB_TOKEN is not set, using the anonymous rate limit")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Collect.Deadline)
	defer cancel()

	collector := usecase.NewCollector(githubGateway, classify.NewKeywordClassifier(rules.Keywords), activity, rules, cfg.Collect.Concurrency, log)
	counters := collector.Collect(ctx, cfg.Username)

	scorer := usecase.NewScorer(githubGateway, rules, activity, engagement, log)
	breakdown := scorer.Score(ctx, cfg.Username, counters)

	result := report.Result{Username: cfg.Username, Counters: counters, Breakdown: breakdown}
	if output == "json" {
		return report.WriteJSON(cmd.OutOrStdout(), result)
	}
	return report.WriteText(cmd.OutOrStdout(), result)
}

// applyFlags lets explicitly set flags override the environment.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error
	set := func(name string, apply func() error) {
		if err == nil && flags.Changed(name) {
			err = apply()
		}
	}
	set("api-url", func() (e error) { cfg.GitHub.APIURL, e = flags.GetString("api-url"); return })
	set("graphql-url", func() (e error) { cfg.GitHub.GraphQLURL, e = flags.GetString("graphql-url"); return })
	set("activity", func() (e error) { cfg.Scoring.ActivityPolicy, e = flags.GetString("activity"); return })
	set("engagement", func() (e error) { cfg.Scoring.EngagementPolicy, e = flags.GetString("engagement"); return })
	set("rules", func() (e error) { cfg.Scoring.RulesPath, e = flags.GetString("rules"); return })
	set("concurrency", func() (e error) { cfg.Collect.Concurrency, e = flags.GetInt("concurrency"); return })
	set("max-pages", func() (e error) { cfg.Collect.MaxPages, e = flags.GetInt("max-pages"); return })
	set("timeout", func() (e error) { cfg.Collect.RequestTimeout, e = flags.GetDuration("timeout"); return })
	set("deadline", func() (e error) { cfg.Collect.Deadline, e = flags.GetDuration("deadline"); return })
	set("rps", func() (e error) { cfg.Collect.RequestsPerSecond, e = flags.GetFloat64("rps"); return })
	return err
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	f := scoreCmd.Flags()
	f.StringP("output", "o", "text", "Output format: text or json")
	f.String("env-file", ".env", "Optional .env file to load before reading the environment")
	f.String("api-url", "", "GitHub REST API base URL (default https://api.github.com/)")
	f.String("graphql-url", "", "GitHub GraphQL endpoint, used only with GITHUB_TOKEN")
	f.String("activity", usecase.ActivityPullRequests, "Activity policy: pull-requests or commits")
	f.String("engagement", usecase.EngagementSocial, "Engagement policy: social or repository")
	f.String("rules", "", "YAML file overriding parts of the built-in scoring rules")
	f.Int("concurrency", usecase.DefaultConcurrency, "Repositories inspected at once")
	f.Int("max-pages", gateway.DefaultMaxPages, "Upper bound on pages fetched from any list endpoint")
	f.Duration("timeout", 0, "Per-request timeout (default 30s)")
	f.Duration("deadline", 0, "Overall deadline for the run (default 5m)")
	f.Float64("rps", 0, "Maximum requests per second, 0 for no pacing")
}
