// Package report renders a scoring run for the console.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/naka-gawa/github-score/internal/domain"
)

// Result is everything a run produced.
type Result struct {
	Username  string                   `json:"username"`
	Counters  domain.AggregateCounters `json:"counters"`
	Breakdown domain.ScoreBreakdown    `json:"breakdown"`
}

// WriteJSON writes the result as indented JSON.
func WriteJSON(w io.Writer, r Result) error {
	jsonData, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

// WriteText writes one line per aggregate and per sub-score, then the total.
func WriteText(w io.Writer, r Result) error {
	c := r.Counters
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	lines := [][2]interface{}{
		{"Total repositories", c.TotalRepos},
		{"Diverse languages", len(c.Languages)},
		{"Complex projects", c.ComplexProjects},
		{"Detailed docs", c.DetailedDocs},
		{"Best practices count", c.BestPractices},
	}
	switch c.ActivityPolicy {
	case domain.ActivityCommits:
		lines = append(lines,
			[2]interface{}{"Commits", c.Commits},
			[2]interface{}{"Regularly active repositories", c.RegularCommitRepos},
			[2]interface{}{"Collaborative repositories", c.CollaborativeRepos},
		)
	default:
		lines = append(lines,
			[2]interface{}{"Forked repositories", c.ForkedRepos},
			[2]interface{}{"Forks received", c.ForksReceived},
			[2]interface{}{"Pull requests generated", c.PullRequestsGenerated},
			[2]interface{}{"Pull requests merged", c.PullRequestsMerged},
		)
	}
	lines = append(lines,
		[2]interface{}{"Innovative projects", c.InnovativeProjects},
		[2]interface{}{"High impact projects", c.HighImpactProjects},
	)
	for _, l := range lines {
		fmt.Fprintf(tw, "%s:\t%v\n", l[0], l[1])
	}

	fmt.Fprintln(tw)
	for _, s := range r.Breakdown.Scores {
		fmt.Fprintf(tw, "  %s\t%.2f / %g\n", s.Name, s.Value, s.Max)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	b := r.Breakdown
	_, err := fmt.Fprintf(w, "\nThe total score for %s is: %.2f (%.1f/100)\n", r.Username, b.Total, b.Normalized)
	return err
}
