package gateway

import (
	"context"

	"github.com/google/go-github/v62/github"
)

const (
	perPage = 100
	// DefaultMaxPages bounds every list call when no limit is configured.
	DefaultMaxPages = 50
)

// pageFunc fetches one page and reports how many items it held.
type pageFunc func(opts github.ListOptions) (int, *github.Response, error)

// paginate walks a list endpoint from page 1 with per_page=100.
// It stops on the first error, on an empty page, on a short page that has no
// next link, or after maxPages pages.
func (g *GitHubGateway) paginate(ctx context.Context, what string, fetch pageFunc) error {
	maxPages := g.maxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	opts := github.ListOptions{PerPage: perPage}
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		opts.Page = page
		n, resp, err := fetch(opts)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if resp.NextPage == 0 && n < perPage {
			return nil
		}
		if page >= maxPages {
			g.logger.Warnf("Stopped listing %s after %d pages.", what, maxPages)
			return nil
		}
		g.logger.Debugf("  Fetching next page of %s...", what)
	}
}
