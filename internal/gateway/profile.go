package gateway

import (
	"context"
	"fmt"

	"github.com/naka-gawa/github-score/internal/domain"
	"github.com/shurcooL/githubv4"
)

// userProfileQuery fetches the profile fields and social-graph counts in one round trip.
type userProfileQuery struct {
	User struct {
		Login     string
		Name      string
		Email     string
		Bio       string
		AvatarURL string `graphql:"avatarUrl"`
		Followers struct {
			TotalCount int
		}
		Following struct {
			TotalCount int
		}
	} `graphql:"user(login: $login)"`
}

// FetchProfile reads the user's public profile.
// GraphQL is used when the gateway is authenticated, the REST users endpoint otherwise.
func (g *GitHubGateway) FetchProfile(ctx context.Context, user string) (domain.Profile, error) {
	if g.graphqlClient != nil {
		return g.fetchProfileGraphQL(ctx, user)
	}
	g.logger.Debugf("Fetching profile of %s using REST API...", user)
	u, _, err := g.restClient.Users.Get(ctx, user)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("failed to get profile of %s with REST API: %w", user, err)
	}
	return domain.Profile{
		Login:     u.GetLogin(),
		Name:      u.GetName(),
		Email:     u.GetEmail(),
		Bio:       u.GetBio(),
		AvatarURL: u.GetAvatarURL(),
		Followers: u.GetFollowers(),
		Following: u.GetFollowing(),
	}, nil
}

func (g *GitHubGateway) fetchProfileGraphQL(ctx context.Context, user string) (domain.Profile, error) {
	g.logger.Debugf("Fetching profile of %s using GraphQL API...", user)
	var q userProfileQuery
	variables := map[string]interface{}{"login": githubv4.String(user)}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return domain.Profile{}, fmt.Errorf("failed to execute GraphQL query for profile of %s: %w", user, err)
	}
	return domain.Profile{
		Login:     q.User.Login,
		Name:      q.User.Name,
		Email:     q.User.Email,
		Bio:       q.User.Bio,
		AvatarURL: q.User.AvatarURL,
		Followers: q.User.Followers.TotalCount,
		Following: q.User.Following.TotalCount,
	}, nil
}
