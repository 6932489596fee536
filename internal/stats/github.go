package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	perrors "portfolio.dev/portfolio/internal/errors"
)

// GitHubSourceName identifies the GitHub API in snapshots.
const GitHubSourceName = "api.github.com"

var errNoFollowers = errors.New("followers field missing")

// GitHubSource reads follower counts from the GitHub users API.
type GitHubSource struct {
	client *github.Client
	logger *slog.Logger
}

// GitHubOptions configure a GitHubSource.
type GitHubOptions struct {
	// Token authenticates requests when set.
	Token string
	// BaseURL overrides the REST API root, e.g. for tests.
	BaseURL string
	// HTTPClient is the underlying transport. Defaults to http.DefaultClient.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewGitHubSource creates a GitHub client. Requests are anonymous unless a token is given.
func NewGitHubSource(ctx context.Context, opts GitHubOptions) (*GitHubSource, error) {
	httpClient := opts.HTTPClient
	if opts.Token != "" {
		if httpClient != nil {
			ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		}
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: opts.Token},
		)
		httpClient = oauth2.NewClient(ctx, ts)
	}
	client := github.NewClient(httpClient)

	if opts.BaseURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("failed to parse GitHub base URL %s: %w", opts.BaseURL, err)
		}
		client.BaseURL = baseURL
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GitHubSource{client: client, logger: logger}, nil
}

// Followers returns the follower count of user.
func (s *GitHubSource) Followers(ctx context.Context, user string) Count {
	u, resp, err := s.client.Users.Get(ctx, user)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		s.logger.Debug("github user lookup failed", "user", user, "status", status, "error", err)
		return Unavailable(perrors.NewUpstreamError(GitHubSourceName, status, err))
	}
	if u.Followers == nil {
		return Unavailable(perrors.NewUpstreamError(GitHubSourceName, resp.StatusCode, errNoFollowers))
	}
	return Available(int64(u.GetFollowers()))
}
