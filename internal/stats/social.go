package stats

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultGitHubUser            = "dev-matheusfelipe"
	DefaultGitHubCounterDomain   = "github.com/dev-matheusfelipe"
	DefaultLinkedInCounterDomain = "linkedin.com/in/dev-matheusfelipe"
	DefaultTimeout               = 5 * time.Second
)

// LinkedIn follower provenance reported in snapshots.
const (
	LinkedInSourceEnv     = "env"
	LinkedInSourceCounter = "visitor_counter_or_default"
)

// FollowerSource reads a follower count for a user.
type FollowerSource interface {
	Followers(ctx context.Context, user string) Count
}

// CounterReader reads visit counter metrics.
type CounterReader interface {
	Get(ctx context.Context, domain string) (Metric, error)
}

// SocialConfig configures a SocialAggregator.
type SocialConfig struct {
	GitHubUser string
	// LinkedInFollowers, when set, is reported instead of the counter total.
	LinkedInFollowers     *int64
	GitHubCounterDomain   string
	LinkedInCounterDomain string
	Timeout               time.Duration
}

func (c SocialConfig) withDefaults() SocialConfig {
	if c.GitHubUser == "" {
		c.GitHubUser = DefaultGitHubUser
	}
	if c.GitHubCounterDomain == "" {
		c.GitHubCounterDomain = DefaultGitHubCounterDomain
	}
	if c.LinkedInCounterDomain == "" {
		c.LinkedInCounterDomain = DefaultLinkedInCounterDomain
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Sources names where each follower count came from.
type Sources struct {
	GitHub   string `json:"github"`
	LinkedIn string `json:"linkedin"`
}

// SocialSnapshot is one aggregated reading of the social counters.
type SocialSnapshot struct {
	GitHubFollowers   Count
	LinkedInFollowers Count
	GitHubToday       Count
	LinkedInToday     Count
	Sources           Sources
	CollectedAt       time.Time
}

// SocialAggregator merges the GitHub API and the visitor counter into follower counts.
type SocialAggregator struct {
	github  FollowerSource
	counter CounterReader
	cfg     SocialConfig
	logger  *slog.Logger
}

// NewSocialAggregator creates an aggregator over the given sources.
func NewSocialAggregator(github FollowerSource, counter CounterReader, cfg SocialConfig, logger *slog.Logger) *SocialAggregator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SocialAggregator{github: github, counter: counter, cfg: cfg.withDefaults(), logger: logger}
}

// Collect queries every source concurrently. Failures leave the affected count unavailable.
func (a *SocialAggregator) Collect(ctx context.Context) SocialSnapshot {
	snap := SocialSnapshot{
		Sources: Sources{GitHub: GitHubSourceName, LinkedIn: LinkedInSourceCounter},
	}

	var g errgroup.Group
	g.Go(func() error {
		ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
		snap.GitHubFollowers = a.github.Followers(ctx, a.cfg.GitHubUser)
		return nil
	})
	g.Go(func() error {
		m := a.read(ctx, a.cfg.GitHubCounterDomain)
		snap.GitHubToday = m.Today
		return nil
	})
	g.Go(func() error {
		m := a.read(ctx, a.cfg.LinkedInCounterDomain)
		snap.LinkedInToday = m.Today
		if a.cfg.LinkedInFollowers == nil {
			snap.LinkedInFollowers = m.Total
		}
		return nil
	})
	_ = g.Wait()

	if a.cfg.LinkedInFollowers != nil {
		snap.LinkedInFollowers = Available(*a.cfg.LinkedInFollowers)
		snap.Sources.LinkedIn = LinkedInSourceEnv
	}
	snap.CollectedAt = time.Now()

	a.logger.Debug("social stats collected",
		"github_followers", snap.GitHubFollowers,
		"linkedin_followers", snap.LinkedInFollowers,
		"linkedin_source", snap.Sources.LinkedIn)
	return snap
}

func (a *SocialAggregator) read(ctx context.Context, domain string) Metric {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	m, err := a.counter.Get(ctx, domain)
	if err != nil {
		return Metric{Total: Unavailable(err), Today: Unavailable(err)}
	}
	return m
}
