package runtime_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"portfolio.dev/portfolio/internal/runtime"
	"portfolio.dev/portfolio/internal/stats"
	"portfolio.dev/portfolio/testhelpers"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GITHUB_TOKEN", "GITHUB_USER", "GITHUB_API_URL", "LINKEDIN_FOLLOWERS",
		"VISITOR_COUNTER_API_URL", "VISITOR_COUNTER_DOMAIN", "VISITOR_COUNTER_COMPARE_DOMAIN",
		"VISITOR_COUNTER_GITHUB_DOMAIN", "VISITOR_COUNTER_LINKEDIN_DOMAIN",
		"PORTFOLIO_ADDR", "PORTFOLIO_DIST_DIR", "PORTFOLIO_LANG", "PORTFOLIO_SITE_FILE", "PORTFOLIO_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
}

func TestGetContext(t *testing.T) {
	clearEnv(t)

	t.Run("defaults", func(t *testing.T) {
		var buf bytes.Buffer
		rc, err := runtime.GetContext(runtime.Options{Writer: &buf})
		require.NoError(t, err)
		defer rc.Close()

		require.Equal(t, "pt", rc.Lang)
		require.Len(t, rc.Site.Sections, 7)

		rc.Splog.Info("ready")
		require.Equal(t, "ready\n", buf.String())

		r, err := rc.Renderer()
		require.NoError(t, err)
		require.NotEmpty(t, r.Overlay(true))
	})

	t.Run("language flag wins", func(t *testing.T) {
		t.Setenv("PORTFOLIO_LANG", "pt")
		rc, err := runtime.GetContext(runtime.Options{Writer: &bytes.Buffer{}, Lang: "en-GB"})
		require.NoError(t, err)
		defer rc.Close()
		require.Equal(t, "en", rc.Lang)
	})

	t.Run("site file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "site.yaml")
		require.NoError(t, os.WriteFile(path, []byte("sections:\n  - {id: hero, height: 200}\n"), 0o600))
		t.Setenv("PORTFOLIO_SITE_FILE", path)

		rc, err := runtime.GetContext(runtime.Options{Writer: &bytes.Buffer{}})
		require.NoError(t, err)
		defer rc.Close()
		require.Equal(t, 200.0, rc.Site.Height())
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Setenv("LINKEDIN_FOLLOWERS", "lots")
		_, err := runtime.GetContext(runtime.Options{Writer: &bytes.Buffer{}})
		require.Error(t, err)
	})
}

func TestCollector(t *testing.T) {
	clearEnv(t)

	gh := testhelpers.NewMockGitHubServer(t, testhelpers.NewMockGitHubServerConfig().WithFollowers(stats.DefaultGitHubUser, 70))
	counterConfig := testhelpers.NewMockCounterConfig().
		WithCounts("me.dev", 10, 2).
		WithCounts(stats.DefaultLinkedInCounterDomain, 30, 1).
		WithCounts(stats.DefaultGitHubCounterDomain, 5, 0)
	counter := testhelpers.NewMockCounterServer(t, counterConfig)

	t.Setenv("GITHUB_API_URL", gh.URL)
	t.Setenv("VISITOR_COUNTER_API_URL", counter.URL)
	t.Setenv("VISITOR_COUNTER_DOMAIN", "me.dev")

	rc, err := runtime.GetContext(runtime.Options{Writer: &bytes.Buffer{}})
	require.NoError(t, err)
	defer rc.Close()

	ctx := context.Background()
	collector, err := rc.Collector(ctx)
	require.NoError(t, err)

	again, err := rc.Collector(ctx)
	require.NoError(t, err)
	require.Same(t, collector, again)

	d := collector.Collect(ctx, stats.VisitRequest{Path: "/"})
	require.Equal(t, stats.Available(70), d.Social.GitHubFollowers)
	require.Equal(t, stats.Available(30), d.Social.LinkedInFollowers)
	require.Equal(t, stats.Available(10), d.Visits.Portfolio.Total)
	require.True(t, d.Visits.Partial, "studio domains are not served by the mock")
}
