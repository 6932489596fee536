package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"portfolio.dev/portfolio/internal/config"
	"portfolio.dev/portfolio/internal/i18n"
	"portfolio.dev/portfolio/internal/output"
	"portfolio.dev/portfolio/internal/site"
	"portfolio.dev/portfolio/internal/stats"
)

// Options select how a Context is built.
type Options struct {
	ConfigPath string
	LogFile    string
	Verbose    bool
	// Lang overrides the configured language when set.
	Lang   string
	Writer io.Writer
	// HTTPClient is used for upstream calls. Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// Context provides access to configuration, output and content for commands
type Context struct {
	Config *config.Config
	Splog  *output.Splog
	Site   *site.Site
	Lang   string

	httpClient *http.Client

	once      sync.Once
	collector *stats.Collector
	err       error
}

// NewContext creates a context from already resolved parts
func NewContext(cfg *config.Config, splog *output.Splog, s *site.Site) *Context {
	return &Context{
		Config: cfg,
		Splog:  splog,
		Site:   s,
		Lang:   i18n.Match(cfg.Lang),
	}
}

// GetContext loads configuration, opens logging and loads the site content.
func GetContext(opts Options) (*Context, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	splog, err := output.NewSplogWithOptions(output.SplogOptions{
		Writer:  opts.Writer,
		LogFile: opts.LogFile,
		Verbose: opts.Verbose,
	})
	if err != nil {
		return nil, err
	}

	var s *site.Site
	if cfg.SiteFile != "" {
		s, err = site.LoadFile(cfg.SiteFile)
	} else {
		s, err = site.Load()
	}
	if err != nil {
		_ = splog.Close()
		return nil, err
	}

	c := NewContext(cfg, splog, s)
	if opts.Lang != "" {
		c.Lang = i18n.Match(opts.Lang)
	}
	c.httpClient = opts.HTTPClient
	return c, nil
}

// Logger returns the structured logger for library code.
func (c *Context) Logger() *slog.Logger {
	return c.Splog.Logger()
}

// Collector returns the statistics collector, built on first use. The visit guard lives as
// long as the context, so a long-running server records each visit once per day.
func (c *Context) Collector(ctx context.Context) (*stats.Collector, error) {
	c.once.Do(func() {
		c.collector, c.err = c.buildCollector(ctx)
	})
	return c.collector, c.err
}

func (c *Context) buildCollector(ctx context.Context) (*stats.Collector, error) {
	logger := c.Logger()

	github, err := stats.NewGitHubSource(ctx, stats.GitHubOptions{
		Token:      c.Config.GitHubToken,
		BaseURL:    c.Config.GitHubAPIURL,
		HTTPClient: c.httpClient,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	counter := stats.NewVisitCounter(c.Config.CounterURL, c.httpClient, logger)

	return &stats.Collector{
		Social: stats.NewSocialAggregator(github, counter, c.Config.SocialConfig(), logger),
		Visits: stats.NewVisitAggregator(counter, stats.NewGuard(nil), c.Config.VisitConfig(), logger),
	}, nil
}

// Renderer returns a renderer for the site content.
func (c *Context) Renderer() (*site.Renderer, error) {
	return site.NewRenderer(c.Site, c.Logger())
}

// Close releases the log file.
func (c *Context) Close() error {
	return c.Splog.Close()
}
