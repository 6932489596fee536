package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	perrors "portfolio.dev/portfolio/internal/errors"
	"portfolio.dev/portfolio/internal/stats"
)

// Defaults
const (
	DefaultAddr    = ":3000"
	DefaultDistDir = "dist"
	DefaultLang    = "pt"
)

// File is the on-disk configuration. Unset fields keep their defaults.
type File struct {
	Addr                  *string  `json:"addr,omitempty"`
	DistDir               *string  `json:"distDir,omitempty"`
	Lang                  *string  `json:"lang,omitempty"`
	SiteFile              *string  `json:"siteFile,omitempty"`
	GitHubUser            *string  `json:"githubUser,omitempty"`
	GitHubAPIURL          *string  `json:"githubApiUrl,omitempty"`
	LinkedInFollowers     *int64   `json:"linkedinFollowers,omitempty"`
	CounterURL            *string  `json:"visitorCounterUrl,omitempty"`
	CounterDomain         *string  `json:"visitorCounterDomain,omitempty"`
	CompareDomain         *string  `json:"visitorCounterCompareDomain,omitempty"`
	GitHubCounterDomain   *string  `json:"githubCounterDomain,omitempty"`
	LinkedInCounterDomain *string  `json:"linkedinCounterDomain,omitempty"`
	StudioDomains         []string `json:"studioDomains,omitempty"`
	Timeout               *string  `json:"timeout,omitempty"`
}

// Config is the resolved configuration.
type Config struct {
	Addr     string
	DistDir  string
	Lang     string
	SiteFile string

	GitHubToken  string
	GitHubUser   string
	GitHubAPIURL string
	// LinkedInFollowers overrides the counter-derived LinkedIn count when set.
	LinkedInFollowers *int64

	CounterURL            string
	CounterDomain         string
	CompareDomain         string
	GitHubCounterDomain   string
	LinkedInCounterDomain string
	StudioDomains         []string
	Timeout               time.Duration
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Addr:                  DefaultAddr,
		DistDir:               DefaultDistDir,
		Lang:                  DefaultLang,
		GitHubUser:            stats.DefaultGitHubUser,
		CounterURL:            stats.DefaultCounterEndpoint,
		GitHubCounterDomain:   stats.DefaultGitHubCounterDomain,
		LinkedInCounterDomain: stats.DefaultLinkedInCounterDomain,
		StudioDomains:         append([]string(nil), stats.DefaultStudioDomains...),
		Timeout:               stats.DefaultTimeout,
	}
}

// Load resolves the configuration. An empty path skips the file layer; a missing file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		var file File
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if err := cfg.apply(file); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) apply(f File) error {
	setString(&c.Addr, f.Addr)
	setString(&c.DistDir, f.DistDir)
	setString(&c.Lang, f.Lang)
	setString(&c.SiteFile, f.SiteFile)
	setString(&c.GitHubUser, f.GitHubUser)
	setString(&c.GitHubAPIURL, f.GitHubAPIURL)
	setString(&c.CounterURL, f.CounterURL)
	setString(&c.CounterDomain, f.CounterDomain)
	setString(&c.CompareDomain, f.CompareDomain)
	setString(&c.GitHubCounterDomain, f.GitHubCounterDomain)
	setString(&c.LinkedInCounterDomain, f.LinkedInCounterDomain)

	if f.LinkedInFollowers != nil {
		if *f.LinkedInFollowers < 0 {
			return &perrors.ConfigError{Key: "linkedinFollowers", Value: strconv.FormatInt(*f.LinkedInFollowers, 10), Err: errNegative}
		}
		v := *f.LinkedInFollowers
		c.LinkedInFollowers = &v
	}
	if f.StudioDomains != nil {
		c.StudioDomains = f.StudioDomains
	}
	if f.Timeout != nil {
		d, err := parseTimeout(*f.Timeout)
		if err != nil {
			return &perrors.ConfigError{Key: "timeout", Value: *f.Timeout, Err: err}
		}
		c.Timeout = d
	}
	return nil
}

var errNegative = errors.New("must not be negative")

// applyEnv overlays environment variables. Empty values are ignored.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	env := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	vars := []struct {
		key string
		dst *string
	}{
		{"GITHUB_TOKEN", &c.GitHubToken},
		{"GITHUB_USER", &c.GitHubUser},
		{"GITHUB_API_URL", &c.GitHubAPIURL},
		{"VISITOR_COUNTER_API_URL", &c.CounterURL},
		{"VISITOR_COUNTER_DOMAIN", &c.CounterDomain},
		{"VISITOR_COUNTER_COMPARE_DOMAIN", &c.CompareDomain},
		{"VISITOR_COUNTER_GITHUB_DOMAIN", &c.GitHubCounterDomain},
		{"VISITOR_COUNTER_LINKEDIN_DOMAIN", &c.LinkedInCounterDomain},
		{"PORTFOLIO_ADDR", &c.Addr},
		{"PORTFOLIO_DIST_DIR", &c.DistDir},
		{"PORTFOLIO_LANG", &c.Lang},
		{"PORTFOLIO_SITE_FILE", &c.SiteFile},
	}
	for _, s := range vars {
		if v, ok := env(s.key); ok {
			*s.dst = v
		}
	}

	if v, ok := env("LINKEDIN_FOLLOWERS"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return &perrors.ConfigError{Key: "LINKEDIN_FOLLOWERS", Value: v, Err: err}
		}
		if n < 0 {
			return &perrors.ConfigError{Key: "LINKEDIN_FOLLOWERS", Value: v, Err: errNegative}
		}
		c.LinkedInFollowers = &n
	}
	if v, ok := env("PORTFOLIO_TIMEOUT"); ok {
		d, err := parseTimeout(v)
		if err != nil {
			return &perrors.ConfigError{Key: "PORTFOLIO_TIMEOUT", Value: v, Err: err}
		}
		c.Timeout = d
	}
	return nil
}

func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errors.New("must be positive")
	}
	return d, nil
}

func setString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

// SocialConfig returns the settings of the social aggregator.
func (c *Config) SocialConfig() stats.SocialConfig {
	return stats.SocialConfig{
		GitHubUser:            c.GitHubUser,
		LinkedInFollowers:     c.LinkedInFollowers,
		GitHubCounterDomain:   c.GitHubCounterDomain,
		LinkedInCounterDomain: c.LinkedInCounterDomain,
		Timeout:               c.Timeout,
	}
}

// VisitConfig returns the settings of the visit aggregator.
func (c *Config) VisitConfig() stats.VisitConfig {
	return stats.VisitConfig{
		Domain:        c.CounterDomain,
		CompareDomain: c.CompareDomain,
		StudioDomains: c.StudioDomains,
		Timeout:       c.Timeout,
	}
}
