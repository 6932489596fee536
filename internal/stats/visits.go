package stats

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultStudioDomains are always compared against the portfolio.
var DefaultStudioDomains = []string{"rizzer-studio-site.vercel.app", "rizzer-studio.vercel.app"}

// VisitRecorder reads and records visit counter metrics.
type VisitRecorder interface {
	CounterReader
	Record(ctx context.Context, v Visit) (Metric, error)
}

// VisitConfig configures a VisitAggregator.
type VisitConfig struct {
	// Domain is the portfolio domain. Empty uses the request host.
	Domain        string
	CompareDomain string
	StudioDomains []string
	Timezone      string
	Timeout       time.Duration
}

// VisitRequest describes the page view being served.
type VisitRequest struct {
	Host     string
	Path     string
	Title    string
	Referrer string
}

// VisitSnapshot is one aggregated reading of the visit counters.
type VisitSnapshot struct {
	Portfolio Metric `json:"portfolio"`
	Studio    Metric `json:"rizzerStudio"`
	Combined  Metric `json:"combined"`
	// HasError is set when no request returned data.
	HasError bool `json:"hasError"`
	// Partial is set when some requests failed but others returned data.
	Partial  bool `json:"isPartial"`
	Failures int  `json:"-"`
}

// VisitAggregator records portfolio visits and compares them with the studio sites.
type VisitAggregator struct {
	counter VisitRecorder
	guard   *Guard
	cfg     VisitConfig
	logger  *slog.Logger
}

// NewVisitAggregator creates an aggregator. A nil guard gets a fresh one.
func NewVisitAggregator(counter VisitRecorder, guard *Guard, cfg VisitConfig, logger *slog.Logger) *VisitAggregator {
	if guard == nil {
		guard = NewGuard(nil)
	}
	if cfg.StudioDomains == nil {
		cfg.StudioDomains = DefaultStudioDomains
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Timezone == "" {
		cfg.Timezone = defaultTimezone()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &VisitAggregator{counter: counter, guard: guard, cfg: cfg, logger: logger}
}

// defaultTimezone returns the IANA zone named by TZ when it loads, else UTC.
func defaultTimezone() string {
	if tz := os.Getenv("TZ"); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil && loc.String() != "Local" {
			return loc.String()
		}
	}
	return "UTC"
}

// PortfolioDomain resolves the domain counted for req.
func (a *VisitAggregator) PortfolioDomain(req VisitRequest) string {
	if d := NormalizeDomain(a.cfg.Domain); d != "" {
		return d
	}
	return NormalizeDomain(req.Host)
}

// StudioDomains returns the normalized, de-duplicated comparison domains.
func (a *VisitAggregator) StudioDomains() []string {
	return UniqueDomains(append([]string{a.cfg.CompareDomain}, a.cfg.StudioDomains...)...)
}

// Collect records the visit once per day and reads every counter concurrently.
func (a *VisitAggregator) Collect(ctx context.Context, req VisitRequest) VisitSnapshot {
	domain := a.PortfolioDomain(req)
	studios := a.StudioDomains()

	var (
		mu        sync.Mutex
		failures  int
		portfolio *Metric
		results   = make([]*Metric, len(studios))
	)
	fail := func() {
		mu.Lock()
		failures++
		mu.Unlock()
	}

	var g errgroup.Group
	g.Go(func() error {
		if domain == "" {
			a.logger.Debug("no portfolio domain, visit not counted", "path", req.Path)
			fail()
			return nil
		}
		m, err := a.portfolio(ctx, domain, req)
		if err != nil {
			a.logger.Debug("portfolio visit request failed", "domain", domain, "error", err)
			fail()
			return nil
		}
		portfolio = &m
		return nil
	})
	for i, studio := range studios {
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
			defer cancel()

			m, err := a.counter.Get(ctx, studio)
			if err != nil {
				a.logger.Debug("studio visit request failed", "domain", studio, "error", err)
				fail()
				return nil
			}
			results[i] = &m
			return nil
		})
	}
	_ = g.Wait()

	var snap VisitSnapshot
	if portfolio != nil {
		snap.Portfolio = *portfolio
	} else {
		snap.Portfolio = Metric{Total: Unavailable(nil), Today: Unavailable(nil)}
	}

	var totals, todays []Count
	for _, m := range results {
		if m == nil {
			continue
		}
		totals = append(totals, m.Total)
		todays = append(todays, m.Today)
		if snap.Studio.DashboardURL == "" {
			snap.Studio.DashboardURL = m.DashboardURL
		}
	}
	snap.Studio.Total = Sum(totals...)
	snap.Studio.Today = Sum(todays...)
	snap.Combined = Metric{
		Total: Sum(snap.Portfolio.Total, snap.Studio.Total),
		Today: Sum(snap.Portfolio.Today, snap.Studio.Today),
	}

	hasData := portfolio != nil || len(totals) > 0
	snap.Failures = failures
	snap.HasError = !hasData
	snap.Partial = failures > 0 && hasData
	return snap
}

func (a *VisitAggregator) portfolio(ctx context.Context, domain string, req VisitRequest) (Metric, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	key := a.guard.Key(domain, req.Path)
	if a.guard.Counted(key) {
		return a.counter.Get(ctx, domain)
	}

	m, err := a.counter.Record(ctx, Visit{
		Domain:    domain,
		Timezone:  a.cfg.Timezone,
		PagePath:  req.Path,
		PageTitle: req.Title,
		Referrer:  req.Referrer,
	})
	if err != nil {
		return Metric{}, err
	}
	a.guard.Mark(key)
	return m, nil
}
