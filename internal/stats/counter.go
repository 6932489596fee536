package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	perrors "portfolio.dev/portfolio/internal/errors"
)

// DefaultCounterEndpoint is the public visitor counter API.
const DefaultCounterEndpoint = "https://visitor.6developer.com/visit"

const counterSource = "visitor-counter"

// Metric is the visit counter reading for one domain.
type Metric struct {
	Total        Count  `json:"totalCount"`
	Today        Count  `json:"todayCount"`
	DashboardURL string `json:"dashboardUrl,omitempty"`
}

// Visit is one page view reported to the counter.
type Visit struct {
	Domain    string `json:"domain"`
	Timezone  string `json:"timezone"`
	PagePath  string `json:"page_path"`
	PageTitle string `json:"page_title"`
	Referrer  string `json:"referrer"`
}

// VisitCounter is a client for the visitor counter API.
type VisitCounter struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewVisitCounter creates a counter client. Empty endpoint and nil client use the defaults.
func NewVisitCounter(endpoint string, client *http.Client, logger *slog.Logger) *VisitCounter {
	if endpoint == "" {
		endpoint = DefaultCounterEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &VisitCounter{endpoint: endpoint, client: client, logger: logger}
}

// Endpoint returns the API URL.
func (c *VisitCounter) Endpoint() string {
	return c.endpoint
}

// Get reads the counts for domain without recording a visit.
func (c *VisitCounter) Get(ctx context.Context, domain string) (Metric, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return Metric{}, perrors.NewUpstreamError(counterSource, 0, err)
	}
	q := u.Query()
	q.Set("domain", domain)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Metric{}, perrors.NewUpstreamError(counterSource, 0, err)
	}
	return c.do(req, domain)
}

// Record reports a visit and returns the updated counts.
func (c *VisitCounter) Record(ctx context.Context, v Visit) (Metric, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return Metric{}, fmt.Errorf("failed to encode visit: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Metric{}, perrors.NewUpstreamError(counterSource, 0, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, v.Domain)
}

func (c *VisitCounter) do(req *http.Request, domain string) (Metric, error) {
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("visit counter request failed", "domain", domain, "error", err)
		return Metric{}, perrors.NewUpstreamError(counterSource, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		c.logger.Debug("visit counter returned an error", "domain", domain, "status", resp.StatusCode)
		return Metric{}, perrors.NewUpstreamError(counterSource, resp.StatusCode, nil)
	}

	var fields map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&fields); err != nil {
		return Metric{}, perrors.NewUpstreamError(counterSource, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err))
	}

	m := Metric{
		Total: parseCount(fields["totalCount"]),
		Today: parseCount(fields["todayCount"]),
	}
	var dashboard string
	if err := json.Unmarshal(fields["dashboardUrl"], &dashboard); err == nil {
		m.DashboardURL = dashboard
	}
	c.logger.Debug("visit counter read", "domain", domain, "total", m.Total, "today", m.Today)
	return m, nil
}
