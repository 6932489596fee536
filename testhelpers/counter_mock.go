package testhelpers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// CounterRequest is one request received by the mock visitor counter
type CounterRequest struct {
	Method string
	Domain string
	Body   map[string]string
}

// MockCounterConfig configures the behavior of a mock visitor counter
type MockCounterConfig struct {
	// Bodies maps domains to the raw JSON returned for them
	Bodies map[string]string
	// StatusCodes maps domains to an error status returned instead of a body
	StatusCodes map[string]int

	mu       sync.Mutex
	requests []CounterRequest
}

// NewMockCounterConfig creates a new mock counter config with defaults
func NewMockCounterConfig() *MockCounterConfig {
	return &MockCounterConfig{
		Bodies:      make(map[string]string),
		StatusCodes: make(map[string]int),
	}
}

// WithCounts registers the counts returned for domain
func (c *MockCounterConfig) WithCounts(domain string, total, today int) *MockCounterConfig {
	body, _ := json.Marshal(map[string]int{"totalCount": total, "todayCount": today})
	c.Bodies[domain] = string(body)
	return c
}

// WithBody registers a raw JSON body returned for domain
func (c *MockCounterConfig) WithBody(domain, body string) *MockCounterConfig {
	c.Bodies[domain] = body
	return c
}

// WithStatus makes requests for domain fail with status
func (c *MockCounterConfig) WithStatus(domain string, status int) *MockCounterConfig {
	c.StatusCodes[domain] = status
	return c
}

// Requests returns the requests received, in order
func (c *MockCounterConfig) Requests() []CounterRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]CounterRequest(nil), c.requests...)
}

// RequestsFor returns the requests received for domain with the given method
func (c *MockCounterConfig) RequestsFor(method, domain string) []CounterRequest {
	var out []CounterRequest
	for _, r := range c.Requests() {
		if r.Method == method && r.Domain == domain {
			out = append(out, r)
		}
	}
	return out
}

// NewMockCounterServer creates an httptest server that mocks the visitor counter API.
// GET reads ?domain=, POST reads the domain from the JSON body.
func NewMockCounterServer(t *testing.T, config *MockCounterConfig) *httptest.Server {
	t.Helper()
	if config == nil {
		config = NewMockCounterConfig()
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := CounterRequest{Method: r.Method}
		switch r.Method {
		case http.MethodGet:
			req.Domain = r.URL.Query().Get("domain")
		case http.MethodPost:
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &req.Body)
			req.Domain = req.Body["domain"]
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		config.mu.Lock()
		config.requests = append(config.requests, req)
		config.mu.Unlock()

		if status, ok := config.StatusCodes[req.Domain]; ok {
			http.Error(w, http.StatusText(status), status)
			return
		}
		body, ok := config.Bodies[req.Domain]
		if !ok {
			http.Error(w, "unknown domain", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(func() { server.Close() })
	return server
}
