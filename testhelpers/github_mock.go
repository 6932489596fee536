// Package testhelpers provides httptest doubles of the upstream APIs the statistics
// collectors read: the GitHub users API and the visitor counter.
package testhelpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-github/v62/github"
)

// MockGitHubServerConfig configures the behavior of a mock GitHub server
type MockGitHubServerConfig struct {
	// Users maps logins to the user returned by GET /users/{login}
	Users map[string]*github.User
	// StatusCodes maps logins to an error status returned instead of the user
	StatusCodes map[string]int
	// RawBodies maps logins to a raw JSON body returned instead of the user
	RawBodies map[string]string

	mu            sync.Mutex
	authorization []string
}

// NewMockGitHubServerConfig creates a new mock server config with defaults
func NewMockGitHubServerConfig() *MockGitHubServerConfig {
	return &MockGitHubServerConfig{
		Users:       make(map[string]*github.User),
		StatusCodes: make(map[string]int),
		RawBodies:   make(map[string]string),
	}
}

// WithFollowers registers a user with the given follower count
func (c *MockGitHubServerConfig) WithFollowers(login string, followers int) *MockGitHubServerConfig {
	c.Users[login] = &github.User{Login: github.String(login), Followers: github.Int(followers)}
	return c
}

// Authorizations returns the Authorization headers received, in order
func (c *MockGitHubServerConfig) Authorizations() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.authorization...)
}

// NewMockGitHubServer creates an httptest server that mocks the GitHub users API
func NewMockGitHubServer(t *testing.T, config *MockGitHubServerConfig) *httptest.Server {
	t.Helper()
	if config == nil {
		config = NewMockGitHubServerConfig()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/users/", func(w http.ResponseWriter, r *http.Request) {
		config.mu.Lock()
		config.authorization = append(config.authorization, r.Header.Get("Authorization"))
		config.mu.Unlock()

		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		login := strings.TrimPrefix(r.URL.Path, "/users/")
		if status, ok := config.StatusCodes[login]; ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": http.StatusText(status)})
			return
		}
		if body, ok := config.RawBodies[login]; ok {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
			return
		}
		user, ok := config.Users[login]
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(user)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(func() { server.Close() })
	return server
}
