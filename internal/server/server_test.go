package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"portfolio.dev/portfolio/internal/preview"
	"portfolio.dev/portfolio/internal/routemap"
	"portfolio.dev/portfolio/internal/server"
	"portfolio.dev/portfolio/internal/stats"
	"portfolio.dev/portfolio/testhelpers"
)

type fakeSocial struct {
	snap stats.SocialSnapshot
}

func (f *fakeSocial) Collect(context.Context) stats.SocialSnapshot { return f.snap }

type fakeVisits struct {
	snap stats.VisitSnapshot
	reqs []stats.VisitRequest
}

func (f *fakeVisits) Collect(_ context.Context, req stats.VisitRequest) stats.VisitSnapshot {
	f.reqs = append(f.reqs, req)
	return f.snap
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestSocialStats(t *testing.T) {
	social := &fakeSocial{snap: stats.SocialSnapshot{
		GitHubFollowers:   stats.Available(12),
		LinkedInFollowers: stats.Unavailable(nil),
		GitHubToday:       stats.Available(2),
		Sources:           stats.Sources{GitHub: "api.github.com", LinkedIn: "env"},
	}}
	h := server.New(server.Options{Social: social}).Handler()

	t.Run("get", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/social-stats")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, server.CacheControl, rec.Header().Get("Cache-Control"))
		require.JSONEq(t, `{
			"githubFollowers": 12,
			"linkedinFollowers": 0,
			"githubToday": 2,
			"linkedinToday": 0,
			"source": {"github": "api.github.com", "linkedin": "env"}
		}`, rec.Body.String())
	})

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			rec := do(t, h, method, "/api/social-stats")
			require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			require.Equal(t, "GET", rec.Header().Get("Allow"))
			require.JSONEq(t, `{"error":"Method not allowed"}`, rec.Body.String())
			require.Empty(t, rec.Header().Get("Cache-Control"))
		})
	}
}

func TestSocialStatsUpstreamFailure(t *testing.T) {
	ghConfig := testhelpers.NewMockGitHubServerConfig()
	ghConfig.StatusCodes[stats.DefaultGitHubUser] = http.StatusInternalServerError
	ghServer := testhelpers.NewMockGitHubServer(t, ghConfig)

	counterConfig := testhelpers.NewMockCounterConfig().
		WithStatus(stats.DefaultGitHubCounterDomain, http.StatusInternalServerError).
		WithBody(stats.DefaultLinkedInCounterDomain, `{"totalCount": "lots"}`)
	counterServer := testhelpers.NewMockCounterServer(t, counterConfig)

	gh, err := stats.NewGitHubSource(context.Background(), stats.GitHubOptions{BaseURL: ghServer.URL, HTTPClient: ghServer.Client()})
	require.NoError(t, err)
	agg := stats.NewSocialAggregator(gh, stats.NewVisitCounter(counterServer.URL, counterServer.Client(), nil), stats.SocialConfig{}, nil)

	rec := do(t, server.New(server.Options{Social: agg}).Handler(), http.MethodGet, "/api/social-stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, float64(0), body["githubFollowers"])
	require.Equal(t, float64(0), body["linkedinFollowers"])
	require.Equal(t, map[string]any{"github": "api.github.com", "linkedin": "visitor_counter_or_default"}, body["source"])
}

func TestVisitStats(t *testing.T) {
	visits := &fakeVisits{snap: stats.VisitSnapshot{
		Portfolio: stats.Metric{Total: stats.Available(10), Today: stats.Available(1)},
		Studio:    stats.Metric{Total: stats.Unavailable(nil), Today: stats.Unavailable(nil)},
		Combined:  stats.Metric{Total: stats.Available(10), Today: stats.Available(1)},
		Partial:   true,
		Failures:  2,
	}}
	social := &fakeSocial{snap: stats.SocialSnapshot{GitHubFollowers: stats.Available(5), LinkedInToday: stats.Available(3)}}
	h := server.New(server.Options{Visits: visits, Social: social}).Handler()

	rec := do(t, h, http.MethodGet, "/api/visit-stats?path=/portfolio/&title=Hello")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, server.CacheControl, rec.Header().Get("Cache-Control"))
	require.JSONEq(t, `{
		"portfolio": {"totalCount": 10, "todayCount": 1},
		"rizzerStudio": {"totalCount": null, "todayCount": null},
		"combined": {"totalCount": 10, "todayCount": 1},
		"hasError": false,
		"isPartial": true
	}`, rec.Body.String())

	require.Len(t, visits.reqs, 1)
	require.Equal(t, stats.VisitRequest{Host: "example.com", Path: "/portfolio/", Title: "Hello"}, visits.reqs[0])

	t.Run("default path and combined totals", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/visit-stats?social=1")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "/", visits.reqs[len(visits.reqs)-1].Path)

		var body struct {
			CombinedAll struct {
				Total int64 `json:"totalCount"`
				Today int64 `json:"todayCount"`
			} `json:"combinedAll"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, int64(15), body.CombinedAll.Total)
		require.Equal(t, int64(4), body.CombinedAll.Today)
	})

	t.Run("method not allowed", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/visit-stats")
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		require.Equal(t, "GET", rec.Header().Get("Allow"))
	})
}

func TestPreview(t *testing.T) {
	m := routemap.Map{
		Nodes:  []routemap.Node{{ID: "a", X: 10, Y: 10}, {ID: "b", X: 90, Y: 80}},
		Routes: []routemap.Edge{{ID: "ab", From: "a", To: "b", Curvature: 0.2}},
	}
	h := server.New(server.Options{
		PreviewRoutes: preview.FromMap(m, 120, 60),
		Preview:       preview.Options{Width: 120, Height: 60},
	}).Handler()

	rec := do(t, h, http.MethodGet, "/og.png")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	require.Equal(t, 120, img.Bounds().Dx())
}

func TestStaticFilesAndRequestID(t *testing.T) {
	dist := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dist, "index.html"), []byte("<html>home</html>"), 0o600))
	h := server.New(server.Options{DistDir: dist}).Handler()

	rec := do(t, h, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "home")
	require.Len(t, rec.Header().Get(server.RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(server.RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "abc", rec.Header().Get(server.RequestIDHeader))

	rec = do(t, server.New(server.Options{}).Handler(), http.MethodGet, "/api/social-stats")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	social := &fakeSocial{snap: stats.SocialSnapshot{GitHubFollowers: stats.Available(1)}}
	srv := server.New(server.Options{Social: social})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/social-stats")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `"githubFollowers":1`)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
