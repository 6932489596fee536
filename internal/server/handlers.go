package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"portfolio.dev/portfolio/internal/preview"
	"portfolio.dev/portfolio/internal/stats"
)

type errorResponse struct {
	Error string `json:"error"`
}

type socialResponse struct {
	GitHubFollowers   int64         `json:"githubFollowers"`
	LinkedInFollowers int64         `json:"linkedinFollowers"`
	GitHubToday       int64         `json:"githubToday"`
	LinkedInToday     int64         `json:"linkedinToday"`
	Source            stats.Sources `json:"source"`
}

type visitResponse struct {
	stats.VisitSnapshot
	CombinedAll *allResponse `json:"combinedAll,omitempty"`
}

type allResponse struct {
	Total int64 `json:"totalCount"`
	Today int64 `json:"todayCount"`
}

// getOnly rejects every method other than GET with 405.
func getOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleSocialStats(w http.ResponseWriter, r *http.Request) {
	snap := s.opts.Social.Collect(r.Context())

	w.Header().Set("Cache-Control", CacheControl)
	writeJSON(w, http.StatusOK, socialResponse{
		GitHubFollowers:   snap.GitHubFollowers.OrZero(),
		LinkedInFollowers: snap.LinkedInFollowers.OrZero(),
		GitHubToday:       snap.GitHubToday.OrZero(),
		LinkedInToday:     snap.LinkedInToday.OrZero(),
		Source:            snap.Sources,
	})
}

func (s *Server) handleVisitStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	path := q.Get("path")
	if path == "" {
		path = "/"
	}
	req := stats.VisitRequest{
		Host:     r.Host,
		Path:     path,
		Title:    q.Get("title"),
		Referrer: r.Referer(),
	}

	resp := visitResponse{VisitSnapshot: s.opts.Visits.Collect(r.Context(), req)}
	if s.opts.Social != nil && q.Get("social") == "1" {
		d := stats.Dashboard{Visits: resp.VisitSnapshot, Social: s.opts.Social.Collect(r.Context())}
		resp.CombinedAll = &allResponse{Total: d.CombinedTotal(), Today: d.CombinedToday()}
	}

	w.Header().Set("Cache-Control", CacheControl)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := preview.WritePNG(&buf, s.opts.PreviewRoutes, s.opts.Preview); err != nil {
		s.logger.Error("failed to render preview", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "preview unavailable"})
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", CacheControl)
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
