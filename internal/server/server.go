// Package server exposes the statistics API, the social preview image and the prerendered
// site over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"portfolio.dev/portfolio/internal/engine"
	"portfolio.dev/portfolio/internal/preview"
	"portfolio.dev/portfolio/internal/stats"
)

const (
	// CacheControl allows shared caches to serve a response for five minutes and revalidate
	// in the background for ten more.
	CacheControl = "s-maxage=300, stale-while-revalidate=600"

	shutdownTimeout = 10 * time.Second
)

// SocialCollector produces social snapshots.
type SocialCollector interface {
	Collect(ctx context.Context) stats.SocialSnapshot
}

// VisitCollector produces visit snapshots.
type VisitCollector interface {
	Collect(ctx context.Context, req stats.VisitRequest) stats.VisitSnapshot
}

// Options configure a Server.
type Options struct {
	Addr    string
	DistDir string
	Social  SocialCollector
	Visits  VisitCollector
	// PreviewRoutes are drawn by /og.png.
	PreviewRoutes []engine.Route
	Preview       preview.Options
	Logger        *slog.Logger
}

// Server is the portfolio HTTP service.
type Server struct {
	opts    Options
	logger  *slog.Logger
	handler http.Handler
}

// New builds the server and its routes.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{opts: opts, logger: logger}

	mux := http.NewServeMux()
	if opts.Social != nil {
		mux.Handle("/api/social-stats", getOnly(http.HandlerFunc(s.handleSocialStats)))
	}
	if opts.Visits != nil {
		mux.Handle("/api/visit-stats", getOnly(http.HandlerFunc(s.handleVisitStats)))
	}
	mux.Handle("/og.png", getOnly(http.HandlerFunc(s.handlePreview)))
	if opts.DistDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(opts.DistDir)))
	}

	s.handler = requestID(accessLog(logger, mux))
	return s
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Debug("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
