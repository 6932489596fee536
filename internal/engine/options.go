package engine

import (
	"log/slog"
	"time"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMaxDistance overrides the longest connector drawn.
func WithMaxDistance(d float64) Option {
	return func(e *Engine) {
		if d > 0 {
			e.maxDistance = d
		}
	}
}

// WithCurveOffset overrides the perpendicular control point offset.
func WithCurveOffset(offset float64) Option {
	return func(e *Engine) {
		e.curveOffset = offset
	}
}

// WithPulseDuration overrides the travelling marker period.
func WithPulseDuration(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.pulseDuration = d
		}
	}
}
