// Package errors provides sentinel errors and custom error types for the portfolio application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrUpstreamUnavailable indicates that a statistics provider could not be read
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrPlaceholderMissing indicates that the page template has no app mount point
	ErrPlaceholderMissing = errors.New("root placeholder not found in template")

	// ErrInvalidConfig indicates that a configuration value could not be used
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownNode indicates a reference to a node id that does not exist
	ErrUnknownNode = errors.New("unknown node")
)

// UpstreamError represents a failed call to a statistics provider
type UpstreamError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("upstream %s unavailable", e.Source)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Is returns true if the target error is ErrUpstreamUnavailable
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError creates a new UpstreamError
func NewUpstreamError(source string, statusCode int, err error) *UpstreamError {
	return &UpstreamError{Source: source, StatusCode: statusCode, Err: err}
}

// RouteError represents a failure to prerender one route
type RouteError struct {
	Route  string
	Output string
	Err    error
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("prerender %s -> %s: %v", e.Route, e.Output, e.Err)
}

func (e *RouteError) Unwrap() error {
	return e.Err
}

// NewRouteError creates a new RouteError
func NewRouteError(route, output string, err error) *RouteError {
	return &RouteError{Route: route, Output: output, Err: err}
}

// UnknownNodeError represents a reference to a missing node
type UnknownNodeError struct {
	Context string
	ID      string
}

func (e *UnknownNodeError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("unknown node %q in %s", e.ID, e.Context)
	}
	return fmt.Sprintf("unknown node %q", e.ID)
}

// Is returns true if the target error is ErrUnknownNode
func (e *UnknownNodeError) Is(target error) bool {
	return target == ErrUnknownNode
}

// ConfigError represents an unusable configuration value
type ConfigError struct {
	Key   string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid configuration %s=%q: %v", e.Key, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid configuration %s=%q", e.Key, e.Value)
}

// Is returns true if the target error is ErrInvalidConfig
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
