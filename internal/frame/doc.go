// Package frame provides the tickers that deliver frames to the route engine: a wall-clock
// ticker for live pages and a manual one for deterministic tests.
package frame
