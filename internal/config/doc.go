// Package config resolves portfolio settings.
//
// Settings come from three layers, later ones winning:
//   - Built-in defaults
//   - An optional JSON file (see File)
//   - Environment variables (GITHUB_TOKEN, VISITOR_COUNTER_API_URL, PORTFOLIO_ADDR, ...)
package config
