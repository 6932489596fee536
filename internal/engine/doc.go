// Package engine draws animated connector lines between named page anchors.
//
// It is responsible for:
//   - Tracking which anchors are currently mounted (a non-owning registry)
//   - Holding the declared connections between anchor identifiers
//   - Computing curved routes between visible anchor pairs on every redraw
//   - Repainting the owned drawing surface from scratch
//   - Running a frame loop that follows page visibility and the reduced-motion preference
//
// The engine never touches a real browser. The page it draws against is described by the
// Host, Element and Surface interfaces, and frames come from a Ticker, so the whole loop can
// be driven deterministically in tests.
package engine
