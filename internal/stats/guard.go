package stats

import (
	"strings"
	"sync"
	"time"
)

// Guard remembers which visits were already recorded today.
// Thread-safe.
type Guard struct {
	mu   sync.Mutex
	now  func() time.Time
	seen map[string]struct{}
}

// NewGuard creates a guard using now as its clock. A nil clock uses time.Now.
func NewGuard(now func() time.Time) *Guard {
	if now == nil {
		now = time.Now
	}
	return &Guard{now: now, seen: make(map[string]struct{})}
}

// Key returns the guard key for a visit to path on domain, for the current UTC day.
func (g *Guard) Key(domain, path string) string {
	day := g.now().UTC().Format(time.DateOnly)
	return strings.Join([]string{"portfolio-visit-posted", domain, path, day}, ":")
}

// Counted reports whether key was marked.
func (g *Guard) Counted(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.seen[key]
	return ok
}

// Mark records key. Keys from earlier days are dropped.
func (g *Guard) Mark(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	suffix := ":" + g.now().UTC().Format(time.DateOnly)
	for k := range g.seen {
		if !strings.HasSuffix(k, suffix) {
			delete(g.seen, k)
		}
	}
	g.seen[key] = struct{}{}
}
