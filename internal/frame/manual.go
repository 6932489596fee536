package frame

import "sync"

// Manual is a ticker whose frames are fired explicitly with Tick.
type Manual struct {
	mu     sync.Mutex
	fn     func()
	starts int
	stops  int
}

// NewManual creates a stopped manual ticker.
func NewManual() *Manual {
	return &Manual{}
}

// Start records fn as the frame callback.
func (m *Manual) Start(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fn != nil {
		return
	}
	m.fn = fn
	m.starts++
}

// Stop forgets the frame callback.
func (m *Manual) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fn == nil {
		return
	}
	m.fn = nil
	m.stops++
}

// Tick fires one frame. It reports whether a callback ran.
func (m *Manual) Tick() bool {
	m.mu.Lock()
	fn := m.fn
	m.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// Running reports whether a callback is registered.
func (m *Manual) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fn != nil
}

// Starts returns how many times the ticker went from stopped to started.
func (m *Manual) Starts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts
}

// Stops returns how many times the ticker went from started to stopped.
func (m *Manual) Stops() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stops
}
