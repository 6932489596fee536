package engine

// startLoopLocked moves the loop to StateRunning. Must be called with mu held.
func (e *Engine) startLoopLocked() {
	if e.state == StateRunning {
		return
	}
	e.state = StateRunning
	e.ticker.Start(e.onFrame)
	e.logger.Debug("route loop started")
}

// stopLoopLocked moves the loop to StateIdle. Must be called with mu held.
func (e *Engine) stopLoopLocked() {
	if e.state == StateIdle {
		return
	}
	e.state = StateIdle
	e.ticker.Stop()
	e.logger.Debug("route loop stopped")
}

// onFrame is the ticker callback.
func (e *Engine) onFrame() {
	e.mu.Lock()
	defer e.mu.Unlock()

	// A frame delivered after Stop is dropped
	if e.state != StateRunning || e.surface == nil {
		return
	}
	if e.reducedMotion {
		e.stopLoopLocked()
	}
	e.drawLocked()
}

// onVisibilityChange follows the page between hidden and visible.
func (e *Engine) onVisibilityChange() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.host.Hidden() {
		e.stopLoopLocked()
		return
	}
	e.drawLocked()
	if !e.reducedMotion && e.surface != nil {
		e.startLoopLocked()
	}
}
