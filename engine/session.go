package engine

import "github.com/google/uuid"

// Session tags one hot-reload epoch. Spec.md §4.8's "hot-reload quiescence
// window" forces every drain serial while a reload is in flight; Session
// additionally gives the host a stable id to correlate logs and diagnostics
// across that window, grounded on the pack's preference for uuid.New over
// an incrementing counter when the id crosses a process/worker boundary
// (worker dispatch timeouts during a reload are logged against the session
// that was active when they were issued).
type Session struct {
	ID uuid.UUID
}

func newSession() Session {
	return Session{ID: uuid.New()}
}

// BeginHotReload starts a new quiescence window: drains are forced serial
// until EndHotReload, per spec.md §4.8.
func (e *Engine) BeginHotReload() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session = newSession()
	e.scheduler.SetHotReloadQuiescent(true)
	return e.session
}

// EndHotReload closes the current quiescence window, re-enabling the
// parallel pipeline for subsequent drains.
func (e *Engine) EndHotReload() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scheduler.SetHotReloadQuiescent(false)
}

// CurrentSession returns the id of the most recently started hot-reload
// window, or the zero Session if none has started yet.
func (e *Engine) CurrentSession() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}
