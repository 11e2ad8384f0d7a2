package controller

import (
	"sync"
	"time"
)

// Registry holds the controllers of every browser session, keyed by session
// id and resource name.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]map[string]*Controller
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]map[string]*Controller)}
}

// Get returns the session's controller for resource, creating it with build
// on first use.
func (r *Registry) Get(sessionID, resource string, build func() *Controller) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	byName, ok := r.sessions[sessionID]
	if !ok {
		byName = make(map[string]*Controller)
		r.sessions[sessionID] = byName
	}
	c, ok := byName[resource]
	if !ok {
		c = build()
		byName[resource] = c
	}
	return c
}

// Reset closes the session's controller for resource, if any, and installs a
// fresh one built by build.
func (r *Registry) Reset(sessionID, resource string, build func() *Controller) *Controller {
	c := build()

	r.mu.Lock()
	byName, ok := r.sessions[sessionID]
	if !ok {
		byName = make(map[string]*Controller)
		r.sessions[sessionID] = byName
	}
	old := byName[resource]
	byName[resource] = c
	r.mu.Unlock()

	if old != nil {
		old.Close()
	}
	return c
}

// Lookup returns an existing controller without creating one.
func (r *Registry) Lookup(sessionID, resource string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.sessions[sessionID][resource]
	return c, ok
}

// Drop closes and forgets every controller of a session.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	byName := r.sessions[sessionID]
	delete(r.sessions, sessionID)
	r.mu.Unlock()

	for _, c := range byName {
		c.Close()
	}
}

// Evict drops the sessions whose controllers have all been idle for longer
// than maxIdle and returns how many were dropped.
func (r *Registry) Evict(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	r.mu.Lock()
	var stale []string
	for id, byName := range r.sessions {
		idle := true
		for _, c := range byName {
			if c.idleSince().After(cutoff) {
				idle = false
				break
			}
		}
		if idle {
			stale = append(stale, id)
		}
	}
	r.mu.Unlock()

	for _, id := range stale {
		r.Drop(id)
	}
	return len(stale)
}

// Len returns the number of sessions with controllers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
