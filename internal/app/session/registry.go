// Package session keeps per-operator working state (the current quote table,
// customer label, settings) keyed by a cookie id.
package session

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	CookieName = "quote_session"
	DefaultTTL = 12 * time.Hour
)

type Registry struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*State
	now      func() time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{
		ttl:      ttl,
		sessions: make(map[string]*State),
		now:      time.Now,
	}
}

// Resolve returns the session for id, creating a fresh one when id is
// unknown, expired or not a uuid. created reports whether the caller must
// hand out a new cookie.
func (r *Registry) Resolve(id string) (sid string, st *State, created bool) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked(now)

	if _, err := uuid.Parse(id); err == nil {
		if st, ok := r.sessions[id]; ok {
			st.touch(now)
			return id, st, false
		}
	}

	sid = uuid.NewString()
	st = newState(now)
	r.sessions[sid] = st
	return sid, st, true
}

func (r *Registry) Get(id string) (*State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.sessions[id]
	return st, ok
}

// Drop forgets a session. Unknown ids are ignored.
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed. Sessions with a generation in flight are kept.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(r.now())
}

func (r *Registry) sweepLocked(now time.Time) int {
	removed := 0
	for id, st := range r.sessions {
		if st.generating() {
			continue
		}
		if st.idleSince(now) > r.ttl {
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("session: expired count=%d remaining=%d", removed, len(r.sessions))
	}
	return removed
}
