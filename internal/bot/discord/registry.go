package discord

import (
	"sync"
	"time"

	"glimpse/internal/bot/gallery"
)

// entry pairs a session with its last use, for eviction.
type entry struct {
	session  *gallery.Session
	lastUsed time.Time
}

// sessionRegistry tracks open gallery sessions keyed by the message that
// renders them. discordgo dispatches events on separate goroutines, so all
// session access happens under the registry lock. Discord never tells the
// bot when an ephemeral message goes away, so idle sessions are evicted on
// a timer instead.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	maxIdle  time.Duration
}

func newSessionRegistry() *sessionRegistry {
	r := &sessionRegistry{
		sessions: make(map[string]*entry),
		maxIdle:  time.Hour,
	}

	go func() {
		for {
			time.Sleep(5 * time.Minute)
			r.evictIdle()
		}
	}()

	return r
}

func (r *sessionRegistry) put(messageID string, s *gallery.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[messageID] = &entry{session: s, lastUsed: time.Now()}
}

// with runs fn against the session for messageID while holding the lock.
// Reports whether a session existed.
func (r *sessionRegistry) with(messageID string, fn func(*gallery.Session)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[messageID]
	if !ok {
		return false
	}
	e.lastUsed = time.Now()
	fn(e.session)
	return true
}

func (r *sessionRegistry) evictIdle() {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-r.maxIdle)
	for id, e := range r.sessions {
		if e.lastUsed.Before(cutoff) {
			delete(r.sessions, id)
		}
	}
}
