package pipeline

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTTL is how long an untouched session is kept
const DefaultSessionTTL = 30 * time.Minute

// SessionFactory builds a new session with the given ID
type SessionFactory func(id string) *Session

// Registry keeps the live sessions in memory and expires idle ones
type Registry struct {
	factory SessionFactory
	ttl     time.Duration
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewRegistry creates an empty registry. A non-positive ttl means DefaultSessionTTL.
func NewRegistry(ttl time.Duration, factory SessionFactory) *Registry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Registry{
		factory:  factory,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Create starts a new session under a fresh random ID
func (r *Registry) Create() *Session {
	id := uuid.NewString()
	session := r.factory(id)

	r.mu.Lock()
	r.sessions[id] = session
	r.mu.Unlock()

	log.Printf("[sessions] created %s", id)
	return session
}

// Get returns the session with the given ID and marks it as used
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	if ok {
		session.Touch()
	}
	return session, ok
}

// Delete removes a session. It reports whether the session existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// TTL returns how long an untouched session is kept
func (r *Registry) TTL() time.Duration {
	return r.ttl
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep removes sessions idle for longer than the TTL. Busy sessions are kept.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, session := range r.sessions {
		if session.Snapshot().Busy || session.LastActive().After(cutoff) {
			continue
		}
		delete(r.sessions, id)
		removed++
	}
	if removed > 0 {
		log.Printf("[sessions] expired %d idle session(s), %d live", removed, len(r.sessions))
	}
	return removed
}

// Start sweeps idle sessions every interval until Stop is called
func (r *Registry) Start(interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	if !r.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				r.Sweep()
			}
		}
	}()
}

// Stop ends the sweeper started by Start and waits for it to exit
func (r *Registry) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
	})
	if r.started.Load() {
		<-r.done
	}
}
