package core

// store.go keeps one Session per visitor over a single shared Table.
//
// Sessions are created on demand, touched on every interaction and expired
// by a background janitor once idle longer than the configured TTL. The
// store also caps the number of live sessions; when full, the least recently
// used session is evicted to make room.

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when a session ID is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// StoreConfig holds session store settings.
// All fields have sensible defaults if zero values are provided.
type StoreConfig struct {
	TTL           time.Duration // Idle time before expiry (default: 30m)
	MaxSessions   int           // Live session cap (default: 10000)
	SweepInterval time.Duration // How often the janitor runs (default: 1m)

	// OnCountChange, if set, is called with the live session count after
	// every create, evict or expire.
	OnCountChange func(live int)
}

func (c StoreConfig) withDefaults() StoreConfig {
	if c.TTL <= 0 {
		c.TTL = 30 * time.Minute
	}
	if c.MaxSessions <= 0 {
		c.MaxSessions = 10000
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = time.Minute
	}
	return c
}

// SessionStore maps session IDs to sessions sharing one Table.
type SessionStore struct {
	mu       sync.Mutex
	table    *Table
	cfg      StoreConfig
	sessions map[string]*Session
	now      func() time.Time
}

// NewSessionStore creates an empty store over t.
func NewSessionStore(t *Table, cfg StoreConfig) *SessionStore {
	return &SessionStore{
		table:    t,
		cfg:      cfg.withDefaults(),
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Table returns the shared table.
func (st *SessionStore) Table() *Table { return st.table }

// Create starts a new session with a random ID.
func (st *SessionStore) Create() *Session {
	s := NewSession(uuid.NewString(), st.table)

	st.mu.Lock()
	if len(st.sessions) >= st.cfg.MaxSessions {
		st.evictOldestLocked()
	}
	st.sessions[s.ID()] = s
	live := len(st.sessions)
	st.mu.Unlock()

	st.notify(live)
	return s
}

// Get returns a live session by ID.
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	st.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if st.now().Sub(s.LastSeen()) > st.cfg.TTL {
		st.Delete(id)
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// GetOrCreate returns the session for id, or a fresh one if id is unknown or
// expired. The boolean reports whether a new session was created.
func (st *SessionStore) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if s, err := st.Get(id); err == nil {
			return s, false
		}
	}
	return st.Create(), true
}

// Delete removes a session.
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	live := len(st.sessions)
	st.mu.Unlock()
	st.notify(live)
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep removes sessions idle longer than the TTL and returns how many were removed.
func (st *SessionStore) Sweep() int {
	cutoff := st.now().Add(-st.cfg.TTL)

	st.mu.Lock()
	removed := 0
	for id, s := range st.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	live := len(st.sessions)
	st.mu.Unlock()

	if removed > 0 {
		st.notify(live)
	}
	return removed
}

// StartJanitor periodically sweeps expired sessions until ctx is cancelled.
func (st *SessionStore) StartJanitor(ctx context.Context) {
	slog.Info("session janitor started",
		"ttl", st.cfg.TTL,
		"interval", st.cfg.SweepInterval,
		"max_sessions", st.cfg.MaxSessions,
	)

	ticker := time.NewTicker(st.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session janitor stopped")
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				slog.Debug("expired sessions removed", "count", n, "live", st.Len())
			}
		}
	}
}

// evictOldestLocked must be called with mu held.
func (st *SessionStore) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, s := range st.sessions {
		seen := s.LastSeen()
		if oldestID == "" || seen.Before(oldest) {
			oldestID, oldest = id, seen
		}
	}
	if oldestID != "" {
		delete(st.sessions, oldestID)
		slog.Debug("session evicted", "session_id", oldestID)
	}
}

func (st *SessionStore) notify(live int) {
	if st.cfg.OnCountChange != nil {
		st.cfg.OnCountChange(live)
	}
}
