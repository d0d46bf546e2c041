package view

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type session struct {
	manager  *Manager
	lastSeen time.Time
}

// Sessions keeps one Manager per browser session and drops sessions that
// have been idle longer than the TTL. When the limit is reached the least
// recently seen session makes room for a new one.
type Sessions struct {
	api   MenuAPI
	ttl   time.Duration
	limit int
	now   func() time.Time

	mu    sync.Mutex
	items map[string]*session
}

// NewSessions returns an empty registry. A maxSessions of zero or less means
// no bound.
func NewSessions(api MenuAPI, ttl time.Duration, maxSessions int) *Sessions {
	return &Sessions{
		api:   api,
		ttl:   ttl,
		limit: maxSessions,
		now:   time.Now,
		items: make(map[string]*session),
	}
}

// Get returns the Manager for id. When id is unknown or expired a new
// session is created and its id returned; otherwise id is returned as is.
func (s *Sessions) Get(id string) (string, *Manager) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)

	if sess, ok := s.items[id]; ok && id != "" {
		sess.lastSeen = now
		return id, sess.manager
	}

	if s.limit > 0 && len(s.items) >= s.limit {
		s.evictOldestLocked()
	}

	id = uuid.New().String()
	sess := &session{manager: NewManager(s.api), lastSeen: now}
	s.items[id] = sess
	activeSessions.Set(float64(len(s.items)))
	return id, sess.manager
}

// Lookup returns the Manager for a live session without creating one.
func (s *Sessions) Lookup(id string) (*Manager, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)
	sess, ok := s.items[id]
	if !ok || id == "" {
		return nil, false
	}
	sess.lastSeen = now
	return sess.manager, true
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Sessions) evictLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, sess := range s.items {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.items, id)
		}
	}
	activeSessions.Set(float64(len(s.items)))
}

func (s *Sessions) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, sess := range s.items {
		if oldestID == "" || sess.lastSeen.Before(oldest) {
			oldestID, oldest = id, sess.lastSeen
		}
	}
	if oldestID != "" {
		delete(s.items, oldestID)
		sessionEvictions.Inc()
	}
}
