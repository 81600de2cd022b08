package session

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CookieName is the cookie carrying the session id
const CookieName = "dashboard_session"

type entry struct {
	userID    string
	touchedAt time.Time
}

// MemoryStore remembers the user each browser last selected
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	maxAge   time.Duration
	verbose  bool
	now      func() time.Time
}

// NewMemoryStore creates a new in-memory session store
func NewMemoryStore(maxAge time.Duration, verbose bool) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*entry),
		maxAge:   maxAge,
		verbose:  verbose,
		now:      time.Now,
	}
}

// NewID returns a fresh session id
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like one NewID produced
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// MaxAge is how long an untouched session survives
func (s *MemoryStore) MaxAge() time.Duration {
	return s.maxAge
}

// Get returns the user id stored for the session; expired sessions read as empty
func (s *MemoryStore) Get(sessionID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.sessions[sessionID]
	if !exists || s.expired(e) {
		return "", false
	}
	return e.userID, true
}

// Set stores userID for the session and refreshes its age
func (s *MemoryStore) Set(sessionID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionID] = &entry{userID: userID, touchedAt: s.now()}

	if s.verbose {
		log.Printf("[SESSION] Stored user %q for session %s", userID, sessionID)
	}
}

// Cleanup removes expired sessions
func (s *MemoryStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.sessions {
		if s.expired(e) {
			delete(s.sessions, id)
			removed++
		}
	}

	if s.verbose && removed > 0 {
		log.Printf("[SESSION] Cleanup completed: removed %d expired sessions", removed)
	}
}

// StartCleanupRoutine starts a background routine to clean up expired sessions.
// The routine stops when stop is closed.
func (s *MemoryStore) StartCleanupRoutine(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Cleanup()
			case <-stop:
				return
			}
		}
	}()

	if s.verbose {
		log.Printf("[SESSION] Started cleanup routine (interval: %v)", interval)
	}
}

// Stats returns total and expired session counts
func (s *MemoryStore) Stats() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expired := 0
	for _, e := range s.sessions {
		if s.expired(e) {
			expired++
		}
	}
	return len(s.sessions), expired
}

func (s *MemoryStore) expired(e *entry) bool {
	return s.now().Sub(e.touchedAt) > s.maxAge
}
