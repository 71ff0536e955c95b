package cart

import (
	"sync"
	"time"
)

type entry struct {
	mu       sync.Mutex
	ledger   *Ledger
	lastSeen time.Time
}

// Sessions holds one Ledger per session id. Carts idle for longer than ttl are
// dropped by Sweep, which mirrors a browser tab being closed.
type Sessions struct {
	mu      sync.Mutex
	ledgers map[string]*entry
	ttl     time.Duration
	now     func() time.Time
}

// NewSessions creates an empty registry. A zero ttl keeps carts forever.
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		ledgers: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// With runs fn with exclusive access to the ledger of sessionID, creating an
// empty one on first use. Only calls for the same session wait on each other.
func (s *Sessions) With(sessionID string, fn func(l *Ledger) error) error {
	s.mu.Lock()
	e, ok := s.ledgers[sessionID]
	if !ok {
		e = &entry{ledger: NewLedger()}
		s.ledgers[sessionID] = e
	}
	e.lastSeen = s.now()
	s.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.ledger)
}

// Discard forgets the cart of sessionID.
func (s *Sessions) Discard(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ledgers, sessionID)
}

// Sweep removes carts idle for longer than the ttl and returns how many were removed.
func (s *Sessions) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, e := range s.ledgers {
		if e.lastSeen.Before(cutoff) {
			delete(s.ledgers, id)
			removed++
		}
	}
	return removed
}

// Len is the number of carts currently held.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ledgers)
}
