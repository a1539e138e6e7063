package client

import "sync"

// Ticket orders requests by the time they were issued
type Ticket uint64

// Sequencer hands out request tickets and decides whether a response may
// still be applied. A response is applied only when its ticket is newer than
// the last one applied for the same key, so a slow early request cannot
// overwrite the result of a later one.
type Sequencer struct {
	mu      sync.Mutex
	next    Ticket
	applied map[string]Ticket
}

// NewSequencer creates a new Sequencer
func NewSequencer() *Sequencer {
	return &Sequencer{applied: make(map[string]Ticket)}
}

// Issue returns a ticket newer than every ticket issued before
func (s *Sequencer) Issue() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

// Admit records t for key and reports whether it is newer than the last
// ticket admitted for key
func (s *Sequencer) Admit(key string, t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.admitLocked(key, t)
}

// AdmitAll admits t for key and then for each of the item keys that have not
// seen a newer ticket. It returns false when t is stale for key itself, and
// otherwise the item keys that were admitted.
func (s *Sequencer) AdmitAll(key string, t Ticket, items []string) (bool, map[string]bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.admitLocked(key, t) {
		return false, nil
	}
	admitted := make(map[string]bool, len(items))
	for _, item := range items {
		admitted[item] = s.admitLocked(item, t)
	}
	return true, admitted
}

// Last returns the newest ticket admitted for key
func (s *Sequencer) Last(key string) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied[key]
}

func (s *Sequencer) admitLocked(key string, t Ticket) bool {
	if t <= s.applied[key] {
		return false
	}
	s.applied[key] = t
	return true
}
