package roster

import (
	"sync"

	"pine-rivers/rangekiosk/internal/models/entities"
)

// Store holds the in-memory roster snapshot. Empty at startup; each
// successful sync replaces the snapshot wholesale, never partially.
type Store struct {
	mu      sync.RWMutex
	members []entities.Member
	byID    map[string]entities.Member
}

// NewStore creates an empty roster store
func NewStore() *Store {
	return &Store{byID: make(map[string]entities.Member)}
}

// Replace swaps the entire snapshot. The input is assumed sorted by full
// name (the provider guarantees it); duplicate member ids keep the first row.
func (s *Store) Replace(members []entities.Member) {
	byID := make(map[string]entities.Member, len(members))
	for _, m := range members {
		if _, exists := byID[m.MemberID]; !exists {
			byID[m.MemberID] = m
		}
	}

	s.mu.Lock()
	s.members = members
	s.byID = byID
	s.mu.Unlock()
}

// Members returns the current snapshot in roster order
func (s *Store) Members() []entities.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.Member, len(s.members))
	copy(out, s.members)
	return out
}

// Lookup finds one member by id
func (s *Store) Lookup(memberID string) (entities.Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byID[memberID]
	return m, ok
}

// RangeOfficers returns the roster members flagged as range officers,
// in roster order.
func (s *Store) RangeOfficers() []entities.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ros []entities.Member
	for _, m := range s.members {
		if m.IsRangeOfficer {
			ros = append(ros, m)
		}
	}
	return ros
}

// Size returns the number of members in the snapshot
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members)
}
