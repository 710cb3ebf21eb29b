// Package store keeps parsed candidate profiles in process memory for the
// lifetime of the process, or until an explicit clear. It is constructed
// once and injected, never a package-level singleton, so tests get isolated
// instances.
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fmuoria/ats-filter/internal/models"
)

// ErrDuplicateID is returned by Add on an identifier collision. The caller
// must generate a fresh identifier and retry.
var ErrDuplicateID = errors.New("duplicate candidate id")

// CandidateStore is a registry of parsed profiles keyed by identifier.
// Mutations (Add, Clear) are serialized; reads see each mutation atomically.
type CandidateStore struct {
	mu       sync.RWMutex
	profiles map[string]*models.ParsedProfile
	order    []string
}

// New creates an empty store.
func New() *CandidateStore {
	return &CandidateStore{
		profiles: make(map[string]*models.ParsedProfile),
	}
}

// Add inserts a profile under its identifier.
func (s *CandidateStore) Add(p *models.ParsedProfile) error {
	if p == nil || p.ID == "" {
		return errors.New("profile with empty id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.profiles[p.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
	}
	s.profiles[p.ID] = p
	s.order = append(s.order, p.ID)
	return nil
}

// GetByIDs returns the profiles for the requested identifiers in the order
// requested. Unknown identifiers are omitted; the minimum-cardinality check
// for compare belongs to the caller, not the store.
func (s *CandidateStore) GetByIDs(ids []string) []*models.ParsedProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.ParsedProfile, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// All returns a snapshot of the current contents in insertion order.
func (s *CandidateStore) All() []*models.ParsedProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.ParsedProfile, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.profiles[id])
	}
	return out
}

// Len reports the number of stored profiles.
func (s *CandidateStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Clear empties the store unconditionally. Irreversible.
func (s *CandidateStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = make(map[string]*models.ParsedProfile)
	s.order = nil
}
