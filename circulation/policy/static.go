package policy

import (
	"context"
	"fmt"
	"sync"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
)

// StaticStore serves policies from memory.
type StaticStore struct {
	mu       sync.RWMutex
	fallback *core.LibraryPolicy
	policies map[core.LibraryIDString]core.LibraryPolicy
}

// NewStaticStore creates a store with the given library policies.
func NewStaticStore(policies ...core.LibraryPolicy) *StaticStore {
	s := &StaticStore{policies: make(map[core.LibraryIDString]core.LibraryPolicy, len(policies))}

	for _, p := range policies {
		s.policies[p.LibraryID] = p
	}

	return s
}

// WithFallback makes the store answer unknown libraries with a copy of fallback.
func (s *StaticStore) WithFallback(fallback core.LibraryPolicy) *StaticStore {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fallback = &fallback

	return s
}

// Set replaces the policy of one library.
func (s *StaticStore) Set(p core.LibraryPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.policies[p.LibraryID] = p
}

// PolicyFor returns the policy of the library, the fallback, or core.ErrNotFound.
func (s *StaticStore) PolicyFor(_ context.Context, libraryID core.LibraryIDString) (core.LibraryPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.policies[libraryID]; ok {
		return p, nil
	}

	if s.fallback != nil {
		p := *s.fallback
		p.LibraryID = libraryID

		return p, nil
	}

	return core.LibraryPolicy{}, fmt.Errorf("%w: policy of library %s", core.ErrNotFound, libraryID)
}
