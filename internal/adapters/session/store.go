package session

import (
	"sync"
	"time"

	"github.com/zhilovhub/EasyShop/internal/domain"
)

type entry struct {
	state   domain.CatalogState
	expires time.Time
}

// Store keeps per-session catalog snapshots in memory. Entries expire after
// the configured TTL; expired entries are pruned lazily on access.
type Store struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[string]entry
}

func New(ttl time.Duration) *Store {
	return &Store{ttl: ttl, m: make(map[string]entry)}
}

func (s *Store) Get(id string) (domain.CatalogState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[id]
	if !ok {
		return domain.CatalogState{}, false
	}
	if time.Now().After(e.expires) {
		delete(s.m, id)
		return domain.CatalogState{}, false
	}
	return e.state, true
}

func (s *Store) Put(id string, state domain.CatalogState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[id] = entry{state: state, expires: time.Now().Add(s.ttl)}
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
}

// Sweep drops every expired entry and reports how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	removed := 0
	for id, e := range s.m {
		if now.After(e.expires) {
			delete(s.m, id)
			removed++
		}
	}
	return removed
}
