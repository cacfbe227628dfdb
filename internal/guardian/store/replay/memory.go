// Package replay provides the replay guards: the signature guard and the
// per-holder nonce guard. Both only ever grow.
package replay

import (
	"context"
	"sync"

	"caguard/internal/guardian/models"
)

// InMemoryStore implements both guards in process memory.
type InMemoryStore struct {
	mu         sync.RWMutex
	signatures map[models.Hash]struct{}
	nonces     map[nonceKey]struct{}
}

type nonceKey struct {
	holder models.HolderID
	nonce  string
}

// NewInMemoryStore creates an empty in-memory replay store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		signatures: make(map[models.Hash]struct{}),
		nonces:     make(map[nonceKey]struct{}),
	}
}

func (s *InMemoryStore) Seen(_ context.Context, key models.Hash) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.signatures[key]
	return ok, nil
}

func (s *InMemoryStore) Mark(_ context.Context, key models.Hash) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.signatures[key]; ok {
		return false, nil
	}
	s.signatures[key] = struct{}{}
	return true, nil
}

func (s *InMemoryStore) Consume(_ context.Context, holder models.HolderID, nonce string) (bool, error) {
	k := nonceKey{holder: holder, nonce: nonce}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.nonces[k]; ok {
		return false, nil
	}
	s.nonces[k] = struct{}{}
	return true, nil
}

// Len returns the number of marked signatures and consumed nonces.
func (s *InMemoryStore) Len() (signatures, nonces int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.signatures), len(s.nonces)
}
