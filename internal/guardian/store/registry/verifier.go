// Package registry provides in-memory implementations of the verifier,
// issuer, key and circuit registries. They are seeded from configuration at
// startup and read-only afterwards, apart from explicit registration calls.
package registry

import (
	"context"
	"fmt"
	"sync"

	"caguard/internal/guardian/models"
	"caguard/pkg/platform/sentinel"
)

// VerifierRegistry resolves verifier servers by id, following the alias map
// for ids that were renamed.
type VerifierRegistry struct {
	mu      sync.RWMutex
	servers map[models.Hash]models.VerifierServer
	aliases map[models.Hash]models.Hash
}

func NewVerifierRegistry() *VerifierRegistry {
	return &VerifierRegistry{
		servers: make(map[models.Hash]models.VerifierServer),
		aliases: make(map[models.Hash]models.Hash),
	}
}

// Register adds or replaces a server.
func (r *VerifierRegistry) Register(server models.VerifierServer) error {
	if server.ID.IsZero() {
		return fmt.Errorf("verifier server id is required")
	}
	if len(server.Addresses) == 0 {
		return fmt.Errorf("verifier server %s has no addresses", server.ID)
	}
	server.Addresses = append([]models.Address(nil), server.Addresses...)
	server.Endpoints = append([]string(nil), server.Endpoints...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.servers[server.ID] = server
	return nil
}

// Alias makes from resolve to the server registered under to. Aliases are
// followed one hop.
func (r *VerifierRegistry) Alias(from, to models.Hash) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[from] = to
}

func (r *VerifierRegistry) Server(_ context.Context, id models.Hash) (*models.VerifierServer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	server, ok := r.servers[id]
	if !ok {
		target, aliased := r.aliases[id]
		if aliased {
			server, ok = r.servers[target]
		}
	}
	if !ok {
		return nil, fmt.Errorf("verifier server %s: %w", id, sentinel.ErrNotFound)
	}
	return &server, nil
}
