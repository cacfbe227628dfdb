package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"caguard/internal/zk/groth16"
	"caguard/pkg/platform/sentinel"
)

// CircuitRegistry holds prepared verifying keys by circuit id.
type CircuitRegistry struct {
	mu   sync.RWMutex
	keys map[string]*groth16.PreparedKey
}

func NewCircuitRegistry() *CircuitRegistry {
	return &CircuitRegistry{keys: make(map[string]*groth16.PreparedKey)}
}

// Register validates and prepares vk under circuitID.
func (r *CircuitRegistry) Register(circuitID string, vk groth16.VerifyingKey) error {
	if circuitID == "" {
		return fmt.Errorf("circuit id is required")
	}
	prepared, err := vk.Prepare()
	if err != nil {
		return fmt.Errorf("circuit %s: %w", circuitID, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[circuitID] = prepared
	return nil
}

// LoadFile registers the snarkjs verification_key.json at path.
func (r *CircuitRegistry) LoadFile(circuitID, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read verifying key for %s: %w", circuitID, err)
	}
	var vk groth16.VerifyingKey
	if err := json.Unmarshal(raw, &vk); err != nil {
		return fmt.Errorf("decode verifying key for %s: %w", circuitID, err)
	}
	return r.Register(circuitID, vk)
}

func (r *CircuitRegistry) VerifyingKey(_ context.Context, circuitID string) (*groth16.PreparedKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key, ok := r.keys[circuitID]
	if !ok {
		return nil, fmt.Errorf("circuit %s: %w", circuitID, sentinel.ErrNotFound)
	}
	return key, nil
}
