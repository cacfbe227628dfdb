package registry

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"caguard/internal/guardian/models"
	"caguard/pkg/platform/sentinel"
)

// IssuerRegistry maps zk-capable guardian types to their OIDC issuer and
// holds each issuer's signing keys by kid.
type IssuerRegistry struct {
	mu      sync.RWMutex
	issuers map[models.GuardianType]string
	keys    map[string]map[string]string
}

func NewIssuerRegistry() *IssuerRegistry {
	return &IssuerRegistry{
		issuers: make(map[models.GuardianType]string),
		keys:    make(map[string]map[string]string),
	}
}

// SetIssuer configures the issuer for t.
func (r *IssuerRegistry) SetIssuer(t models.GuardianType, issuer string) error {
	if !t.IsZkCapable() {
		return fmt.Errorf("guardian type %s does not support zk login", t)
	}
	issuer = strings.TrimSpace(issuer)
	if issuer == "" {
		return fmt.Errorf("issuer for %s is empty", t)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.issuers[t] = issuer
	return nil
}

// AddKey stores the base64url RSA modulus of issuer's key kid.
func (r *IssuerRegistry) AddKey(issuer, kid, modulus string) error {
	if issuer == "" || kid == "" {
		return fmt.Errorf("issuer and kid are required")
	}
	if modulus == "" {
		return fmt.Errorf("key %s/%s has an empty modulus", issuer, kid)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.keys[issuer] == nil {
		r.keys[issuer] = make(map[string]string)
	}
	r.keys[issuer][kid] = modulus
	return nil
}

func (r *IssuerRegistry) Issuer(_ context.Context, t models.GuardianType) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	issuer, ok := r.issuers[t]
	if !ok {
		return "", fmt.Errorf("issuer for %s: %w", t, sentinel.ErrNotFound)
	}
	return issuer, nil
}

func (r *IssuerRegistry) PublicKey(_ context.Context, issuer, kid string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	modulus, ok := r.keys[issuer][kid]
	if !ok {
		return "", fmt.Errorf("key %s/%s: %w", issuer, kid, sentinel.ErrNotFound)
	}
	return modulus, nil
}
