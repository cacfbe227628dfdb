// Package ports defines the collaborator interfaces the approval engine
// consumes. Stores and registries implement them; services depend only on
// these contracts.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"caguard/internal/guardian/models"
	"caguard/internal/zk/groth16"
	"caguard/pkg/platform/audit"
)

// SignatureGuard remembers accepted verification-document signatures. It
// only ever grows.
type SignatureGuard interface {
	// Seen reports whether key was marked before.
	Seen(ctx context.Context, key models.Hash) (bool, error)

	// Mark atomically records key and reports whether it was fresh. A false
	// result means another caller marked it first.
	Mark(ctx context.Context, key models.Hash) (bool, error)
}

// NonceGuard remembers zk nonces consumed per holder. It only ever grows.
type NonceGuard interface {
	// Consume atomically records (holder, nonce) and reports whether it was
	// fresh. A false result means the pair was consumed before.
	Consume(ctx context.Context, holder models.HolderID, nonce string) (bool, error)
}

// VerifierRegistry resolves verifier servers by id. Ids that were renamed
// resolve through the registry's alias map. Unknown ids return
// sentinel.ErrNotFound.
type VerifierRegistry interface {
	Server(ctx context.Context, id models.Hash) (*models.VerifierServer, error)
}

// IssuerRegistry resolves the OIDC issuer configured for a zk-capable
// guardian type.
type IssuerRegistry interface {
	Issuer(ctx context.Context, t models.GuardianType) (string, error)
}

// KeyRegistry resolves issuer signing keys. PublicKey returns the base64url
// RSA modulus of issuer's key kid.
type KeyRegistry interface {
	PublicKey(ctx context.Context, issuer, kid string) (string, error)
}

// CircuitRegistry resolves prepared Groth16 verifying keys by circuit id.
type CircuitRegistry interface {
	VerifyingKey(ctx context.Context, circuitID string) (*groth16.PreparedKey, error)
}

// SignatureClaimVerifier runs the verification-document signature protocol.
type SignatureClaimVerifier interface {
	Verify(ctx context.Context, claim models.GuardianClaim, operationName string) (bool, error)
}

// ZkClaimVerifier runs the zk identity proof protocol.
type ZkClaimVerifier interface {
	Verify(ctx context.Context, claim models.GuardianClaim, holder models.HolderID) (bool, error)
}

// AuditPublisher emits audit events for tallies.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
