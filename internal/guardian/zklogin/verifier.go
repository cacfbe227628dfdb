// Package zklogin verifies guardian claims backed by a Groth16 proof over an
// OIDC identity token.
//
// The nonce guard is written before the proof is checked: a nonce presented
// with a failing proof is spent.
package zklogin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"caguard/internal/guardian/metrics"
	"caguard/internal/guardian/models"
	"caguard/internal/guardian/ports"
	dErrors "caguard/pkg/domain-errors"
	"caguard/pkg/platform/sentinel"
)

// Verifier runs the zk identity proof protocol.
type Verifier struct {
	nonces   ports.NonceGuard
	issuers  ports.IssuerRegistry
	keys     ports.KeyRegistry
	circuits ports.CircuitRegistry
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures the Verifier.
type Option func(*Verifier)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Verifier) {
		v.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(v *Verifier) {
		v.metrics = m
	}
}

// New creates a zk verifier.
func New(nonces ports.NonceGuard, issuers ports.IssuerRegistry, keys ports.KeyRegistry, circuits ports.CircuitRegistry, opts ...Option) (*Verifier, error) {
	if nonces == nil {
		return nil, fmt.Errorf("nonce guard is required")
	}
	if issuers == nil || keys == nil {
		return nil, fmt.Errorf("issuer and key registries are required")
	}
	if circuits == nil {
		return nil, fmt.Errorf("circuit registry is required")
	}
	v := &Verifier{
		nonces:   nonces,
		issuers:  issuers,
		keys:     keys,
		circuits: circuits,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Verify reports whether claim carries a valid identity proof for holder.
// Protocol failures return false; errors are reserved for infrastructure
// failures.
func (v *Verifier) Verify(ctx context.Context, claim models.GuardianClaim, holder models.HolderID) (bool, error) {
	reason, err := v.check(ctx, claim, holder)
	if err != nil {
		v.logger.ErrorContext(ctx, "zk verification failed",
			"holder_id", holder.String(),
			"guardian_type", claim.Type.String(),
			"error", err,
		)
		return false, err
	}
	v.metrics.ObserveClaim(metrics.MethodZk, string(reason))
	if reason != models.ReasonNone {
		v.logger.DebugContext(ctx, "guardian claim rejected",
			"method", metrics.MethodZk,
			"holder_id", holder.String(),
			"guardian_type", claim.Type.String(),
			"identifier_hash", claim.IdentifierHash.String(),
			"reason", string(reason),
		)
		return false, nil
	}
	return true, nil
}

func (v *Verifier) check(ctx context.Context, claim models.GuardianClaim, holder models.HolderID) (models.RejectReason, error) {
	if holder.IsNil() {
		return models.ReasonMissingHolder, nil
	}
	if !claim.Type.IsZkCapable() {
		return models.ReasonNotZkCapable, nil
	}
	info := claim.ZkLoginInfo
	if info == nil {
		return models.ReasonMalformedProof, nil
	}

	vk, err := v.circuits.VerifyingKey(ctx, info.CircuitID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.ReasonUnknownCircuit, nil
	}
	if err != nil {
		return models.ReasonNone, dErrors.Wrap(err, dErrors.CodeInternal, "resolve verifying key")
	}

	issuer, err := v.issuers.Issuer(ctx, claim.Type)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.ReasonIssuerMismatch, nil
	}
	if err != nil {
		return models.ReasonNone, dErrors.Wrap(err, dErrors.CodeInternal, "resolve issuer")
	}
	if issuer != info.Issuer {
		return models.ReasonIssuerMismatch, nil
	}

	if info.Nonce == "" {
		return models.ReasonEmptyNonce, nil
	}
	start := time.Now()
	fresh, err := v.nonces.Consume(ctx, holder, info.Nonce)
	v.metrics.ObserveGuard("nonce", "consume", time.Since(start))
	if err != nil {
		return models.ReasonNone, dErrors.Wrap(err, dErrors.CodeInternal, "consume nonce")
	}
	if !fresh {
		return models.ReasonNonceReused, nil
	}
	if info.Nonce != ComputeNonce(info.NoncePayload.Timestamp, info.NoncePayload.ManagerAddress) {
		return models.ReasonNonceMismatch, nil
	}

	modulus, err := v.keys.PublicKey(ctx, info.Issuer, info.Kid)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.ReasonUnknownKey, nil
	}
	if err != nil {
		return models.ReasonNone, dErrors.Wrap(err, dErrors.CodeInternal, "resolve issuer key")
	}
	if modulus == "" {
		return models.ReasonUnknownKey, nil
	}

	inputs, err := PublicInputs(claim.IdentifierHash, info.Nonce, modulus, info.Salt)
	if err != nil {
		return models.ReasonMalformedKey, nil
	}
	if !info.Proof.WellFormed() {
		return models.ReasonMalformedProof, nil
	}
	ok, err := vk.Verify(info.Proof, inputs)
	if err != nil {
		v.logger.DebugContext(ctx, "proof not checkable", "circuit_id", info.CircuitID, "error", err)
		return models.ReasonMalformedProof, nil
	}
	if !ok {
		return models.ReasonProofRejected, nil
	}
	return models.ReasonNone, nil
}
