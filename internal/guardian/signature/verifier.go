// Package signature verifies guardian claims backed by a verification
// document signed by a registered verifier server.
package signature

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"caguard/internal/guardian/document"
	"caguard/internal/guardian/metrics"
	"caguard/internal/guardian/models"
	"caguard/internal/guardian/ports"
	dErrors "caguard/pkg/domain-errors"
	"caguard/pkg/platform/sentinel"
	pkgstrings "caguard/pkg/platform/strings"
	"caguard/pkg/requestcontext"
)

// DocumentValidity is how long after its verification time a document is
// accepted.
const DocumentValidity = time.Hour

// DefaultChainCheckExempt lists operations whose documents may come from any
// chain.
var DefaultChainCheckExempt = []string{
	models.OperationApprove.String(),
	models.OperationModifyTransferLimit.String(),
}

// Verifier runs the verification-document signature protocol.
type Verifier struct {
	guard     ports.SignatureGuard
	verifiers ports.VerifierRegistry
	logger    *slog.Logger
	metrics   *metrics.Metrics

	allowLegacy bool
	chainExempt map[string]struct{}
	chainID     int64
	hasChainID  bool
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

// WithLegacyDocuments accepts 5-field documents that bind no operation.
func WithLegacyDocuments(allow bool) Option {
	return func(v *Verifier) {
		v.allowLegacy = allow
	}
}

// WithChainCheckExempt replaces the operations exempt from the chain id check.
// Names are matched case-insensitively.
func WithChainCheckExempt(operations ...string) Option {
	return func(v *Verifier) {
		v.chainExempt = exemptSet(operations)
	}
}

// WithChainID sets the chain id used when the context carries none.
func WithChainID(id int64) Option {
	return func(v *Verifier) {
		v.chainID = id
		v.hasChainID = true
	}
}

// New creates a signature verifier.
func New(guard ports.SignatureGuard, verifiers ports.VerifierRegistry, opts ...Option) (*Verifier, error) {
	if guard == nil {
		return nil, fmt.Errorf("signature guard is required")
	}
	if verifiers == nil {
		return nil, fmt.Errorf("verifier registry is required")
	}
	v := &Verifier{
		guard:       guard,
		verifiers:   verifiers,
		logger:      slog.Default(),
		chainExempt: exemptSet(DefaultChainCheckExempt),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

func exemptSet(operations []string) map[string]struct{} {
	set := make(map[string]struct{}, len(operations))
	for _, op := range pkgstrings.DedupeAndTrimLower(operations) {
		set[op] = struct{}{}
	}
	return set
}

// Verify reports whether claim proves approval of operationName. Protocol
// failures return false; errors are reserved for infrastructure failures.
func (v *Verifier) Verify(ctx context.Context, claim models.GuardianClaim, operationName string) (bool, error) {
	reason, err := v.check(ctx, claim, operationName)
	if err != nil {
		v.logger.ErrorContext(ctx, "signature verification failed",
			"guardian_type", claim.Type.String(),
			"operation", operationName,
			"error", err,
		)
		return false, err
	}
	v.metrics.ObserveClaim(metrics.MethodSignature, string(reason))
	if reason != models.ReasonNone {
		v.logger.DebugContext(ctx, "guardian claim rejected",
			"method", metrics.MethodSignature,
			"guardian_type", claim.Type.String(),
			"identifier_hash", claim.IdentifierHash.String(),
			"operation", operationName,
			"reason", string(reason),
		)
		return false, nil
	}
	return true, nil
}

func (v *Verifier) check(ctx context.Context, claim models.GuardianClaim, operationName string) (models.RejectReason, error) {
	info := claim.VerificationInfo
	if info.VerificationDocument == "" {
		return models.ReasonEmptyDocument, nil
	}

	doc, err := document.Parse(info.VerificationDocument, v.allowLegacy)
	switch {
	case errors.Is(err, document.ErrLegacyDisabled):
		return models.ReasonLegacyDisabled, nil
	case err != nil:
		return models.ReasonMalformedDocument, nil
	}

	replayKey := models.HashOf(info.Signature)
	seen, err := v.seen(ctx, replayKey)
	if err != nil {
		return models.ReasonNone, err
	}
	if seen {
		return models.ReasonSignatureReplayed, nil
	}

	now := requestcontext.Now(ctx)
	if !doc.VerificationTime.Add(DocumentValidity).After(now) {
		return models.ReasonExpired, nil
	}

	if doc.GuardianType != claim.Type || doc.IdentifierHash != claim.IdentifierHash {
		return models.ReasonIdentityMismatch, nil
	}

	signer, err := RecoverAddress(info.Signature, Digest(info.VerificationDocument))
	if err != nil {
		return models.ReasonBadSignature, nil
	}
	server, err := v.verifiers.Server(ctx, info.ID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.ReasonUnknownVerifier, nil
	}
	if err != nil {
		return models.ReasonNone, dErrors.Wrap(err, dErrors.CodeInternal, "resolve verifier server")
	}
	if signer != doc.VerifierAddress || !server.HasAddress(signer) {
		return models.ReasonVerifierMismatch, nil
	}

	// The signature is spent from here on, even if the operation binding
	// below does not match.
	fresh, err := v.mark(ctx, replayKey)
	if err != nil {
		return models.ReasonNone, err
	}
	if !fresh {
		return models.ReasonSignatureReplayed, nil
	}

	if doc.Legacy() {
		return models.ReasonNone, nil
	}

	op, err := models.ParseOperationType(doc.OperationType)
	if err != nil || !op.Matches(operationName) {
		return models.ReasonOperationMismatch, nil
	}

	if doc.HasChainID() && !v.exempt(operationName) {
		current, ok := v.currentChain(ctx)
		if !ok || current != doc.ChainID {
			return models.ReasonChainMismatch, nil
		}
	}
	return models.ReasonNone, nil
}

func (v *Verifier) exempt(operationName string) bool {
	_, ok := v.chainExempt[strings.ToLower(strings.TrimSpace(operationName))]
	return ok
}

func (v *Verifier) currentChain(ctx context.Context) (int64, bool) {
	if id, ok := requestcontext.ChainID(ctx); ok {
		return id, true
	}
	return v.chainID, v.hasChainID
}

func (v *Verifier) seen(ctx context.Context, key models.Hash) (bool, error) {
	start := time.Now()
	seen, err := v.guard.Seen(ctx, key)
	v.metrics.ObserveGuard("signature", "seen", time.Since(start))
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "check signature replay guard")
	}
	return seen, nil
}

func (v *Verifier) mark(ctx context.Context, key models.Hash) (bool, error) {
	start := time.Now()
	fresh, err := v.guard.Mark(ctx, key)
	v.metrics.ObserveGuard("signature", "mark", time.Since(start))
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "mark signature replay guard")
	}
	return fresh, nil
}
