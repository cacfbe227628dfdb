// Package tally counts verified guardian approvals for one guardian-gated call
// and evaluates the holder's judgement strategy against the count.
package tally

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"caguard/internal/guardian/metrics"
	"caguard/internal/guardian/models"
	"caguard/internal/guardian/ports"
	"caguard/internal/strategy"
	dErrors "caguard/pkg/domain-errors"
	audit "caguard/pkg/platform/audit"
	"caguard/pkg/requestcontext"
)

const tracerName = "caguard/tally"

// Request is one guardian-gated call.
type Request struct {
	HolderID      models.HolderID
	Claims        []models.GuardianClaim
	OperationName string
	// GuardianCount is the holder's total guardian count as the strategy sees
	// it. Zero means len(Guardians).
	GuardianCount int
	Guardians     []models.Guardian
	// Strategy nil means the configured default.
	Strategy *strategy.Tree
}

func (r Request) guardianCount() int {
	if r.GuardianCount > 0 {
		return r.GuardianCount
	}
	return len(r.Guardians)
}

// Result of a tally. An unsatisfied strategy is not an error.
type Result struct {
	ApprovedCount int
	Satisfied     bool
}

// Service coordinates claim verification and strategy evaluation.
type Service struct {
	signatures      ports.SignatureClaimVerifier
	zk              ports.ZkClaimVerifier
	defaultStrategy *strategy.Tree
	auditor         ports.AuditPublisher
	logger          *slog.Logger
	metrics         *metrics.Metrics
	tracer          trace.Tracer
}

// Option configures the Service.
type Option func(*Service)

// WithDefaultStrategy replaces strategy.Default for holders without one.
func WithDefaultStrategy(t *strategy.Tree) Option {
	return func(s *Service) {
		if t != nil {
			s.defaultStrategy = t
		}
	}
}

// WithAuditPublisher emits one audit event per tally.
func WithAuditPublisher(p ports.AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer overrides the global otel tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New creates a tally service.
func New(signatures ports.SignatureClaimVerifier, zk ports.ZkClaimVerifier, opts ...Option) (*Service, error) {
	if signatures == nil {
		return nil, fmt.Errorf("signature verifier is required")
	}
	if zk == nil {
		return nil, fmt.Errorf("zk verifier is required")
	}
	s := &Service{
		signatures:      signatures,
		zk:              zk,
		defaultStrategy: strategy.MustCompile(strategy.Default()),
		logger:          slog.Default(),
		tracer:          otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Tally verifies req's claims and evaluates the strategy. Every error is
// fatal for the call: the caller must abort the mutation. Validation errors
// are returned before any replay guard is touched.
func (s *Service) Tally(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "guardian.tally", trace.WithAttributes(
		attribute.String("holder_id", req.HolderID.String()),
		attribute.String("operation", req.OperationName),
		attribute.Int("claims", len(req.Claims)),
	))
	defer span.End()

	result, err := s.tally(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "tally failed")
		s.logger.ErrorContext(ctx, "approval tally failed",
			"holder_id", req.HolderID.String(),
			"operation", req.OperationName,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		s.emit(ctx, req, Result{}, err)
		return Result{}, err
	}

	span.SetAttributes(
		attribute.Int("approved", result.ApprovedCount),
		attribute.Bool("satisfied", result.Satisfied),
	)
	s.metrics.ObserveTally(req.OperationName, result.Satisfied, time.Since(start))
	s.logger.InfoContext(ctx, "approval tallied",
		"holder_id", req.HolderID.String(),
		"operation", req.OperationName,
		"approved", result.ApprovedCount,
		"satisfied", result.Satisfied,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.emit(ctx, req, result, nil)
	return result, nil
}

func (s *Service) tally(ctx context.Context, req Request) (Result, error) {
	if req.HolderID.IsNil() {
		return Result{}, dErrors.New(dErrors.CodeBadRequest, "holder id is required")
	}
	if req.Claims == nil {
		return Result{}, dErrors.New(dErrors.CodeBadRequest, "guardian claims are required")
	}
	tree := req.Strategy
	if tree == nil {
		tree = s.defaultStrategy
	}
	if tree.ResultKind() != strategy.ValueBool {
		return Result{}, dErrors.Newf(dErrors.CodeInvariantViolation, "strategy %s yields %s, not a boolean", tree, tree.ResultKind())
	}
	vars := strategy.Vars{
		strategy.VarGuardianCount:         int64(req.guardianCount()),
		strategy.VarGuardianApprovedCount: 0,
	}
	if err := tree.CheckBound(vars); err != nil {
		return Result{}, err
	}

	registered := make(map[models.GuardianKey]struct{}, len(req.Guardians))
	for _, g := range req.Guardians {
		registered[g.Key()] = struct{}{}
	}

	approved := 0
	for _, claim := range Dedup(req.Claims) {
		if _, ok := registered[claim.Key()]; !ok {
			s.metrics.ObserveClaim(method(claim), string(models.ReasonNotGuardian))
			s.logger.DebugContext(ctx, "claim skipped", "holder_id", req.HolderID.String(), "reason", string(models.ReasonNotGuardian))
			continue
		}
		ok, err := s.verify(ctx, claim, req)
		if err != nil {
			return Result{}, err
		}
		if ok {
			approved++
		}
	}

	vars[strategy.VarGuardianApprovedCount] = int64(approved)
	satisfied, err := strategy.EvaluateBool(tree, vars)
	if err != nil {
		return Result{}, err
	}
	return Result{ApprovedCount: approved, Satisfied: satisfied}, nil
}

func (s *Service) verify(ctx context.Context, claim models.GuardianClaim, req Request) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "guardian.verify_claim", trace.WithAttributes(
		attribute.String("method", method(claim)),
		attribute.String("guardian_type", claim.Type.String()),
	))
	defer span.End()

	var (
		ok  bool
		err error
	)
	if claim.UsesZk() {
		ok, err = s.zk.Verify(ctx, claim, req.HolderID)
	} else {
		ok, err = s.signatures.Verify(ctx, claim, req.OperationName)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "claim verification failed")
		return false, err
	}
	span.SetAttributes(attribute.Bool("approved", ok))
	return ok, nil
}

func method(claim models.GuardianClaim) string {
	if claim.UsesZk() {
		return metrics.MethodZk
	}
	return metrics.MethodSignature
}

// Dedup keeps the first claim per guardian identity, preserving order.
func Dedup(claims []models.GuardianClaim) []models.GuardianClaim {
	seen := make(map[models.GuardianKey]struct{}, len(claims))
	out := make([]models.GuardianClaim, 0, len(claims))
	for _, c := range claims {
		if _, dup := seen[c.Key()]; dup {
			continue
		}
		seen[c.Key()] = struct{}{}
		out = append(out, c)
	}
	return out
}

func (s *Service) emit(ctx context.Context, req Request, result Result, tallyErr error) {
	if s.auditor == nil || req.HolderID.IsNil() {
		return
	}
	event := audit.Event{
		Timestamp:     requestcontext.Now(ctx),
		HolderID:      req.HolderID.String(),
		Action:        audit.ActionApprovalTallied,
		Operation:     req.OperationName,
		Approved:      result.ApprovedCount,
		GuardianCount: req.guardianCount(),
		Claims:        len(req.Claims),
		RequestID:     requestcontext.RequestID(ctx),
	}
	switch {
	case tallyErr != nil:
		event.Action = audit.ActionTallyAborted
		event.Decision = audit.DecisionError
		event.Reason = string(dErrors.CodeOf(tallyErr))
	case result.Satisfied:
		event.Decision = audit.DecisionSatisfied
	default:
		event.Decision = audit.DecisionUnsatisfied
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"holder_id", event.HolderID,
			"action", string(event.Action),
			"error", err,
		)
	}
}
