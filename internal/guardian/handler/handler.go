package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"caguard/internal/guardian/tally"
	"caguard/internal/guardian/zklogin"
	"caguard/internal/strategy"
	"caguard/pkg/platform/httputil"
	"caguard/pkg/requestcontext"
)

// Tallier counts guardian approvals for one call.
type Tallier interface {
	Tally(ctx context.Context, req tally.Request) (tally.Result, error)
}

// Handler exposes strategy evaluation, approval tallies and nonce derivation.
type Handler struct {
	tallier Tallier
	logger  *slog.Logger
}

func New(tallier Tallier, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{tallier: tallier, logger: logger}
}

// Register mounts the v1 endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/strategy/evaluate", h.HandleEvaluateStrategy)
	r.Post("/approvals/tally", h.HandleTally)
	r.Post("/zk/nonce", h.HandleNonce)
}

// HandleEvaluateStrategy handles POST /v1/strategy/evaluate.
func (h *Handler) HandleEvaluateStrategy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[EvaluateStrategyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	value, err := strategy.Evaluate(req.tree, strategy.Vars(req.Variables))
	if err != nil {
		h.logger.WarnContext(ctx, "strategy evaluation failed", "request_id", requestID, "strategy", req.tree.String(), "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromValue(req.tree, value))
}

// HandleTally handles POST /v1/approvals/tally. An unsatisfied strategy is a
// 200 with satisfied=false; errors mean the mutation must be aborted.
func (h *Handler) HandleTally(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[TallyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.tallier.Tally(ctx, req.ToDomain())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.DebugContext(ctx, "tally served",
		"request_id", requestID,
		"holder_id", req.HolderID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromResult(result, requestcontext.Now(ctx)))
}

// HandleNonce handles POST /v1/zk/nonce.
func (h *Handler) HandleNonce(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[NonceRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, NonceResponse{
		Nonce:     zklogin.ComputeNonce(req.Timestamp, req.manager),
		Timestamp: req.Timestamp,
		Manager:   req.Manager,
	})
}

// HandleHealth handles GET /healthz.
func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
