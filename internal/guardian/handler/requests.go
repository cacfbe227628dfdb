package handler

import (
	"strings"

	"caguard/internal/guardian/models"
	"caguard/internal/guardian/tally"
	"caguard/internal/strategy"
	dErrors "caguard/pkg/domain-errors"
)

const maxClaims = 64

// EvaluateStrategyRequest is the body of POST /v1/strategy/evaluate.
type EvaluateStrategyRequest struct {
	Strategy  strategy.Definition `json:"strategy"`
	Variables map[string]int64    `json:"variables"`

	tree *strategy.Tree
}

func (r *EvaluateStrategyRequest) Validate() error {
	if r.Strategy.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "strategy is required")
	}
	tree, err := r.Strategy.Compile()
	if err != nil {
		return err
	}
	r.tree = tree
	return nil
}

// TallyRequest is the body of POST /v1/approvals/tally.
type TallyRequest struct {
	HolderID      string                 `json:"holder_id"`
	OperationName string                 `json:"operation"`
	GuardianCount int                    `json:"guardian_count,omitempty"`
	Guardians     []models.Guardian      `json:"guardians"`
	Claims        []models.GuardianClaim `json:"claims"`
	// Strategy is the holder's judgement strategy; omitted means the
	// configured default.
	Strategy *strategy.Definition `json:"strategy,omitempty"`

	tree *strategy.Tree
}

func (r *TallyRequest) Validate() error {
	r.HolderID = strings.TrimSpace(r.HolderID)
	if r.HolderID == "" {
		return dErrors.New(dErrors.CodeValidation, "holder_id is required")
	}
	r.OperationName = strings.TrimSpace(r.OperationName)
	if r.OperationName == "" {
		return dErrors.New(dErrors.CodeValidation, "operation is required")
	}
	if r.GuardianCount < 0 {
		return dErrors.New(dErrors.CodeValidation, "guardian_count must not be negative")
	}
	if r.Claims == nil {
		return dErrors.New(dErrors.CodeValidation, "claims is required")
	}
	if len(r.Claims) > maxClaims {
		return dErrors.Newf(dErrors.CodeValidation, "at most %d claims are accepted", maxClaims)
	}
	if r.Strategy != nil {
		tree, err := r.Strategy.Compile()
		if err != nil {
			return err
		}
		r.tree = tree
	}
	return nil
}

// ToDomain builds the tally request. Call after Validate.
func (r *TallyRequest) ToDomain() tally.Request {
	return tally.Request{
		HolderID:      models.HolderID(r.HolderID),
		Claims:        r.Claims,
		OperationName: r.OperationName,
		GuardianCount: r.GuardianCount,
		Guardians:     r.Guardians,
		Strategy:      r.tree,
	}
}

// NonceRequest is the body of POST /v1/zk/nonce.
type NonceRequest struct {
	Timestamp int64  `json:"timestamp"`
	Manager   string `json:"manager_address"`

	manager models.Address
}

func (r *NonceRequest) Validate() error {
	if r.Timestamp <= 0 {
		return dErrors.New(dErrors.CodeValidation, "timestamp must be positive unix seconds")
	}
	addr, err := models.ParseAddress(strings.TrimSpace(r.Manager))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "manager_address is invalid")
	}
	r.manager = addr
	return nil
}
