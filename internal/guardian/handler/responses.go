package handler

import (
	"time"

	"caguard/internal/guardian/tally"
	"caguard/internal/strategy"
)

// EvaluateStrategyResponse is the response of POST /v1/strategy/evaluate.
// Exactly one of Bool and Int is set, matching Kind.
type EvaluateStrategyResponse struct {
	Strategy string `json:"strategy"`
	Kind     string `json:"kind"`
	Bool     *bool  `json:"bool,omitempty"`
	Int      *int64 `json:"int,omitempty"`
}

func FromValue(tree *strategy.Tree, v strategy.Value) EvaluateStrategyResponse {
	resp := EvaluateStrategyResponse{Strategy: tree.String(), Kind: v.Kind().String()}
	if b, err := v.AsBool(); err == nil {
		resp.Bool = &b
	}
	if i, err := v.AsInt(); err == nil {
		resp.Int = &i
	}
	return resp
}

// TallyResponse is the response of POST /v1/approvals/tally.
type TallyResponse struct {
	ApprovedCount int       `json:"approved_count"`
	Satisfied     bool      `json:"satisfied"`
	EvaluatedAt   time.Time `json:"evaluated_at"`
}

func FromResult(result tally.Result, at time.Time) TallyResponse {
	return TallyResponse{
		ApprovedCount: result.ApprovedCount,
		Satisfied:     result.Satisfied,
		EvaluatedAt:   at.UTC(),
	}
}

// NonceResponse is the response of POST /v1/zk/nonce.
type NonceResponse struct {
	Nonce     string `json:"nonce"`
	Timestamp int64  `json:"timestamp"`
	Manager   string `json:"manager_address"`
}
