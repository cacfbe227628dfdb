package audit

import (
	"context"
	"time"
)

// Action names what happened.
type Action string

const (
	// ActionApprovalTallied is emitted once per guardian approval tally.
	ActionApprovalTallied Action = "approval_tallied"
	// ActionTallyAborted is emitted when a tally fails before evaluation.
	ActionTallyAborted Action = "tally_aborted"
)

// Decision outcomes of a tally.
const (
	DecisionSatisfied   = "satisfied"
	DecisionUnsatisfied = "unsatisfied"
	DecisionError       = "error"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	HolderID      string    `json:"holder_id"`
	Action        Action    `json:"action"`
	Operation     string    `json:"operation,omitempty"`
	Decision      string    `json:"decision,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	Approved      int       `json:"approved"`
	GuardianCount int       `json:"guardian_count"`
	Claims        int       `json:"claims"`
	RequestID     string    `json:"request_id,omitempty"`
}

// Store persists or forwards audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}
