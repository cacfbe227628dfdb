package tally

import (
	"context"
)

// TxRunner runs fn as one unit of work; an error from fn undoes every store
// write fn made.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Atomic wraps a Service so a failed tally leaves no replay guard writes
// behind. Unsatisfied tallies are not failures and commit.
type Atomic struct {
	svc    *Service
	runner TxRunner
}

func NewAtomic(svc *Service, runner TxRunner) *Atomic {
	return &Atomic{svc: svc, runner: runner}
}

func (a *Atomic) Tally(ctx context.Context, req Request) (Result, error) {
	var result Result
	err := a.runner.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		result, err = a.svc.Tally(ctx, req)
		return err
	})
	if err != nil {
		return Result{}, err
	}
	return result, nil
}
