package tx

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "caguard/pkg/domain-errors"
)

func TestFromWithoutTx(t *testing.T) {
	_, ok := From(context.Background())
	assert.False(t, ok)
	assert.Equal(t, context.Background(), WithTx(context.Background(), nil))
}

func TestRunInTxCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := Runner{}.RunInTx(ctx, func(context.Context) error {
		called = true
		return nil
	})
	assert.True(t, dErrors.Is(err, dErrors.CodeTimeout))
	assert.False(t, called)
}

func TestRunInTxJoinsOuterTransaction(t *testing.T) {
	outer := &sql.Tx{}
	ctx := WithTx(context.Background(), outer)

	var inner *sql.Tx
	// DB is nil: a nested call must not begin a new transaction.
	err := Runner{}.RunInTx(ctx, func(ctx context.Context) error {
		inner, _ = From(ctx)
		return nil
	})
	assert.NoError(t, err)
	assert.Same(t, outer, inner)
}
