package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCallScopedValues(t *testing.T) {
	t.Run("time falls back to wall clock", func(t *testing.T) {
		before := time.Now()
		assert.False(t, Now(context.Background()).Before(before))
	})

	t.Run("injected time wins", func(t *testing.T) {
		fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, fixed, Now(WithTime(context.Background(), fixed)))
	})

	t.Run("chain id reports presence", func(t *testing.T) {
		_, ok := ChainID(context.Background())
		assert.False(t, ok)

		id, ok := ChainID(WithChainID(context.Background(), 9992731))
		assert.True(t, ok)
		assert.Equal(t, int64(9992731), id)
	})

	t.Run("request id round trips", func(t *testing.T) {
		assert.Empty(t, RequestID(context.Background()))
		assert.Equal(t, "req-1", RequestID(WithRequestID(context.Background(), "req-1")))
	})
}
