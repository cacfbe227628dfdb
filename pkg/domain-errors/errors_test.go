package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodes(t *testing.T) {
	t.Run("wrap keeps cause reachable", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Wrap(cause, CodeInternal, "replay guard lookup")
		assert.ErrorIs(t, err, cause)
		assert.True(t, HasCode(err, CodeInternal))
		assert.Equal(t, "replay guard lookup: connection refused", err.Error())
	})

	t.Run("wrap of nil is nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "unused"))
	})

	t.Run("nested codes are all visible", func(t *testing.T) {
		inner := New(CodeInvariantViolation, "unbound variable")
		outer := Wrap(fmt.Errorf("evaluate: %w", inner), CodeInternal, "tally")
		assert.True(t, HasCode(outer, CodeInternal))
		assert.True(t, Is(outer, CodeInvariantViolation))
		assert.False(t, HasCode(outer, CodeNotFound))
		assert.Equal(t, CodeInternal, CodeOf(outer))
	})

	t.Run("plain errors default to internal", func(t *testing.T) {
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
	})
}
