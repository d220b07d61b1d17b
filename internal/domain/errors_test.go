package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindConflict, KindOf(NewConflict("dup")))
	assert.Equal(t, KindNotFound, KindOf(NewNotFound("gone")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindInternal, KindOf(WrapInternal(errors.New("boom"))))
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("while assigning: %w", NewForbidden("nope"))
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestError_Is(t *testing.T) {
	sentinel := NewConflict("workout already assigned to this client")

	assert.ErrorIs(t, NewConflict("workout already assigned to this client"), sentinel)
	assert.NotErrorIs(t, NewConflict("different message"), sentinel)
	assert.NotErrorIs(t, NewNotFound("workout already assigned to this client"), sentinel)
}

func TestWrapInternal_PreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapInternal(cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal error", err.Error())
}
