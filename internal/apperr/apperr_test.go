package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad %s", "input")))
	assert.Equal(t, KindConflict, KindOf(Conflict("taken")))
	assert.Equal(t, KindAuthorization, KindOf(Authorization("no")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("gone")))
	assert.Equal(t, KindStore, KindOf(Store("failed", errors.New("disk"))))
	assert.Equal(t, KindStore, KindOf(errors.New("plain")))

	wrapped := fmt.Errorf("while saving: %w", Conflict("taken"))
	assert.Equal(t, KindConflict, KindOf(wrapped))
}

func TestIs(t *testing.T) {
	err := NotFound("Task not found")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))

	cause := errors.New("connection reset")
	storeErr := Store("failed to access task", cause)
	assert.True(t, errors.Is(storeErr, ErrStore))
	assert.True(t, errors.Is(storeErr, cause))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Task not found", Message(NotFound("Task not found")))
	assert.Equal(t, "Internal server error", Message(errors.New("boom")))
	assert.Contains(t, Store("failed to access task", errors.New("boom")).Error(), "boom")
}
