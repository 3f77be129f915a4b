package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNotFoundError(ErrNotFound))
	assert.True(t, IsNotFoundError(ErrUserNotFound))
	assert.True(t, IsNotFoundError(ErrNotificationNotFound))
	assert.True(t, IsNotFoundError(fmt.Errorf("lookup: %w", ErrUserNotFound)))
	assert.False(t, IsNotFoundError(ErrDuplicate))
	assert.False(t, IsNotFoundError(errors.New("connection refused")))
	assert.False(t, IsNotFoundError(nil))
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	inner := errors.New("timeout")
	err := NewStoreError("notification", "reserve", "insert failed", inner)

	assert.Contains(t, err.Error(), "reserve operation on notification failed")
	assert.Contains(t, err.Error(), "timeout")
	assert.ErrorIs(t, err, inner)

	noInner := NewStoreError("user", "get", "bad id", nil)
	assert.Equal(t, "get operation on user failed: bad id", noInner.Error())
}
