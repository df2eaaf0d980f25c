package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFound_Wrapped(t *testing.T) {
	err := fmt.Errorf("fetching readme: %w", NewNotFoundError("readme for acme/widget"))

	assert.True(t, IsNotFound(err))
	assert.False(t, IsRateLimited(err))
	assert.Equal(t, ErrCodeNotFound, Code(err))
}

func TestCode_PlainError(t *testing.T) {
	assert.Equal(t, ErrCodeInternal, Code(errors.New("boom")))
	assert.False(t, IsNotFound(errors.New("boom")))
}

func TestAppError_Error(t *testing.T) {
	cause := errors.New("socket closed")
	err := NewInternalError("failed to list repositories", cause)

	assert.Equal(t, "INTERNAL_ERROR: failed to list repositories (socket closed)", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "NOT_FOUND: project x not found", NewNotFoundError("project x").Error())
}
