package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, ErrConnection.Code, ErrConnection.Message)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection failed")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestFromErrorNormalizes(t *testing.T) {
	assert.Nil(t, FromError(nil))

	typed := HTTPStatus(503)
	assert.Same(t, typed, FromError(typed))

	wrapped := fmt.Errorf("outer: %w", typed)
	assert.Equal(t, ErrHTTPStatus.Code, FromError(wrapped).Code)

	plain := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, plain.Code)
}

func TestIsMatchesByCode(t *testing.T) {
	assert.True(t, Is(HTTPStatus(500), ErrHTTPStatus))
	assert.True(t, Is(Wrap(errors.New("x"), ErrTimeout.Code, "slow"), ErrTimeout))
	assert.False(t, Is(errors.New("boom"), ErrTimeout))
	assert.False(t, Is(nil, ErrTimeout))
}

func TestHTTPStatusMessage(t *testing.T) {
	assert.Equal(t, "unexpected HTTP status 429", HTTPStatus(429).Error())
}
