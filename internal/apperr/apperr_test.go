package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelMatchingByKind(t *testing.T) {
	err := Newf(KindAlreadyClaimed, "request %s already claimed", "r1")
	assert.ErrorIs(t, err, ErrAlreadyClaimed)
	assert.NotErrorIs(t, err, ErrInvalidTransition)
}

func TestStorageWrapsCause(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := Storage("request claim", cause)
	assert.Equal(t, KindStorageFailure, KindOf(err))
	assert.ErrorIs(t, err, ErrStorageFailure)
	assert.Equal(t, "request claim failed", DisplayMessage(err))
	assert.ErrorContains(t, err, "connection reset")
}

func TestStorageMapsDeadlineToTimeout(t *testing.T) {
	err := Storage("request list", fmt.Errorf("find: %w", context.DeadlineExceeded))
	assert.Equal(t, KindTimeout, KindOf(err))
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, KindStorageFailure, KindOf(errors.New("boom")))
	assert.Equal(t, "internal error", DisplayMessage(errors.New("boom")))
}
