package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserError(t *testing.T) {
	inner := errors.New("dial tcp: connection refused")
	err := NewUserError("could not reach the notification service", inner)

	assert.Equal(t, "could not reach the notification service: dial tcp: connection refused", err.Error())
	assert.ErrorIs(t, err, inner)

	bare := NewUserError("database path is required", nil)
	assert.Equal(t, "database path is required", bare.Error())
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limit", ErrRateLimit, true},
		{"wrapped rate limit", fmt.Errorf("push: %w", ErrRateLimit), true},
		{"transport failure", fmt.Errorf("%w: connection reset", ErrNotifySend), true},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"explicitly retryable", &RetryableError{Err: errors.New("x"), Retryable: true}, true},
		{"explicitly not retryable", &RetryableError{Err: errors.New("x"), Retryable: false}, false},
		{"wrapper overrides the sentinel", &RetryableError{Err: fmt.Errorf("%w: blocked", ErrNotifySend), Retryable: false}, false},
		{"plain error", errors.New("boom"), false},
		{"not found", ErrNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
