package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastOpts() RetryOptions {
	return RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}
}

func TestWithRetrySucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}, fastOpts())

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		return errors.New("always fails")
	}, fastOpts())

	assert.ErrorIs(t, err, ErrMaxRetries)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryStopsOnNonRetryable(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		return &RetryableError{Err: errors.New("hard failure"), Retryable: false}
	}, fastOpts())

	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestWithRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, func() error {
		return errors.New("transient")
	}, fastOpts())

	assert.ErrorIs(t, err, context.Canceled)
}

func TestUserErrorUnwraps(t *testing.T) {
	cause := errors.New("db locked")
	err := NewUserError("Something went wrong.", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "Something went wrong.")
}

func TestNewCredentialErrorMapsReasons(t *testing.T) {
	tests := []struct {
		code string
		want CredentialReason
	}{
		{code: "access_denied", want: CredentialAccessDenied},
		{code: "invalid_client", want: CredentialInvalidClient},
		{code: "invalid_request", want: CredentialInvalidRequest},
		{code: "server_error", want: CredentialOther},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			credErr := NewCredentialError(tt.code, errors.New(tt.code))
			assert.Equal(t, tt.want, credErr.Reason)
		})
	}
}
