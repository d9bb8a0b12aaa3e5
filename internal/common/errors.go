// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Profile errors.
	ErrNoProfile      = errors.New("no profile")
	ErrCorruptProfile = errors.New("corrupt profile")

	// Intake errors.
	ErrNoAmount        = errors.New("no amount detected")
	ErrPipelineBusy    = errors.New("pipeline busy")
	ErrNothingPending  = errors.New("nothing pending")
	ErrCommitFailed    = errors.New("commit failed")
	ErrProfileNotReady = errors.New("profile not ready for commit")

	// Sheet errors.
	ErrResolutionFailed = errors.New("sheet resolution failed")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
// The user message is a single non-technical line; the wrapped error
// carries the technical detail for logging.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// CredentialReason identifies why interactive token acquisition failed.
type CredentialReason string

// Credential failure sub-reasons surfaced to the user.
const (
	CredentialAccessDenied   CredentialReason = "access_denied"
	CredentialInvalidClient  CredentialReason = "invalid_client"
	CredentialInvalidRequest CredentialReason = "invalid_request"
	CredentialOther          CredentialReason = "other"
)

// CredentialError reports a failed or denied token acquisition.
type CredentialError struct {
	Err    error
	Reason CredentialReason
}

func (e *CredentialError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("credential acquisition failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("credential acquisition failed (%s)", e.Reason)
}

func (e *CredentialError) Unwrap() error {
	return e.Err
}

// NewCredentialError creates a CredentialError from a raw OAuth error code.
func NewCredentialError(code string, err error) *CredentialError {
	reason := CredentialOther
	switch code {
	case "access_denied":
		reason = CredentialAccessDenied
	case "invalid_client":
		reason = CredentialInvalidClient
	case "invalid_request":
		reason = CredentialInvalidRequest
	}
	return &CredentialError{Reason: reason, Err: err}
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
