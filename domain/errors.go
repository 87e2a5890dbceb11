package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrEmptyStatus indicates the user submitted a status with no body text.
	ErrEmptyStatus = errors.New("status cannot be empty")

	// ErrOverLimit indicates spoiler plus body exceed the character limit.
	ErrOverLimit = errors.New("status exceeds character limit")

	// ErrPollUnderfilled indicates an active poll with fewer than two options.
	ErrPollUnderfilled = errors.New("poll needs at least two options")

	// ErrMediaNotReady indicates an attachment upload has not finished.
	ErrMediaNotReady = errors.New("media upload still in progress")
)

// SubmitErrorKind classifies a failed submission attempt.
type SubmitErrorKind int

const (
	SubmitFailedNetwork SubmitErrorKind = iota
	SubmitFailedAuth
	SubmitFailedRateLimited
	SubmitFailedRejected // the service rejected the payload (e.g. 422)
)

// SubmitError wraps a posting-service failure. The draft that produced it is
// left untouched by the pipeline; the caller may retry.
type SubmitError struct {
	Kind SubmitErrorKind
	Err  error
}

func (e *SubmitError) Error() string {
	switch e.Kind {
	case SubmitFailedAuth:
		return fmt.Sprintf("submission unauthorized: %v", e.Err)
	case SubmitFailedRateLimited:
		return fmt.Sprintf("submission rate limited: %v", e.Err)
	case SubmitFailedRejected:
		return fmt.Sprintf("submission rejected: %v", e.Err)
	default:
		return fmt.Sprintf("submission failed: %v", e.Err)
	}
}

func (e *SubmitError) Unwrap() error { return e.Err }

// APIError is a non-2xx response from the instance API.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}
