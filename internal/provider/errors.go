package provider

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotReady indicates the resource exists but dependent data is not yet
	// available. Callers retry with backoff.
	ErrNotReady = errors.New("not ready")

	// ErrNotFound indicates the referenced identifier does not exist.
	ErrNotFound = errors.New("not found")
)

// Error is a classified provider API failure for a specific resource.
type Error struct {
	Op         string
	Kind       Kind
	ID         string
	StatusCode int // 0 when no response was received
	Err        error
}

// NewError wraps err with the identifying resource and the HTTP status the
// provider answered with.
func NewError(op string, kind Kind, id string, statusCode int, err error) *Error {
	return &Error{Op: op, Kind: kind, ID: id, StatusCode: statusCode, Err: err}
}

func (e *Error) Error() string {
	target := string(e.Kind)
	if e.ID != "" {
		target = fmt.Sprintf("%s %q", e.Kind, e.ID)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Op, target, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, target, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a 404 as ErrNotFound so callers can use errors.Is.
func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Retryable reports whether the failure class is transient: no response
// (network error or timeout), rate limiting, or a server-side error.
// Other 4xx answers (auth, quota, malformed request) are terminal.
func (e *Error) Retryable() bool {
	switch {
	case e.StatusCode == 0:
		return true
	case e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode >= 500:
		return true
	default:
		return false
	}
}

// Ambiguous reports whether the request may have been applied even though it
// failed. A destructive call failing this way must not be retried blindly.
func (e *Error) Ambiguous() bool {
	return e.StatusCode == 0 || e.StatusCode == http.StatusGatewayTimeout
}

// IsNotFound reports whether err matches ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNotReady reports whether err matches ErrNotReady.
func IsNotReady(err error) bool {
	return errors.Is(err, ErrNotReady)
}

// IsRetryable reports whether err is worth retrying: ErrNotReady or a
// transient provider error. NotFound is never retryable.
func IsRetryable(err error) bool {
	if err == nil || IsNotFound(err) {
		return false
	}
	if IsNotReady(err) {
		return true
	}
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Retryable()
	}
	return false
}

// IsAmbiguous reports whether err is a provider error whose outcome is unknown.
func IsAmbiguous(err error) bool {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Ambiguous()
	}
	return false
}

// PartialFailure aggregates the failed sub-operations of a batch.
type PartialFailure struct {
	Operation string
	Total     int
	Errors    []error
}

func (e *PartialFailure) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("%s: 1 of %d operations failed: %v", e.Operation, e.Total, e.Errors[0])
	}
	return fmt.Sprintf("%s: %d of %d operations failed", e.Operation, len(e.Errors), e.Total)
}

func (e *PartialFailure) Unwrap() []error {
	return e.Errors
}

// Add records a failed sub-operation. Nil errors are ignored.
func (e *PartialFailure) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors reports whether any sub-operation failed.
func (e *PartialFailure) HasErrors() bool {
	return len(e.Errors) > 0
}

// ErrOrNil returns e when it holds errors and nil otherwise, so that a
// typed nil never escapes as a non-nil error interface.
func (e *PartialFailure) ErrOrNil() error {
	if e == nil || !e.HasErrors() {
		return nil
	}
	return e
}
