package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// Kind classifies failures crossing the pipeline boundary. Every public
// operation either succeeds or surfaces exactly one of these.
type Kind string

const (
	// KindAuthExpired means the provider rejected our credential. Recoverable
	// via a single token refresh; if the refresh itself fails the account
	// needs a fresh OAuth consent flow.
	KindAuthExpired Kind = "AUTH_EXPIRED"
	// KindPermissionDenied is a configuration/scope problem. Never retried.
	KindPermissionDenied Kind = "PERMISSION_DENIED"
	// KindNotFound: empty result for list reads, hard error for writes.
	KindNotFound Kind = "NOT_FOUND"
	// KindRateLimited: the provider throttled us. Retried once after backoff.
	KindRateLimited Kind = "RATE_LIMITED"
	// KindProviderUnavailable covers transport failures, timeouts and
	// malformed provider responses. Surfaced verbatim, never auto-retried.
	KindProviderUnavailable Kind = "PROVIDER_UNAVAILABLE"
	// KindGenerationFailed: the reply-generation webhook failed or returned
	// an empty draft.
	KindGenerationFailed Kind = "GENERATION_FAILED"
	// KindValidation: bad input, rejected before any network call.
	KindValidation Kind = "VALIDATION_ERROR"
	// KindInternal: a datastore or infrastructure failure on our side.
	KindInternal Kind = "INTERNAL_ERROR"
)

// AppError is the structured error returned across the pipeline boundary.
type AppError struct {
	Kind    Kind   `json:"kind"`
	Code    int    `json:"-"` // HTTP status the handlers map this to
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match any AppError of the same Kind.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// NewAppError builds an AppError with an explicit HTTP status code.
func NewAppError(code int, kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message, Err: err}
}

func NewAuthExpiredError(message string, err error) *AppError {
	return NewAppError(http.StatusUnauthorized, KindAuthExpired, message, err)
}

func NewPermissionDeniedError(message string, err error) *AppError {
	return NewAppError(http.StatusForbidden, KindPermissionDenied, message, err)
}

func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, KindNotFound, message, ErrNotFound)
}

func NewRateLimitedError(message string, err error) *AppError {
	return NewAppError(http.StatusTooManyRequests, KindRateLimited, message, err)
}

func NewProviderUnavailableError(message string, err error) *AppError {
	return NewAppError(http.StatusBadGateway, KindProviderUnavailable, message, err)
}

func NewGenerationFailedError(message string, err error) *AppError {
	return NewAppError(http.StatusBadGateway, KindGenerationFailed, message, err)
}

func NewInternalError(message string, err error) *AppError {
	return NewAppError(http.StatusInternalServerError, KindInternal, message, err)
}

func NewValidationError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, KindValidation, message, ErrValidation)
}

// KindOf extracts the Kind from an error chain, or "" if it carries none.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind reports whether the error chain contains an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
