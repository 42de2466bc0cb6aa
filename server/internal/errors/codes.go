package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/hrygo/recognizers/plugin/filter"
	"github.com/hrygo/recognizers/plugin/recognizer"
)

// ErrorCode represents a specific error type for recognition requests.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeUnsupportedCulture indicates the culture has no loaded model.
	ErrCodeUnsupportedCulture ErrorCode = "UNSUPPORTED_CULTURE"
	// ErrCodeInvalidFilter indicates a filter expression that does not compile.
	ErrCodeInvalidFilter ErrorCode = "INVALID_FILTER"
	// ErrCodeStoreFailed indicates a persistence failure.
	ErrCodeStoreFailed ErrorCode = "STORE_FAILED"
	// ErrCodeRateLimitExceeded indicates rate limit has been exceeded.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeUnavailable indicates a feature disabled by configuration.
	ErrCodeUnavailable ErrorCode = "UNAVAILABLE"
	// ErrCodeContextCanceled indicates the operation was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// RecognizerError represents a structured error returned by the API.
type RecognizerError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *RecognizerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *RecognizerError) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps the code to a response status.
func (e *RecognizerError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeInvalidArgument, ErrCodeUnsupportedCulture, ErrCodeInvalidFilter:
		return http.StatusBadRequest
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case ErrCodeContextCanceled:
		return http.StatusRequestTimeout
	case ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string, cause error) *RecognizerError {
	return &RecognizerError{Code: ErrCodeInvalidArgument, Message: msg, Cause: cause}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(msg string) *RecognizerError {
	return &RecognizerError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// StoreFailed creates a persistence error.
func StoreFailed(msg string, cause error) *RecognizerError {
	return &RecognizerError{Code: ErrCodeStoreFailed, Message: msg, Cause: cause}
}

// Unavailable creates an error for a disabled feature.
func Unavailable(msg string) *RecognizerError {
	return &RecognizerError{Code: ErrCodeUnavailable, Message: msg}
}

// FromError classifies any error returned by the recognition service.
func FromError(err error) *RecognizerError {
	var re *RecognizerError
	switch {
	case err == nil:
		return nil
	case stderrors.As(err, &re):
		return re
	case stderrors.Is(err, recognizer.ErrUnsupportedCulture):
		return &RecognizerError{Code: ErrCodeUnsupportedCulture, Message: "unsupported culture", Cause: err}
	case stderrors.Is(err, filter.ErrInvalid):
		return &RecognizerError{Code: ErrCodeInvalidFilter, Message: "invalid filter", Cause: err}
	case stderrors.Is(err, recognizer.ErrInvalidRequest):
		return InvalidArgument("invalid request", err)
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return &RecognizerError{Code: ErrCodeContextCanceled, Message: "operation canceled", Cause: err}
	default:
		return &RecognizerError{Code: ErrCodeInternal, Message: "internal error", Cause: err}
	}
}
