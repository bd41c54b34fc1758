package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrNotAuthenticated is returned when no valid identity accompanies a request.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrForbidden is returned when the caller's role may not perform an action.
	ErrForbidden = errors.New("insufficient permissions")
	// ErrInvalidInput is returned when a request fails validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a generic record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a record already exists.
	ErrConflict = errors.New("resource already exists")
	// ErrProfileNotFound is returned when a profile is not found.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrDriverNotFound is returned when the target driver does not exist.
	ErrDriverNotFound = errors.New("driver not found")
	// ErrRecruiterNotFound is returned when a recruiter is not found.
	ErrRecruiterNotFound = errors.New("recruiter not found")
	// ErrSubscriptionNotFound is returned when a recruiter has no subscription row.
	ErrSubscriptionNotFound = errors.New("subscription not found")
	// ErrSubscriptionInactive is returned when a cancelled or expired subscription tries to consume quota.
	ErrSubscriptionInactive = errors.New("subscription is not active")
	// ErrQuotaExceeded is returned when the subscription has no contact unlocks left.
	ErrQuotaExceeded = errors.New("contact limit reached: upgrade your plan or buy a pay-per-contact credit")
	// ErrTransientStore is returned for connectivity failures that are safe to retry.
	ErrTransientStore = errors.New("temporary storage failure")
	// ErrInvariantViolation is returned when contacts_used > contacts_limit is observed.
	ErrInvariantViolation = errors.New("subscription usage exceeds its limit")
	// ErrRateLimited is returned when a caller exceeds a rate limit.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Wrapped errors are matched with errors.Is.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return NewHTTPError(http.StatusUnauthorized, ErrNotAuthenticated.Error(), "NOT_AUTHENTICATED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "FORBIDDEN")
	case errors.Is(err, ErrInvalidInput):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrDriverNotFound):
		return NewHTTPError(http.StatusNotFound, ErrDriverNotFound.Error(), "DRIVER_NOT_FOUND")
	case errors.Is(err, ErrRecruiterNotFound):
		return NewHTTPError(http.StatusNotFound, ErrRecruiterNotFound.Error(), "RECRUITER_NOT_FOUND")
	case errors.Is(err, ErrProfileNotFound):
		return NewHTTPError(http.StatusNotFound, ErrProfileNotFound.Error(), "PROFILE_NOT_FOUND")
	case errors.Is(err, ErrSubscriptionNotFound):
		return NewHTTPError(http.StatusNotFound, ErrSubscriptionNotFound.Error(), "SUBSCRIPTION_NOT_FOUND")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, ErrNotFound.Error(), "NOT_FOUND")
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, err.Error(), "CONFLICT")
	case errors.Is(err, ErrSubscriptionInactive):
		return NewHTTPError(http.StatusPaymentRequired, ErrSubscriptionInactive.Error(), "SUBSCRIPTION_INACTIVE")
	case errors.Is(err, ErrQuotaExceeded):
		return NewHTTPError(http.StatusPaymentRequired, ErrQuotaExceeded.Error(), "QUOTA_EXCEEDED")
	case errors.Is(err, ErrRateLimited):
		return NewHTTPError(http.StatusTooManyRequests, ErrRateLimited.Error(), "RATE_LIMITED")
	case errors.Is(err, ErrTransientStore):
		return NewHTTPError(http.StatusServiceUnavailable, "service temporarily unavailable, try again", "TRANSIENT_STORE_FAILURE")
	case errors.Is(err, ErrInvariantViolation):
		return NewHTTPError(http.StatusInternalServerError, "internal data integrity error", "INVARIANT_VIOLATION")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
