package provider

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
)

type Category string

const (
	CategoryAuthentication Category = "AuthenticationError"
	CategoryRateLimit      Category = "RateLimitError"
	CategoryQuota          Category = "QuotaError"
	CategoryPermission     Category = "PermissionDenied"
	CategoryInvalidRequest Category = "InvalidRequest"
	CategoryUnknown        Category = "UnknownError"
)

// Error carries a user-facing category message; the raw provider error is
// kept only for logging and is never shown to the client.
type Error struct {
	Category Category
	Message  string
	cause    error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Classify maps a raw provider failure onto the error taxonomy. Checks run
// most-specific first; the first match wins.
func Classify(err error) *Error {
	msg := err.Error()
	lower := strings.ToLower(msg)

	var apiErr *googleapi.Error
	code := 0
	if errors.As(err, &apiErr) {
		code = apiErr.Code
	}

	switch {
	case code == 401 || strings.Contains(lower, "api key"):
		return &Error{
			Category: CategoryAuthentication,
			Message:  "API Authentication Failed: please check the provider API key configuration.",
			cause:    err,
		}
	case code == 429 || strings.Contains(msg, "429"):
		return &Error{
			Category: CategoryRateLimit,
			Message:  "Rate Limit Exceeded: too many requests, please wait and try again.",
			cause:    err,
		}
	case strings.Contains(lower, "quota"):
		return &Error{
			Category: CategoryQuota,
			Message:  "API Quota Exceeded: please check the provider billing account.",
			cause:    err,
		}
	case code == 403 || strings.Contains(lower, "permission"):
		return &Error{
			Category: CategoryPermission,
			Message:  "Permission Denied: unable to access the generation service.",
			cause:    err,
		}
	case code == 400 || strings.Contains(lower, "invalid_request") || strings.Contains(lower, "invalid request"):
		return &Error{
			Category: CategoryInvalidRequest,
			Message:  "Invalid Request: please check your request parameters.",
			cause:    err,
		}
	case strings.Contains(lower, "unauthenticated") || strings.Contains(lower, "credential"):
		return &Error{
			Category: CategoryAuthentication,
			Message:  "Authentication Failed: please verify the provider credentials.",
			cause:    err,
		}
	default:
		return &Error{
			Category: CategoryUnknown,
			Message:  fmt.Sprintf("Image generation failed: %s. Please try again later.", CategoryUnknown),
			cause:    err,
		}
	}
}
