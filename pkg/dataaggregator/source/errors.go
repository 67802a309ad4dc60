package source

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/travigo/liverail/pkg/ctdf"
)

var UnsupportedSourceError = errors.New("source does not support this query")

var (
	ErrAuthenticationRequired = &ctdf.PlanningError{
		Category:   ctdf.PlanningErrorCategoryUpstream,
		Code:       "authentication_required",
		Message:    "Invalid API credentials",
		Suggestion: "Check the app id and key configured for this provider",
	}
	ErrQuotaExceeded = &ctdf.PlanningError{
		Category:   ctdf.PlanningErrorCategoryUpstream,
		Code:       "quota_exceeded",
		Message:    "API usage limit exceeded",
		Suggestion: "Wait for the usage limit to reset or configure another provider",
	}
	ErrNotFound = &ctdf.PlanningError{
		Category:   ctdf.PlanningErrorCategoryUpstream,
		Code:       "not_found",
		Message:    "No routes found between these stations",
		Suggestion: "Check the station codes are correct",
	}
	ErrHTTPStatus = &ctdf.PlanningError{
		Category:   ctdf.PlanningErrorCategoryUpstream,
		Code:       "http_error",
		Message:    "Unexpected response from provider",
		Suggestion: "Try again in a few minutes",
	}
	ErrNetwork = &ctdf.PlanningError{
		Category:   ctdf.PlanningErrorCategoryUpstream,
		Code:       "network_error",
		Message:    "Network error",
		Suggestion: "Check your connection and try again",
	}
	ErrDecoding = &ctdf.PlanningError{
		Category:   ctdf.PlanningErrorCategoryUpstream,
		Code:       "decoding_error",
		Message:    "Could not read the provider response",
		Suggestion: "Try again in a few minutes",
	}
	ErrInvalidRequest = &ctdf.PlanningError{
		Category: ctdf.PlanningErrorCategoryUpstream,
		Code:     "invalid_request",
		Message:  "Could not build provider request",
	}
)

// StatusError maps a non 2xx response onto the upstream error taxonomy
func StatusError(sourceName string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	cause := fmt.Errorf("%s returned %s", sourceName, resp.Status)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrAuthenticationRequired.WithStatus(resp.StatusCode).Wrap(cause)
	case http.StatusForbidden:
		return ErrQuotaExceeded.WithStatus(resp.StatusCode).Wrap(cause)
	case http.StatusNotFound:
		return ErrNotFound.WithStatus(resp.StatusCode).Wrap(cause)
	default:
		return ErrHTTPStatus.WithStatus(resp.StatusCode).Wrap(cause)
	}
}

func NetworkError(sourceName string, err error) error {
	return ErrNetwork.Wrap(fmt.Errorf("%s: %w", sourceName, err))
}

func DecodingError(sourceName string, err error) error {
	return ErrDecoding.Wrap(fmt.Errorf("%s: %w", sourceName, err))
}

// IsCacheRecoverable is true for upstream failures that a cached result can stand in for.
// Credential and quota problems are not, the user has to act on them.
func IsCacheRecoverable(err error) bool {
	var planningError *ctdf.PlanningError
	if !errors.As(err, &planningError) {
		return true
	}

	if planningError.Category != ctdf.PlanningErrorCategoryUpstream {
		return false
	}

	return !errors.Is(err, ErrAuthenticationRequired) && !errors.Is(err, ErrQuotaExceeded)
}

// IsTransient is true for gateway failures worth retrying immediately
func IsTransient(err error) bool {
	var planningError *ctdf.PlanningError
	if !errors.As(err, &planningError) {
		return false
	}

	switch planningError.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
