package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"samakicash/internal/domain"
)

// Error describes a failed provider call. Reason is the short machine tag
// recorded as the fallback reason; Kind is one of the domain provider errors.
// StatusCode is set only when the provider answered with an error status.
type Error struct {
	Provider   string
	Reason     string
	StatusCode int
	Kind       error
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Provider, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Reason, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Unavailable reports a timeout, connection failure or HTTP error status.
func Unavailable(provider, reason string, err error) error {
	return &Error{Provider: provider, Reason: reason, Kind: domain.ErrProviderUnavailable, Err: err}
}

// Malformed reports a response body that could not be decoded.
func Malformed(provider, reason string, err error) error {
	return &Error{Provider: provider, Reason: reason, Kind: domain.ErrProviderMalformedResponse, Err: err}
}

// Transport classifies an error returned by http.Client.Do.
func Transport(provider string, err error) error {
	if IsTimeout(err) {
		return Unavailable(provider, "timeout", err)
	}
	return Unavailable(provider, "http_request", err)
}

// Status builds the error for a non-success HTTP status.
func Status(provider string, code int) error {
	return &Error{
		Provider:   provider,
		Reason:     fmt.Sprintf("http_%d", code),
		StatusCode: code,
		Kind:       domain.ErrProviderUnavailable,
		Err:        fmt.Errorf("%s status %d: %s", provider, code, http.StatusText(code)),
	}
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.StatusCode
	}
	return 0
}

// Reason extracts the fallback reason from err.
func Reason(err error) string {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Reason
	}
	if IsTimeout(err) {
		return "timeout"
	}
	return "unknown"
}

// IsTimeout reports whether err is a deadline or network timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
