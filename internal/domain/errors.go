package domain

import "errors"

var (
	ErrNotFound                  = errors.New("not found")
	ErrInvalidReport             = errors.New("invalid catch report")
	ErrDuplicateEmail            = errors.New("email already registered")
	ErrProviderUnavailable       = errors.New("provider unavailable")
	ErrProviderMalformedResponse = errors.New("provider malformed response")
	ErrCredentialInvalid         = errors.New("credential missing or invalid")
	ErrNoVoicesAvailable         = errors.New("no voices available")
	ErrInputAbsent               = errors.New("input absent")
)
