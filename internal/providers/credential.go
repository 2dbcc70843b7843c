// Package providers holds what the provider adapters share: the credential
// format check and the error type that carries a fallback reason.
package providers

import (
	"strings"

	"samakicash/internal/domain"
	"samakicash/internal/infra"
)

// CredentialPrefix is the prefix every provider key is expected to carry.
const CredentialPrefix = "sk-"

// CredentialState is the outcome of the credential format check.
type CredentialState int

const (
	CredentialValid CredentialState = iota
	CredentialMissing
	CredentialMalformed
)

func (s CredentialState) String() string {
	switch s {
	case CredentialValid:
		return "valid"
	case CredentialMissing:
		return "missing"
	default:
		return "malformed"
	}
}

// CheckCredential inspects the key format only; it never contacts the provider.
func CheckCredential(key string) CredentialState {
	key = strings.TrimSpace(key)
	switch {
	case key == "":
		return CredentialMissing
	case !strings.HasPrefix(key, CredentialPrefix):
		return CredentialMalformed
	default:
		return CredentialValid
	}
}

// WarnCredential logs a warning when the key is missing or malformed and
// returns the state. Pricing, market and vision adapters call the provider
// regardless of the result.
func WarnCredential(logger *infra.Logger, provider, key string) CredentialState {
	state := CheckCredential(key)
	if state != CredentialValid && logger != nil {
		logger.Warn().
			Str("provider", provider).
			Str("credential", state.String()).
			AnErr("cause", domain.ErrCredentialInvalid).
			Msg("provider credential format check failed, calling anyway")
	}
	return state
}
