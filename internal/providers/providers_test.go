package providers

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"samakicash/internal/domain"
)

func TestCheckCredential(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		key  string
		want CredentialState
	}{
		{name: "empty", key: "", want: CredentialMissing},
		{name: "blank", key: "   ", want: CredentialMissing},
		{name: "wrong_prefix", key: "pk-123", want: CredentialMalformed},
		{name: "valid", key: "sk-abc", want: CredentialValid},
		{name: "valid_padded", key: " sk-abc ", want: CredentialValid},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := CheckCredential(tc.key); got != tc.want {
				t.Fatalf("CheckCredential(%q) = %s, want %s", tc.key, got, tc.want)
			}
		})
	}
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()
	status := Status("mistral", 500)
	if !errors.Is(status, domain.ErrProviderUnavailable) {
		t.Fatalf("status error should be ErrProviderUnavailable: %v", status)
	}
	if Reason(status) != "http_500" {
		t.Fatalf("Reason = %q, want http_500", Reason(status))
	}
	if StatusCode(status) != 500 {
		t.Fatalf("StatusCode = %d, want 500", StatusCode(status))
	}
	if got := StatusCode(fmt.Errorf("wrapped: %w", Status("elevenlabs", 401))); got != 401 {
		t.Fatalf("StatusCode through wrap = %d, want 401", got)
	}

	malformed := Malformed("nebius", "decode_response", errors.New("bad json"))
	if !errors.Is(malformed, domain.ErrProviderMalformedResponse) {
		t.Fatalf("malformed error should be ErrProviderMalformedResponse: %v", malformed)
	}

	timeout := Transport("elevenlabs", fmt.Errorf("post: %w", context.DeadlineExceeded))
	if Reason(timeout) != "timeout" {
		t.Fatalf("Reason = %q, want timeout", Reason(timeout))
	}
	if !errors.Is(timeout, context.DeadlineExceeded) {
		t.Fatalf("timeout error should unwrap to DeadlineExceeded")
	}

	conn := Transport("elevenlabs", errors.New("connection refused"))
	if Reason(conn) != "http_request" {
		t.Fatalf("Reason = %q, want http_request", Reason(conn))
	}
	if StatusCode(conn) != 0 {
		t.Fatalf("StatusCode = %d, want 0 for transport error", StatusCode(conn))
	}
}
