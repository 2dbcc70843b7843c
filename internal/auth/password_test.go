package auth

import (
	"strings"
	"testing"
)

func TestHashDeterministic(t *testing.T) {
	h := NewHasher("pepper")
	a, err := h.Hash("Fisher@Example.com ", "secret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := h.Hash("fisher@example.com", "secret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a != b {
		t.Fatalf("hash differs for equivalent emails: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "argon2id$") || strings.Contains(a, "secret") {
		t.Fatalf("unexpected encoding %q", a)
	}
}

func TestHashVariesBySaltInputs(t *testing.T) {
	h := NewHasher("pepper")
	base, _ := h.Hash("a@example.com", "secret")
	otherUser, _ := h.Hash("b@example.com", "secret")
	otherPassword, _ := h.Hash("a@example.com", "secret2")
	otherPepper, _ := NewHasher("salt").Hash("a@example.com", "secret")
	for name, got := range map[string]string{"email": otherUser, "password": otherPassword, "pepper": otherPepper} {
		if got == base {
			t.Fatalf("changing %s did not change the hash", name)
		}
	}
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	if _, err := NewHasher("p").Hash("a@example.com", ""); err != ErrEmptyPassword {
		t.Fatalf("err = %v, want ErrEmptyPassword", err)
	}
}
