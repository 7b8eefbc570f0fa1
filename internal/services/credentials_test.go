package services

import (
	"strings"
	"testing"
)

const testSealerKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestCredentialSealerRoundTrip(t *testing.T) {
	cs, err := NewCredentialSealer(testLog(t), testSealerKey)
	if err != nil {
		t.Fatalf("NewCredentialSealer: %v", err)
	}

	sealed, err := cs.Seal("athlete@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if strings.Contains(sealed, "athlete@example.com") || strings.Contains(sealed, "hunter2") {
		t.Fatal("sealed blob leaks plaintext")
	}

	email, password, err := cs.Open(sealed)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if email != "athlete@example.com" || password != "hunter2" {
		t.Fatalf("round trip mismatch: %q %q", email, password)
	}
}

func TestCredentialSealerNonceVaries(t *testing.T) {
	cs, err := NewCredentialSealer(testLog(t), testSealerKey)
	if err != nil {
		t.Fatalf("NewCredentialSealer: %v", err)
	}
	a, _ := cs.Seal("a@b.c", "pw")
	b, _ := cs.Seal("a@b.c", "pw")
	if a == b {
		t.Fatal("two seals of the same payload must differ")
	}
}

func TestCredentialSealerRejectsBadInput(t *testing.T) {
	if _, err := NewCredentialSealer(testLog(t), "deadbeef"); err == nil {
		t.Fatal("expected short key rejection")
	}
	if _, err := NewCredentialSealer(testLog(t), "not-hex"); err == nil {
		t.Fatal("expected non-hex key rejection")
	}

	cs, err := NewCredentialSealer(testLog(t), testSealerKey)
	if err != nil {
		t.Fatalf("NewCredentialSealer: %v", err)
	}
	if _, _, err := cs.Open("%%%"); err == nil {
		t.Fatal("expected base64 rejection")
	}
	if _, _, err := cs.Open("aGVsbG8="); err == nil {
		t.Fatal("expected too-short blob rejection")
	}

	other, _ := NewCredentialSealer(testLog(t), strings.Repeat("ff", 32))
	sealed, _ := cs.Seal("a@b.c", "pw")
	if _, _, err := other.Open(sealed); err == nil {
		t.Fatal("expected decrypt failure under a different key")
	}
}
