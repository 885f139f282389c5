package localstore

import (
	"errors"
	"testing"
	"time"
)

func TestCredentialRoundTrip(t *testing.T) {
	s := New(t.TempDir())

	if _, err := s.LoadCredential(); !errors.Is(err, ErrNoCredential) {
		t.Fatalf("want ErrNoCredential on empty store, got %v", err)
	}

	want := Credential{AccessToken: "tok", ExpiresAt: time.Now().Add(time.Hour).UTC()}
	if err := s.SaveCredential(want); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadCredential()
	if err != nil {
		t.Fatal(err)
	}
	if got.AccessToken != want.AccessToken {
		t.Fatalf("token mismatch: %q", got.AccessToken)
	}

	if err := s.ClearCredential(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadCredential(); !errors.Is(err, ErrNoCredential) {
		t.Fatalf("want ErrNoCredential after clear, got %v", err)
	}
	// clearing twice must not error
	if err := s.ClearCredential(); err != nil {
		t.Fatal(err)
	}
}

func TestExpiredCredentialTreatedAsAbsent(t *testing.T) {
	s := New(t.TempDir())
	c := Credential{AccessToken: "tok", ExpiresAt: time.Now().Add(-time.Minute)}
	if err := s.SaveCredential(c); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadCredential(); !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expired credential must read as absent, got %v", err)
	}
}

func TestWalletAddress(t *testing.T) {
	s := New(t.TempDir())
	if got := s.LoadWalletAddress(); got != "" {
		t.Fatalf("empty store returned %q", got)
	}
	if err := s.SaveWalletAddress("0xabc"); err != nil {
		t.Fatal(err)
	}
	if got := s.LoadWalletAddress(); got != "0xabc" {
		t.Fatalf("LoadWalletAddress = %q", got)
	}
	if err := s.ClearWalletAddress(); err != nil {
		t.Fatal(err)
	}
	if got := s.LoadWalletAddress(); got != "" {
		t.Fatalf("address survived clear: %q", got)
	}
}
