// Package localstore persists small pieces of client state between runs:
// the bearer credential and the last known wallet address.
package localstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// Store reads and writes JSON state files under a single directory.
type Store struct {
	dir string
}

// New returns a store rooted at dir. The directory is created lazily on
// first save.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultDir resolves the per-user state directory.
func DefaultDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "urgent2kay")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "urgent2kay")
}

// Credential is the persisted bearer token with its expiry.
type Credential struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ErrNoCredential is returned when no usable credential is stored.
var ErrNoCredential = errors.New("no valid credential (login required)")

func (s *Store) credentialPath() string { return filepath.Join(s.dir, "credential.json") }
func (s *Store) walletPath() string     { return filepath.Join(s.dir, "wallet.json") }

// SaveCredential writes the bearer credential with 0600 perms.
func (s *Store) SaveCredential(c Credential) error {
	return s.writeJSON(s.credentialPath(), c)
}

// LoadCredential returns the stored credential, or ErrNoCredential when
// absent, unreadable, or expired.
func (s *Store) LoadCredential() (Credential, error) {
	var c Credential
	if err := s.readJSON(s.credentialPath(), &c); err != nil {
		return Credential{}, ErrNoCredential
	}
	if c.AccessToken == "" || (!c.ExpiresAt.IsZero() && time.Now().After(c.ExpiresAt)) {
		return Credential{}, ErrNoCredential
	}
	return c, nil
}

// ClearCredential removes the stored credential. Missing file is not an error.
func (s *Store) ClearCredential() error {
	if err := os.Remove(s.credentialPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

type walletState struct {
	LastAddress string `json:"last_address"`
}

// SaveWalletAddress remembers the last connected wallet address.
func (s *Store) SaveWalletAddress(addr string) error {
	return s.writeJSON(s.walletPath(), walletState{LastAddress: addr})
}

// LoadWalletAddress returns the last known wallet address, "" when none.
func (s *Store) LoadWalletAddress() string {
	var w walletState
	if err := s.readJSON(s.walletPath(), &w); err != nil {
		return ""
	}
	return w.LastAddress
}

// ClearWalletAddress forgets the stored wallet address.
func (s *Store) ClearWalletAddress() error {
	if err := os.Remove(s.walletPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) writeJSON(path string, v any) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

func (s *Store) readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
