// Package keychain stores container passphrases in the OS keyring (Secret
// Service on Linux, Keychain on macOS, Credential Manager on Windows) so
// that scripted invocations need neither a --passphrase flag nor a plaintext
// environment variable.
package keychain

import (
	"errors"

	"github.com/zalando/go-keyring"

	cserrors "github.com/devsyrem/coldstar/internal/errors"
)

// ErrNotFound means no passphrase is stored for the account.
var ErrNotFound = errors.New("no passphrase stored for this account")

// Store reads and writes passphrases under one keyring service name.
type Store struct {
	service string
}

// New creates a store for the given service name.
func New(service string) *Store {
	return &Store{service: service}
}

// Get retrieves the passphrase stored for account.
func (s *Store) Get(account string) (string, error) {
	secret, err := keyring.Get(s.service, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", cserrors.Wrap(cserrors.KindIO, err)
	}
	return secret, nil
}

// Set stores a passphrase for account, replacing any previous value.
func (s *Store) Set(account, passphrase string) error {
	if err := keyring.Set(s.service, account, passphrase); err != nil {
		return cserrors.Wrap(cserrors.KindIO, err)
	}
	return nil
}

// Delete removes the stored passphrase for account. Deleting an absent
// entry returns ErrNotFound.
func (s *Store) Delete(account string) error {
	if err := keyring.Delete(s.service, account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return cserrors.Wrap(cserrors.KindIO, err)
	}
	return nil
}
