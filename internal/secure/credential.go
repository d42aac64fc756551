package secure

import (
	"errors"
	"sync"

	"github.com/awnumar/memguard"
)

// ErrDestroyed means the credential was destroyed before this use.
var ErrDestroyed = errors.New("credential already destroyed")

// Credential is a caller-supplied secret sealed in a memguard enclave.
// The plaintext exists only while an opened view is alive.
type Credential struct {
	mu        sync.RWMutex
	enclave   *memguard.Enclave
	destroyed bool
}

// NewCredential seals value. The input slice is consumed: memguard wipes it
// as part of sealing, so callers must not reuse it.
func NewCredential(value []byte) *Credential {
	return &Credential{enclave: memguard.NewEnclave(value)}
}

// NewCredentialFromString seals a string value. Go strings are immutable and
// cannot be wiped; prefer NewCredential with bytes when the caller controls
// the allocation.
func NewCredentialFromString(value string) *Credential {
	return NewCredential([]byte(value))
}

// Open decrypts the credential into a locked buffer. The caller must call
// Destroy on the returned buffer as soon as the plaintext has been used.
func (c *Credential) Open() (*memguard.LockedBuffer, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.destroyed {
		return nil, ErrDestroyed
	}
	return c.enclave.Open()
}

// Destroy retires the credential. Idempotent; after Destroy, Open returns
// ErrDestroyed. The enclave ciphertext itself is scrubbed by
// memguard.Purge() at process exit.
func (c *Credential) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return
	}
	c.enclave = nil
	c.destroyed = true
}
