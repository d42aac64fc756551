package signer

import (
	"golang.org/x/crypto/argon2"

	cserrors "github.com/devsyrem/coldstar/internal/errors"
	"github.com/devsyrem/coldstar/internal/securemem"
)

// Argon2id cost parameters. These are a fixed security policy, deliberately
// expensive, and not user-configurable: weakening them silently would
// undermine every container already in the field.
const (
	argonTimeCost  = 3
	argonMemoryKiB = 65536 // 64 MiB
	argonLanes     = 4
	argonVersion   = 0x13

	derivedKeySize = 32
	saltSize       = 32
	nonceSize      = 12
	seedSize       = 32
	keypairSize    = 64
)

// deriveKey stretches a passphrase and salt into a 32-byte symmetric key via
// Argon2id. The key is returned in a pinned buffer; the caller owns its
// destruction.
func deriveKey(passphrase, salt []byte, mode securemem.Mode) (*securemem.Buffer, error) {
	if len(salt) != saltSize {
		return nil, cserrors.Newf(cserrors.KindKeyDerivation,
			"salt must be %d bytes, got %d", saltSize, len(salt))
	}
	if argon2.Version != argonVersion {
		return nil, cserrors.Newf(cserrors.KindKeyDerivation,
			"argon2 version 0x%x, need 0x%x", argon2.Version, argonVersion)
	}

	key := argon2.IDKey(passphrase, salt, argonTimeCost, argonMemoryKiB, argonLanes, derivedKeySize)
	guard := securemem.NewGuard(key)
	defer guard.Release()

	return securemem.FromBytes(key, mode)
}
