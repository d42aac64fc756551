package signer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"

	"github.com/mr-tron/base58"

	cserrors "github.com/devsyrem/coldstar/internal/errors"
	"github.com/devsyrem/coldstar/internal/logging"
	"github.com/devsyrem/coldstar/internal/securemem"
)

// Version of the signing core, reported by the check command and the FFI
// version entry point.
const Version = "1.0.0"

// Engine runs signing and container operations under an explicit
// memory-pinning policy. The zero value uses Strict mode and no logger.
// Engines hold no per-call state and are safe for concurrent use.
type Engine struct {
	// Mode is applied to every secret buffer the engine allocates.
	Mode securemem.Mode
	// Logger, when set, receives the warning emitted for a permissive-mode
	// pinning failure. Never receives secret material.
	Logger *logging.Logger
}

// warnUnlocked reports a buffer that the OS declined to pin. Only reachable
// under Permissive mode; Strict fails the allocation instead.
func (e *Engine) warnUnlocked(buf *securemem.Buffer) {
	if buf.Locked() || e.Logger == nil {
		return
	}
	e.Logger.Warn("memory pinning unavailable; key material may be swapped to disk " +
		"(raise ulimit -l or unset SIGNER_ALLOW_INSECURE_MEMORY to enforce pinning)")
}

// Encrypt seals a private key into a passphrase-protected container.
// The key must be a 32-byte seed or a 64-byte seed+public keypair; the
// trailing public half of a keypair is discarded. The caller's key slice is
// not wiped; that remains the caller's responsibility.
func (e *Engine) Encrypt(privateKey []byte, passphrase string) (*Container, error) {
	if len(privateKey) != seedSize && len(privateKey) != keypairSize {
		return nil, cserrors.InvalidKeyLength(len(privateKey))
	}

	seed, err := securemem.FromBytes(privateKey[:seedSize], e.Mode)
	if err != nil {
		return nil, err
	}
	defer seed.Destroy()
	e.warnUnlocked(seed)

	salt := make([]byte, saltSize)
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, cserrors.Wrap(cserrors.KindSigning, err)
	}
	if _, err := rand.Read(nonce); err != nil {
		return nil, cserrors.Wrap(cserrors.KindSigning, err)
	}

	derived, err := deriveKey([]byte(passphrase), salt, e.Mode)
	if err != nil {
		return nil, err
	}
	defer derived.Destroy()

	aead, err := newAESGCM(derived.Bytes())
	if err != nil {
		return nil, err
	}
	ciphertext := aead.Seal(nil, nonce, seed.Bytes(), nil)

	// Deriving the public key expands the seed into a 64-byte private key
	// in ordinary memory; guard it so it is wiped before return.
	priv := ed25519.NewKeyFromSeed(seed.Bytes())
	guard := securemem.NewGuard(priv)
	defer guard.Release()
	publicKey := base58.Encode(priv.Public().(ed25519.PublicKey))

	seed.Zeroize()
	derived.Zeroize()

	return &Container{
		Version:    ContainerVersion,
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
		PublicKey:  publicKey,
	}, nil
}

// DecryptAndSign opens a serialized container with the passphrase and signs
// payload with the recovered seed. The seed exists in plaintext only inside
// pinned buffers for the duration of the call.
//
// A wrong passphrase and a tampered container fail identically: both
// surface as the authentication-failure kind with no further detail.
func (e *Engine) DecryptAndSign(containerJSON, passphrase string, payload []byte) (*Result, error) {
	container, err := ParseContainer(containerJSON)
	if err != nil {
		return nil, err
	}

	salt, err := decodeB64(container.Salt)
	if err != nil {
		return nil, err
	}
	nonce, err := decodeB64(container.Nonce)
	if err != nil {
		return nil, err
	}
	ciphertext, err := decodeB64(container.Ciphertext)
	if err != nil {
		return nil, err
	}
	if len(nonce) != nonceSize {
		return nil, cserrors.Newf(cserrors.KindContainer,
			"nonce must be %d bytes, got %d", nonceSize, len(nonce))
	}

	derived, err := deriveKey([]byte(passphrase), salt, e.Mode)
	if err != nil {
		return nil, err
	}
	defer derived.Destroy()
	e.warnUnlocked(derived)

	aead, err := newAESGCM(derived.Bytes())
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, cserrors.Decryption()
	}

	// Move the seed into a pinned buffer and wipe the transient plaintext
	// before anything else can go wrong.
	plainGuard := securemem.NewGuard(plaintext)
	seed, err := securemem.FromBytes(plaintext, e.Mode)
	plainGuard.Release()
	if err != nil {
		return nil, err
	}
	defer seed.Destroy()

	derived.Zeroize()

	result, err := e.SignWithSecureKey(seed, payload)
	seed.Zeroize()
	return result, err
}

// SignWithSecureKey signs payload with a 32-byte seed held in a pinned
// buffer. The buffer is read, never consumed; the caller keeps ownership
// and must still destroy it.
func (e *Engine) SignWithSecureKey(seed *securemem.Buffer, payload []byte) (*Result, error) {
	if seed.Len() != seedSize {
		return nil, cserrors.InvalidKeyLength(seed.Len())
	}

	priv := ed25519.NewKeyFromSeed(seed.Bytes())
	guard := securemem.NewGuard(priv)
	defer guard.Release()

	signature := ed25519.Sign(priv, payload)
	publicKey := priv.Public().(ed25519.PublicKey)

	result := &Result{
		Signature: base58.Encode(signature),
		PublicKey: base58.Encode(publicKey),
	}
	if wrapped := wrapPayload(signature, payload); wrapped != nil {
		result.SignedTransaction = base64.StdEncoding.EncodeToString(wrapped)
	}
	return result, nil
}

// SignDirect signs with an already-plaintext seed. Less secure than the
// container path: whatever handling the seed received before this call is
// outside the engine's control. The seed is copied into a pinned buffer
// immediately and the copy is destroyed before return.
func (e *Engine) SignDirect(rawSeed, payload []byte) (*Result, error) {
	seed, err := securemem.FromBytes(rawSeed, e.Mode)
	if err != nil {
		return nil, err
	}
	defer seed.Destroy()
	e.warnUnlocked(seed)

	result, err := e.SignWithSecureKey(seed, payload)
	seed.Zeroize()
	return result, err
}

// MlockSupported probes whether this host can pin memory, for the check
// command and the FFI capability query.
func MlockSupported() bool {
	buf, err := securemem.Allocate(64, securemem.Permissive)
	if err != nil {
		return false
	}
	defer buf.Destroy()
	return buf.Locked()
}

func newAESGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		// Key size is fixed upstream; reaching this means derivation broke.
		return nil, cserrors.Wrap(cserrors.KindKeyDerivation, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, cserrors.Wrap(cserrors.KindSigning, err)
	}
	return aead, nil
}

func decodeB64(s string) ([]byte, error) {
	out, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, cserrors.Wrap(cserrors.KindBase64, err)
	}
	return out, nil
}
