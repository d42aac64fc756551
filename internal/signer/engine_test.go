package signer

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cserrors "github.com/devsyrem/coldstar/internal/errors"
	"github.com/devsyrem/coldstar/internal/logging"
	"github.com/devsyrem/coldstar/internal/securemem"
)

// Engines under test run Permissive: pinning may be refused in CI and is
// covered by the securemem tests.
func testEngine() *Engine {
	return &Engine{Mode: securemem.Permissive}
}

func randomSeed(t *testing.T) []byte {
	t.Helper()
	seed := make([]byte, 32)
	_, err := rand.Read(seed)
	require.NoError(t, err)
	return seed
}

func TestEncryptDecryptSignRoundtrip(t *testing.T) {
	t.Parallel()

	e := testEngine()
	seed := randomSeed(t)
	passphrase := "correct horse battery staple"

	container, err := e.Encrypt(seed, passphrase)
	require.NoError(t, err)
	assert.EqualValues(t, ContainerVersion, container.Version)

	raw, err := container.ToJSON()
	require.NoError(t, err)

	payload := []byte("payload to sign")
	result, err := e.DecryptAndSign(raw, passphrase, payload)
	require.NoError(t, err)

	wantPub := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
	assert.Equal(t, base58.Encode(wantPub), result.PublicKey)
	assert.Equal(t, base58.Encode(wantPub), container.PublicKey)

	sig, err := base58.Decode(result.Signature)
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(wantPub, payload, sig))
}

func TestWrongPassphraseFailsUniformly(t *testing.T) {
	t.Parallel()

	e := testEngine()
	container, err := e.Encrypt(randomSeed(t), "correct")
	require.NoError(t, err)
	raw, err := container.ToJSON()
	require.NoError(t, err)

	_, err = e.DecryptAndSign(raw, "wrong", []byte("hello"))
	require.Error(t, err)
	assert.Equal(t, cserrors.KindDecryption, cserrors.KindOf(err))
	// The message must not reveal which of passphrase or ciphertext failed.
	assert.NotContains(t, strings.ToLower(err.Error()), "tamper")
}

func TestTamperedCiphertextFailsLikeWrongPassphrase(t *testing.T) {
	t.Parallel()

	e := testEngine()
	container, err := e.Encrypt(randomSeed(t), "pass")
	require.NoError(t, err)

	ct, err := base64.StdEncoding.DecodeString(container.Ciphertext)
	require.NoError(t, err)
	ct[0] ^= 0xFF
	container.Ciphertext = base64.StdEncoding.EncodeToString(ct)

	raw, err := container.ToJSON()
	require.NoError(t, err)

	_, tamperErr := e.DecryptAndSign(raw, "pass", []byte("hello"))
	require.Error(t, tamperErr)
	assert.Equal(t, cserrors.KindDecryption, cserrors.KindOf(tamperErr))

	// Identical surface to the wrong-passphrase failure.
	assert.Equal(t, cserrors.Decryption().Error(), tamperErr.Error())
}

func TestEncryptRejectsBadKeyLengths(t *testing.T) {
	t.Parallel()

	e := testEngine()
	for _, n := range []int{0, 1, 16, 31, 33, 63, 65, 128} {
		_, err := e.Encrypt(make([]byte, n), "pass")
		require.Error(t, err, "length %d", n)
		assert.Equal(t, cserrors.KindInvalidKey, cserrors.KindOf(err))
		assert.Contains(t, err.Error(), "got")
	}
}

func TestEncryptAcceptsKeypairAndUsesSeedHalf(t *testing.T) {
	t.Parallel()

	e := testEngine()
	seed := randomSeed(t)
	priv := ed25519.NewKeyFromSeed(seed) // 64 bytes: seed || public key

	container, err := e.Encrypt(priv, "pass")
	require.NoError(t, err)

	raw, err := container.ToJSON()
	require.NoError(t, err)
	result, err := e.DecryptAndSign(raw, "pass", []byte("msg"))
	require.NoError(t, err)

	wantPub := priv.Public().(ed25519.PublicKey)
	assert.Equal(t, base58.Encode(wantPub), result.PublicKey)
}

func TestFreshSaltAndNoncePerEncryption(t *testing.T) {
	t.Parallel()

	e := testEngine()
	seed := randomSeed(t)
	a, err := e.Encrypt(seed, "pass")
	require.NoError(t, err)
	b, err := e.Encrypt(seed, "pass")
	require.NoError(t, err)

	assert.NotEqual(t, a.Salt, b.Salt)
	assert.NotEqual(t, a.Nonce, b.Nonce)
	assert.NotEqual(t, a.Ciphertext, b.Ciphertext)
}

func TestSignDirectVerifies(t *testing.T) {
	t.Parallel()

	e := testEngine()
	seed := randomSeed(t)
	payload := []byte("direct message")

	result, err := e.SignDirect(seed, payload)
	require.NoError(t, err)

	pub := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
	sig, err := base58.Decode(result.Signature)
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(pub, payload, sig))
}

func TestSignDirectRejectsNonSeedLength(t *testing.T) {
	t.Parallel()

	e := testEngine()
	_, err := e.SignDirect(make([]byte, 64), []byte("msg"))
	require.Error(t, err)
	assert.Equal(t, cserrors.KindInvalidKey, cserrors.KindOf(err))
}

func TestWrappedPayloadHeuristic(t *testing.T) {
	t.Parallel()

	e := testEngine()
	seed := randomSeed(t)

	tests := []struct {
		name    string
		payload []byte
		wrapped bool
	}{
		{"empty", []byte{}, false},
		{"one byte", []byte{0x42}, false},
		{"two bytes", []byte{1, 2}, false},
		{"three bytes", []byte{1, 2, 3}, true},
		{"transaction-like", bytes.Repeat([]byte{0xAB}, 200), true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := e.SignDirect(seed, tt.payload)
			require.NoError(t, err)

			if !tt.wrapped {
				assert.Empty(t, result.SignedTransaction)
				return
			}

			wrapped, err := base64.StdEncoding.DecodeString(result.SignedTransaction)
			require.NoError(t, err)
			require.Len(t, wrapped, 1+64+len(tt.payload))

			sig, err := base58.Decode(result.Signature)
			require.NoError(t, err)

			assert.EqualValues(t, 1, wrapped[0])
			assert.Equal(t, sig, wrapped[1:65])
			assert.Equal(t, tt.payload, wrapped[65:])
		})
	}
}

func TestSignWithSecureKeyRequiresExactSeed(t *testing.T) {
	t.Parallel()

	e := testEngine()
	buf, err := securemem.Allocate(16, securemem.Permissive)
	require.NoError(t, err)
	defer buf.Destroy()

	_, err = e.SignWithSecureKey(buf, []byte("msg"))
	require.Error(t, err)
	assert.Equal(t, cserrors.KindInvalidKey, cserrors.KindOf(err))
}

func TestMalformedContainerJSON(t *testing.T) {
	t.Parallel()

	e := testEngine()
	for name, raw := range map[string]string{
		"not json":        "{nope",
		"missing fields":  `{"version": 1}`,
		"wrong types":     `{"version": "one", "salt": "x", "nonce": "x", "ciphertext": "x"}`,
		"version zero":    `{"version": 0, "salt": "x", "nonce": "x", "ciphertext": "x"}`,
		"array not object": `[1, 2, 3]`,
	} {
		raw := raw
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := e.DecryptAndSign(raw, "pass", []byte("hello"))
			require.Error(t, err)
			assert.Equal(t, cserrors.KindContainer, cserrors.KindOf(err))
		})
	}
}

func TestBadBase64FieldsSurfaceAsBase64Errors(t *testing.T) {
	t.Parallel()

	e := testEngine()
	raw := `{"version": 1, "salt": "!!!not-base64!!!", "nonce": "AAAA", "ciphertext": "AAAA"}`
	_, err := e.DecryptAndSign(raw, "pass", []byte("hello"))
	require.Error(t, err)
	assert.Equal(t, cserrors.KindBase64, cserrors.KindOf(err))
}

func TestZeroSeedScenario(t *testing.T) {
	t.Parallel()

	e := testEngine()
	seed := make([]byte, 32)

	container, err := e.Encrypt(seed, "correct")
	require.NoError(t, err)
	assert.EqualValues(t, 1, container.Version)

	raw, err := container.ToJSON()
	require.NoError(t, err)

	result, err := e.DecryptAndSign(raw, "correct", []byte("hello"))
	require.NoError(t, err)

	wantPub := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
	assert.Equal(t, base58.Encode(wantPub), result.PublicKey)

	_, err = e.DecryptAndSign(raw, "wrong", []byte("hello"))
	require.Error(t, err)
	assert.Equal(t, cserrors.KindDecryption, cserrors.KindOf(err))
}

func TestPermissiveLockFailureWarnsNotErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	e := &Engine{Mode: securemem.Permissive, Logger: logging.NewWithWriter(&buf, false, true)}

	_, err := e.SignDirect(randomSeed(t), []byte("msg"))
	require.NoError(t, err)
	// Whether a warning appears depends on the host honoring mlock; either
	// way the operation itself must succeed, and nothing secret may leak.
	assert.NotContains(t, buf.String(), "signature")
}

func TestMlockSupportedDoesNotPanic(t *testing.T) {
	t.Parallel()

	// Value is host-dependent; the probe itself must always complete.
	_ = MlockSupported()
}
