package commands

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"io"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/devsyrem/coldstar/internal/config"
	cserrors "github.com/devsyrem/coldstar/internal/errors"
	"github.com/devsyrem/coldstar/internal/logging"
	"github.com/devsyrem/coldstar/internal/securemem"
)

// testConfig returns a permissive-mode config with a silent logger. Tests
// cannot assume the sandbox allows mlock.
func testConfig() *config.Config {
	return &config.Config{
		Mode:           securemem.Permissive,
		Logger:         logging.NewWithWriter(io.Discard, false, true),
		KeyringService: "coldstar-test",
	}
}

func testSeedB58(t *testing.T) (string, ed25519.PublicKey) {
	t.Helper()
	seed := make([]byte, 32)
	_, err := rand.Read(seed)
	require.NoError(t, err)
	pub := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
	return base58.Encode(seed), pub
}

func TestHandleCreateContainerThenSign(t *testing.T) {
	cfg := testConfig()
	keyB58, pub := testSeedB58(t)

	containerJSON, err := handleCreateContainer(cfg, keyB58, "passphrase", "")
	require.NoError(t, err)

	payload := []byte("transaction bytes")
	raw, err := handleSign(cfg, string(containerJSON), "passphrase", base64.StdEncoding.EncodeToString(payload))
	require.NoError(t, err)

	var result struct {
		Signature string `json:"signature"`
		PublicKey string `json:"public_key"`
	}
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.Equal(t, base58.Encode(pub), result.PublicKey)

	sig, err := base58.Decode(result.Signature)
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(pub, payload, sig))
}

func TestHandleCreateContainerRejectsBadBase58(t *testing.T) {
	_, err := handleCreateContainer(testConfig(), "not-valid-0OIl", "pass", "")
	require.Error(t, err)
	assert.Equal(t, cserrors.KindBase58, cserrors.KindOf(err))
}

func TestHandleSignRejectsBadBase64Payload(t *testing.T) {
	cfg := testConfig()
	keyB58, _ := testSeedB58(t)

	containerJSON, err := handleCreateContainer(cfg, keyB58, "pass", "")
	require.NoError(t, err)

	_, err = handleSign(cfg, string(containerJSON), "pass", "!!!not base64!!!")
	require.Error(t, err)
	assert.Equal(t, cserrors.KindBase64, cserrors.KindOf(err))
}

func TestHandleSignDirect(t *testing.T) {
	cfg := testConfig()
	keyB58, pub := testSeedB58(t)
	payload := []byte("direct")

	raw, err := handleSignDirect(cfg, keyB58, base64.StdEncoding.EncodeToString(payload))
	require.NoError(t, err)

	var result struct {
		Signature string `json:"signature"`
	}
	require.NoError(t, json.Unmarshal(raw, &result))
	sig, err := base58.Decode(result.Signature)
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(pub, payload, sig))
}

func TestHandleCheckReportsCapabilities(t *testing.T) {
	raw, err := handleCheck(testConfig())
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal(raw, &report))
	assert.Contains(t, report, "version")
	assert.Contains(t, report, "mlock_supported")
	assert.Contains(t, report, "platform")
	assert.Contains(t, report, "arch")
}

func TestResolvePassphraseOrder(t *testing.T) {
	keyring.MockInit()
	cfg := testConfig()

	// Flag wins.
	t.Setenv(config.EnvPassphrase, "from-env")
	cred, err := resolvePassphrase(cfg, "from-flag", "default")
	require.NoError(t, err)
	defer cred.Destroy()
	pass, done, err := openCredential(cred)
	require.NoError(t, err)
	defer done()
	assert.Equal(t, "from-flag", pass)

	// Then the environment.
	cred2, err := resolvePassphrase(cfg, "", "default")
	require.NoError(t, err)
	defer cred2.Destroy()
	pass2, done2, err := openCredential(cred2)
	require.NoError(t, err)
	defer done2()
	assert.Equal(t, "from-env", pass2)
}

func TestResolvePassphraseFromKeyring(t *testing.T) {
	keyring.MockInit()
	t.Setenv(config.EnvPassphrase, "")

	cfg := testConfig()
	require.NoError(t, keyring.Set(cfg.KeyringService, "default", "from-keyring"))

	cred, err := resolvePassphrase(cfg, "", "default")
	require.NoError(t, err)
	defer cred.Destroy()

	pass, done, err := openCredential(cred)
	require.NoError(t, err)
	defer done()
	assert.Equal(t, "from-keyring", pass)
}

func TestResolvePassphraseMissingEverywhere(t *testing.T) {
	keyring.MockInit()
	t.Setenv(config.EnvPassphrase, "")

	_, err := resolvePassphrase(testConfig(), "", "absent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "passphrase required")
}

func TestResolveKey(t *testing.T) {
	t.Setenv(config.EnvPrivateKey, "")
	_, err := resolveKey("")
	require.Error(t, err)

	t.Setenv(config.EnvPrivateKey, "env-key")
	cred, err := resolveKey("")
	require.NoError(t, err)
	defer cred.Destroy()

	key, done, err := openCredential(cred)
	require.NoError(t, err)
	defer done()
	assert.Equal(t, "env-key", key)
}
