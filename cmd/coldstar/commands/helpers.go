package commands

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/mr-tron/base58"

	"github.com/devsyrem/coldstar/internal/config"
	cserrors "github.com/devsyrem/coldstar/internal/errors"
	"github.com/devsyrem/coldstar/internal/keychain"
	"github.com/devsyrem/coldstar/internal/secure"
	"github.com/devsyrem/coldstar/internal/securemem"
	"github.com/devsyrem/coldstar/internal/signer"
)

// response is the JSON envelope every command emits: data on stdout for
// success, an error object on stderr for failure.
type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// EmitError writes the failure envelope. Used by main for any error that
// escapes a command.
func EmitError(w io.Writer, err error) {
	out, marshalErr := json.MarshalIndent(response{Success: false, Error: err.Error()}, "", "  ")
	if marshalErr != nil {
		fmt.Fprintf(w, `{"success":false,"error":%q}`+"\n", err.Error())
		return
	}
	fmt.Fprintln(w, string(out))
}

func emitSuccess(w io.Writer, data json.RawMessage) error {
	out, err := json.MarshalIndent(response{Success: true, Data: data}, "", "  ")
	if err != nil {
		return cserrors.Wrap(cserrors.KindSerialization, err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func newEngine(cfg *config.Config) *signer.Engine {
	return &signer.Engine{Mode: cfg.Mode, Logger: cfg.Logger}
}

// resolveKey seals the private key from the --key flag or SIGNER_PRIVATE_KEY.
func resolveKey(flagValue string) (*secure.Credential, error) {
	if flagValue != "" {
		return secure.NewCredentialFromString(flagValue), nil
	}
	if v := os.Getenv(config.EnvPrivateKey); v != "" {
		return secure.NewCredentialFromString(v), nil
	}
	return nil, fmt.Errorf("private key required: use --key or %s", config.EnvPrivateKey)
}

// resolvePassphrase seals the passphrase from the flag, SIGNER_PASSPHRASE,
// or the OS keyring, in that order.
func resolvePassphrase(cfg *config.Config, flagValue, account string) (*secure.Credential, error) {
	if flagValue != "" {
		return secure.NewCredentialFromString(flagValue), nil
	}
	if v := os.Getenv(config.EnvPassphrase); v != "" {
		return secure.NewCredentialFromString(v), nil
	}
	if account != "" {
		pass, err := keychain.New(cfg.KeyringService).Get(account)
		if err == nil {
			return secure.NewCredentialFromString(pass), nil
		}
		if !errors.Is(err, keychain.ErrNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("passphrase required: use --passphrase, %s, or 'coldstar keyring set'",
		config.EnvPassphrase)
}

// openCredential is the point-of-use unseal; callers must Destroy the view.
func openCredential(cred *secure.Credential) (string, func(), error) {
	view, err := cred.Open()
	if err != nil {
		return "", nil, cserrors.Wrap(cserrors.KindIO, err)
	}
	return string(view.Bytes()), view.Destroy, nil
}

// handleCreateContainer implements create-container for both the CLI and the
// stdin loop. With outputPath set, the container is written to disk and a
// confirmation object returned; otherwise the container itself is returned.
func handleCreateContainer(cfg *config.Config, keyB58, passphrase, outputPath string) (json.RawMessage, error) {
	key, err := base58.Decode(keyB58)
	if err != nil {
		return nil, cserrors.Wrap(cserrors.KindBase58, err)
	}
	guard := securemem.NewGuard(key)
	defer guard.Release()

	container, err := newEngine(cfg).Encrypt(key, passphrase)
	if err != nil {
		return nil, err
	}
	raw, err := container.ToJSON()
	if err != nil {
		return nil, err
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(raw), 0o600); err != nil {
			return nil, cserrors.Wrap(cserrors.KindIO, err)
		}
		confirmation, err := json.Marshal(map[string]string{
			"message": fmt.Sprintf("container written to %s", outputPath),
			"path":    outputPath,
		})
		if err != nil {
			return nil, cserrors.Wrap(cserrors.KindSerialization, err)
		}
		return confirmation, nil
	}
	return json.RawMessage(raw), nil
}

// handleSign implements sign for an inline container JSON string.
func handleSign(cfg *config.Config, containerJSON, passphrase, payloadB64 string) (json.RawMessage, error) {
	payload, err := base64.StdEncoding.DecodeString(payloadB64)
	if err != nil {
		return nil, cserrors.Wrap(cserrors.KindBase64, err)
	}

	result, err := newEngine(cfg).DecryptAndSign(containerJSON, passphrase, payload)
	if err != nil {
		return nil, err
	}
	raw, err := result.ToJSON()
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// handleSignDirect implements sign-direct: a plaintext base58 key signs a
// base64 message without a container.
func handleSignDirect(cfg *config.Config, keyB58, messageB64 string) (json.RawMessage, error) {
	key, err := base58.Decode(keyB58)
	if err != nil {
		return nil, cserrors.Wrap(cserrors.KindBase58, err)
	}
	guard := securemem.NewGuard(key)
	defer guard.Release()

	message, err := base64.StdEncoding.DecodeString(messageB64)
	if err != nil {
		return nil, cserrors.Wrap(cserrors.KindBase64, err)
	}

	result, err := newEngine(cfg).SignDirect(key, message)
	if err != nil {
		return nil, err
	}
	raw, err := result.ToJSON()
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// handleCheck reports host capabilities; it never fails.
func handleCheck(cfg *config.Config) (json.RawMessage, error) {
	report, err := json.Marshal(map[string]any{
		"version":         signer.Version,
		"mlock_supported": signer.MlockSupported(),
		"platform":        runtime.GOOS,
		"arch":            runtime.GOARCH,
	})
	if err != nil {
		return nil, cserrors.Wrap(cserrors.KindSerialization, err)
	}
	return report, nil
}
