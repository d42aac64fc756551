// Package config resolves runtime configuration for the CLI: the optional
// coldstar.yaml file, the SIGNER_* environment variables, and the resulting
// memory-pinning policy. The policy is resolved once here and threaded into
// the signer engine as a value; core packages never read the environment.
package config

import (
	"errors"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	cserrors "github.com/devsyrem/coldstar/internal/errors"
	"github.com/devsyrem/coldstar/internal/logging"
	"github.com/devsyrem/coldstar/internal/securemem"
)

// Environment variables recognized by the CLI. Supplying secrets through
// these avoids process-listing leaks from command-line arguments.
const (
	// EnvPrivateKey supplies a base58 private key to create-container and
	// sign-direct.
	EnvPrivateKey = "SIGNER_PRIVATE_KEY"
	// EnvPassphrase supplies the container passphrase.
	EnvPassphrase = "SIGNER_PASSPHRASE"
	// EnvAllowInsecure switches the default pinning policy from strict to
	// permissive for this invocation when set to "1" or "true".
	EnvAllowInsecure = "SIGNER_ALLOW_INSECURE_MEMORY"
)

// DefaultKeyringService is the OS keyring service name used when the config
// file does not override it.
const DefaultKeyringService = "coldstar"

// Config holds the runtime configuration handed to every command.
type Config struct {
	// Path of the optional YAML config file.
	Path   string
	Logger *logging.Logger
	// Mode is the resolved memory-pinning policy.
	Mode securemem.Mode
	// KeyringService names the OS keyring service for stored passphrases.
	KeyringService string
	// DefaultContainer is an optional container file used when --container
	// is not given.
	DefaultContainer string
}

// fileConfig is the coldstar.yaml shape.
type fileConfig struct {
	AllowInsecureMemory bool   `yaml:"allow_insecure_memory"`
	KeyringService      string `yaml:"keyring_service"`
	DefaultContainer    string `yaml:"default_container"`
}

// Load resolves the configuration: strict pinning by default, relaxed by the
// config file or the environment toggle (the environment wins when set).
// A missing config file is not an error.
func (c *Config) Load() error {
	c.Mode = securemem.Strict
	c.KeyringService = DefaultKeyringService

	if c.Path != "" {
		raw, err := os.ReadFile(c.Path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Optional file.
		case err != nil:
			return cserrors.Wrap(cserrors.KindIO, err)
		default:
			var fc fileConfig
			if err := yaml.Unmarshal(raw, &fc); err != nil {
				return cserrors.Wrap(cserrors.KindSerialization, err)
			}
			if fc.AllowInsecureMemory {
				c.Mode = securemem.Permissive
			}
			if fc.KeyringService != "" {
				c.KeyringService = fc.KeyringService
			}
			c.DefaultContainer = fc.DefaultContainer
		}
	}

	if val, ok := os.LookupEnv(EnvAllowInsecure); ok {
		if parseBool(val) {
			c.Mode = securemem.Permissive
		} else {
			c.Mode = securemem.Strict
		}
	}
	return nil
}

// ModeFromEnv resolves the pinning policy from SIGNER_ALLOW_INSECURE_MEMORY
// alone, for surfaces that carry no config file (the FFI boundary).
func ModeFromEnv() securemem.Mode {
	if parseBool(os.Getenv(EnvAllowInsecure)) {
		return securemem.Permissive
	}
	return securemem.Strict
}

func parseBool(val string) bool {
	return val == "1" || strings.EqualFold(val, "true")
}
