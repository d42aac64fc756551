package commands

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devsyrem/coldstar/internal/config"
	cserrors "github.com/devsyrem/coldstar/internal/errors"
)

// NewSignCommand creates the sign command.
func NewSignCommand(cfg *config.Config) *cobra.Command {
	var (
		container      string
		passphrase     string
		transaction    string
		keyringAccount string
	)

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a payload using an encrypted key container",
		Long: `Decrypt a key container with the passphrase and sign a base64-encoded
payload. The seed exists in plaintext only inside pinned, zeroized memory
for the duration of the call.

The container argument is a file path, or "-" to read the container JSON
from stdin. When omitted, the default_container from coldstar.yaml is used.

Examples:
  coldstar sign --container key.container.json --transaction <base64>

  # Container on stdin, passphrase from the OS keyring
  cat key.container.json | coldstar sign --container - --transaction <base64>`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if container == "" {
				container = cfg.DefaultContainer
			}
			if container == "" {
				return fmt.Errorf("container required: use --container or set default_container in %s", cfg.Path)
			}

			containerJSON, err := readContainer(cmd, container)
			if err != nil {
				return err
			}

			passCred, err := resolvePassphrase(cfg, passphrase, keyringAccount)
			if err != nil {
				return err
			}
			defer passCred.Destroy()

			pass, closePass, err := openCredential(passCred)
			if err != nil {
				return err
			}
			defer closePass()

			data, err := handleSign(cfg, containerJSON, pass, transaction)
			if err != nil {
				return err
			}
			return emitSuccess(cmd.OutOrStdout(), data)
		},
	}

	cmd.Flags().StringVar(&container, "container", "", `Container file path, or "-" for stdin`)
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "Decryption passphrase (or set SIGNER_PASSPHRASE)")
	cmd.Flags().StringVar(&transaction, "transaction", "", "Base64-encoded payload to sign")
	cmd.Flags().StringVar(&keyringAccount, "keyring-account", "default", "OS keyring account to read the passphrase from")

	return cmd
}

// readContainer loads the container JSON from a file or, for "-", one line
// of the command's stdin.
func readContainer(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", cserrors.Wrap(cserrors.KindIO, err)
			}
			return "", cserrors.New(cserrors.KindIO, "no container JSON on stdin")
		}
		return scanner.Text(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", cserrors.Wrap(cserrors.KindIO, err)
	}
	return string(raw), nil
}
