package commands

import (
	"github.com/spf13/cobra"

	"github.com/devsyrem/coldstar/internal/config"
)

// NewCreateContainerCommand creates the create-container command.
func NewCreateContainerCommand(cfg *config.Config) *cobra.Command {
	var (
		key            string
		passphrase     string
		output         string
		keyringAccount string
	)

	cmd := &cobra.Command{
		Use:   "create-container",
		Short: "Encrypt a private key into a passphrase-protected container",
		Long: `Encrypt a base58-encoded Ed25519 private key (32-byte seed or 64-byte
keypair) into an AES-256-GCM container protected by an Argon2id-derived key.

The container is safe to store anywhere: it carries no plaintext key
material. Only the first 32 bytes of a 64-byte keypair are encrypted; the
trailing public half is discarded.

Examples:
  # Print the container to stdout
  coldstar create-container --key <base58> --passphrase <pass>

  # Write the container to a file, passphrase from the environment
  export SIGNER_PASSPHRASE=...
  coldstar create-container --key <base58> --output key.container.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			keyCred, err := resolveKey(key)
			if err != nil {
				return err
			}
			defer keyCred.Destroy()

			passCred, err := resolvePassphrase(cfg, passphrase, keyringAccount)
			if err != nil {
				return err
			}
			defer passCred.Destroy()

			keyB58, closeKey, err := openCredential(keyCred)
			if err != nil {
				return err
			}
			defer closeKey()

			pass, closePass, err := openCredential(passCred)
			if err != nil {
				return err
			}
			defer closePass()

			data, err := handleCreateContainer(cfg, keyB58, pass, output)
			if err != nil {
				return err
			}
			return emitSuccess(cmd.OutOrStdout(), data)
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Base58-encoded private key (or set SIGNER_PRIVATE_KEY)")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "Encryption passphrase (or set SIGNER_PASSPHRASE)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the container to this file instead of stdout")
	cmd.Flags().StringVar(&keyringAccount, "keyring-account", "default", "OS keyring account to read the passphrase from")

	return cmd
}
