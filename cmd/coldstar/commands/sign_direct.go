package commands

import (
	"github.com/spf13/cobra"

	"github.com/devsyrem/coldstar/internal/config"
)

// NewSignDirectCommand creates the sign-direct command.
func NewSignDirectCommand(cfg *config.Config) *cobra.Command {
	var (
		key     string
		message string
	)

	cmd := &cobra.Command{
		Use:   "sign-direct",
		Short: "Sign a message with a plaintext private key (less secure)",
		Long: `Sign a base64-encoded message directly with a base58-encoded private key.

The key is copied into pinned, zeroized memory immediately, but any handling
it received before reaching this command is outside coldstar's control.
Prefer 'sign' with an encrypted container.

Example:
  coldstar sign-direct --key <base58-seed> --message <base64>`,
		RunE: func(cmd *cobra.Command, args []string) error {
			keyCred, err := resolveKey(key)
			if err != nil {
				return err
			}
			defer keyCred.Destroy()

			keyB58, closeKey, err := openCredential(keyCred)
			if err != nil {
				return err
			}
			defer closeKey()

			data, err := handleSignDirect(cfg, keyB58, message)
			if err != nil {
				return err
			}
			return emitSuccess(cmd.OutOrStdout(), data)
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Base58-encoded private key (or set SIGNER_PRIVATE_KEY)")
	cmd.Flags().StringVar(&message, "message", "", "Base64-encoded message to sign")

	return cmd
}
