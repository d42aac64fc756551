package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devsyrem/coldstar/internal/config"
	cserrors "github.com/devsyrem/coldstar/internal/errors"
	"github.com/devsyrem/coldstar/internal/keychain"
)

// NewKeyringCommand creates the keyring command group for managing stored
// passphrases in the OS keyring.
func NewKeyringCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keyring",
		Short: "Manage passphrases stored in the OS keyring",
		Long: `Store a container passphrase in the OS keyring (Secret Service, Keychain,
or Credential Manager) so that sign and create-container can run without a
--passphrase flag or a plaintext environment variable.`,
	}

	cmd.AddCommand(newKeyringSetCommand(cfg), newKeyringClearCommand(cfg))
	return cmd
}

func newKeyringSetCommand(cfg *config.Config) *cobra.Command {
	var (
		account    string
		passphrase string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store a passphrase in the OS keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				passphrase = os.Getenv(config.EnvPassphrase)
			}
			if passphrase == "" {
				return fmt.Errorf("passphrase required: use --passphrase or %s", config.EnvPassphrase)
			}

			if err := keychain.New(cfg.KeyringService).Set(account, passphrase); err != nil {
				return err
			}
			data, err := json.Marshal(map[string]string{
				"message": fmt.Sprintf("passphrase stored for account %q", account),
				"service": cfg.KeyringService,
				"account": account,
			})
			if err != nil {
				return cserrors.Wrap(cserrors.KindSerialization, err)
			}
			return emitSuccess(cmd.OutOrStdout(), data)
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Keyring account name")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "Passphrase to store (or set SIGNER_PASSPHRASE)")
	return cmd
}

func newKeyringClearCommand(cfg *config.Config) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove a stored passphrase from the OS keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := keychain.New(cfg.KeyringService).Delete(account); err != nil {
				return err
			}
			data, err := json.Marshal(map[string]string{
				"message": fmt.Sprintf("passphrase cleared for account %q", account),
				"account": account,
			})
			if err != nil {
				return cserrors.Wrap(cserrors.KindSerialization, err)
			}
			return emitSuccess(cmd.OutOrStdout(), data)
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Keyring account name")
	return cmd
}
