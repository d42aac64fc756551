package commands

import (
	"github.com/spf13/cobra"

	"github.com/devsyrem/coldstar/internal/config"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check host capabilities",
		Long: `Report the signing core version and whether this host supports memory
pinning (mlock). A host without pinning support can still operate with
SIGNER_ALLOW_INSECURE_MEMORY=1, at the cost of secrets possibly reaching
swap.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := handleCheck(cfg)
			if err != nil {
				return err
			}
			return emitSuccess(cmd.OutOrStdout(), data)
		},
	}
	return cmd
}
