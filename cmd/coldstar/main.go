// coldstar is a signing core for transaction-like payloads: it keeps an
// Ed25519 seed encrypted at rest in a passphrase-protected container and
// only ever decrypts it into pinned, zeroized memory for the duration of a
// single signing call.
package main

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"

	"github.com/devsyrem/coldstar/cmd/coldstar/commands"
	"github.com/devsyrem/coldstar/internal/config"
	"github.com/devsyrem/coldstar/internal/logging"
	"github.com/devsyrem/coldstar/internal/signer"
)

var (
	version = signer.Version
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Scrub every memguard enclave on the way out.
	defer memguard.Purge()

	if err := run(); err != nil {
		commands.EmitError(os.Stderr, err)
		memguard.Purge()
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile string
		noColor    bool
		debug      bool
		stdinMode  bool
	)

	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "coldstar",
		Short: "Secure signing core for transaction payloads",
		Long: `coldstar encrypts Ed25519 seeds into passphrase-protected containers and
signs payloads by decrypting the seed into memory that is pinned against
swap and zeroized before the call returns.

Sensitive arguments may be supplied via SIGNER_PRIVATE_KEY and
SIGNER_PASSPHRASE to keep them out of process listings. Setting
SIGNER_ALLOW_INSECURE_MEMORY=1 downgrades a memory-pinning failure from an
error to a warning for this invocation.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		// Errors are reported as a JSON object on stderr by main.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.Path = configFile
			cfg.Logger = logging.New(debug, noColor)
			return cfg.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if stdinMode {
				return commands.RunStdinLoop(cfg, os.Stdin, os.Stdout)
			}
			return fmt.Errorf("no command specified; use --help for usage")
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "coldstar.yaml", "Config file path")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&stdinMode, "stdin", false, "Read JSON commands from stdin, one per line")

	rootCmd.AddCommand(
		commands.NewCreateContainerCommand(cfg),
		commands.NewSignCommand(cfg),
		commands.NewSignDirectCommand(cfg),
		commands.NewCheckCommand(cfg),
		commands.NewKeyringCommand(cfg),
		commands.NewCompletionCommand(cfg),
	)

	return rootCmd.Execute()
}
