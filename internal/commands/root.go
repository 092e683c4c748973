package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command with the flags shared by all subcommands.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "tmps [flags] command [flags]",
		Short: "Encrypted model packaging",
		Long: `Packages a machine-learning model file as AES-256-GCM ciphertext plus a YAML manifest
recording the model identity, encryption parameters and SHA-256 digests.
Provides commands for packaging, verification, decryption and key generation.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}

	root.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-error output")
	root.PersistentFlags().BoolP("verbose", "v", false, "Log debug details to stderr")

	root.AddCommand(
		NewPackageCommand(version),
		NewVerifyCommand(),
		NewDecryptCommand(),
		NewGenerateCommand(),
	)

	return root
}
