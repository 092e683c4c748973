package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/tmps/internal/config"
	"github.com/idelchi/tmps/internal/logic"
	"github.com/idelchi/tmps/internal/manifest"
)

// NewVerifyCommand creates a new cobra command for the verify subcommand.
func NewVerifyCommand() *cobra.Command {
	var cfg config.Verify

	cmd := &cobra.Command{
		Use:   "verify [flags]",
		Short: "Check a package against its manifest",
		Long: `Checks the ciphertext digest recorded in the manifest. With --source the original model
is compared as well. With a key the ciphertext is decrypted and authenticated.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bind(cmd, &cfg)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.RunVerify(&cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringP("dir", "d", "", "Package directory")
	cmd.Flags().String("manifest", manifest.FileName, "File name of the manifest inside the package directory")
	cmd.Flags().String("source", "", "Original model file to compare against the plaintext digest")
	keyFlags(cmd, "Decryption key")

	return cmd
}
