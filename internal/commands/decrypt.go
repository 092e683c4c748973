package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/tmps/internal/config"
	"github.com/idelchi/tmps/internal/logic"
	"github.com/idelchi/tmps/internal/manifest"
)

// NewDecryptCommand creates a new cobra command for the decrypt subcommand.
func NewDecryptCommand() *cobra.Command {
	var cfg config.Decrypt

	cmd := &cobra.Command{
		Use:     "decrypt [flags]",
		Aliases: []string{"dec"},
		Short:   "Restore the model from a package",
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bind(cmd, &cfg)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.RunDecrypt(&cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringP("dir", "d", "", "Package directory")
	cmd.Flags().String("manifest", manifest.FileName, "File name of the manifest inside the package directory")
	cmd.Flags().String("output", "", "Path for the decrypted model")
	cmd.Flags().Bool("force", false, "Overwrite the output file if it exists")
	keyFlags(cmd, "Decryption key")

	return cmd
}
