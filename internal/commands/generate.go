package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/tmps/internal/logic"
)

// NewGenerateCommand creates a new cobra command printing a random key.
func NewGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate a new encryption key",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.RunGenerate(cmd.OutOrStdout())
		},
	}
}
