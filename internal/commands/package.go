package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/tmps/internal/config"
	"github.com/idelchi/tmps/internal/encryption"
	"github.com/idelchi/tmps/internal/logic"
	"github.com/idelchi/tmps/internal/manifest"
)

// NewPackageCommand creates a new cobra command for the package subcommand.
func NewPackageCommand(version string) *cobra.Command {
	var cfg config.Package

	cmd := &cobra.Command{
		Use:     "package [flags]",
		Aliases: []string{"pkg"},
		Short:   "Encrypt a model and write its manifest",
		Example: `  tmps package --model resnet50.onnx --output-dir out \
    --model-id resnet50 --name ResNet-50 --model-version 1.2.0 --key-file model.key`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bind(cmd, &cfg, metadataDefaults)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.RunPackage(&cfg, version, cmd.OutOrStdout())
		},
	}

	cmd.Flags().String("model", "", "Path to the model file")
	cmd.Flags().StringP("output-dir", "o", "", "Directory receiving the ciphertext and the manifest")
	cmd.Flags().String("manifest", manifest.FileName, "File name of the manifest inside the output directory")
	cmd.Flags().String("model-id", "", "Model identifier")
	cmd.Flags().String("name", "", "Human-readable model name")
	cmd.Flags().String("model-version", "", "Model version")
	cmd.Flags().String("format", "onnx", "Model format")
	cmd.Flags().String("key-ref", "model-key-001", "Reference to the key in an external key store")
	cmd.Flags().StringP("backend", "b", encryption.BackendGo.String(), "Cipher backend, one of go-crypto or tink-go")
	cmd.Flags().String("metadata", "", "JSONC file providing model-id, name, model-version, format and key-ref defaults")
	keyFlags(cmd, "Encryption key")

	return cmd
}

// metadataDefaults applies the values from --metadata below flags and environment.
func metadataDefaults(v *viper.Viper) error {
	path := v.GetString("metadata")
	if path == "" {
		return nil
	}

	md, err := config.LoadMetadata(path)
	if err != nil {
		return err
	}

	for key, value := range md.Settings() {
		v.SetDefault(key, value)
	}

	return nil
}
