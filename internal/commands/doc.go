// Package commands provides the command-line interface for the tmps tool.
//
// It implements commands for:
//   - packaging a model
//   - verifying a package
//   - decrypting a package
//   - generating a key
//
// Settings are resolved per command from flags and TMPS_* environment variables through viper,
// then validated before the command runs.
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the commands, e.g. TMPS_KEY_FILE.
const EnvPrefix = "TMPS"

type validated interface {
	Validate() error
}

// bind resolves cfg from the command's flags and environment, applies prepare to the viper
// instance before decoding, and validates the result.
func bind(cmd *cobra.Command, cfg validated, prepare ...func(*viper.Viper) error) error {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	for _, fn := range prepare {
		if err := fn(v); err != nil {
			return err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	return cfg.Validate()
}

func keyFlags(cmd *cobra.Command, usage string) {
	cmd.Flags().StringP("key", "k", "", usage+" (32 bytes, hex-encoded)")
	cmd.Flags().StringP("key-file", "f", "", "Path to a file with the key (32 bytes, hex-encoded)")
}
