// Package config holds the per-command settings, populated from flags and TMPS_* environment variables.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned when a configuration fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Common holds settings shared by every command.
type Common struct {
	Quiet   bool `label:"--quiet" mapstructure:"quiet" validate:"exclusive=--verbose"`
	Verbose bool `label:"--verbose" mapstructure:"verbose"`
}

// Package configures the package command.
type Package struct {
	Common    `mapstructure:",squash"`
	KeySource `mapstructure:",squash"`

	// Model is the path of the model file to package.
	Model string `label:"--model" mapstructure:"model" validate:"required"`
	// OutputDir receives the ciphertext and the manifest.
	OutputDir string `label:"--output-dir" mapstructure:"output-dir" validate:"required"`
	// Manifest is the file name of the manifest inside OutputDir.
	Manifest string `label:"--manifest" mapstructure:"manifest" validate:"required,basename"`

	ModelID      string `label:"--model-id" mapstructure:"model-id" validate:"required"`
	Name         string `label:"--name" mapstructure:"name" validate:"required"`
	ModelVersion string `label:"--model-version" mapstructure:"model-version" validate:"required"`
	Format       string `label:"--format" mapstructure:"format" validate:"required"`
	KeyRef       string `label:"--key-ref" mapstructure:"key-ref" validate:"required"`

	// Backend selects the cipher implementation.
	Backend string `label:"--backend" mapstructure:"backend" validate:"oneof=go-crypto tink-go"`
	// Metadata is an optional JSONC file with model metadata defaults.
	Metadata string `label:"--metadata" mapstructure:"metadata"`
}

// Validate validates the configuration against the struct tags.
func (c Package) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}

	return c.KeySource.require()
}

// Verify configures the verify command.
type Verify struct {
	Common    `mapstructure:",squash"`
	KeySource `mapstructure:",squash"`

	Dir      string `label:"--dir" mapstructure:"dir" validate:"required"`
	Manifest string `label:"--manifest" mapstructure:"manifest" validate:"required,basename"`
	// Source is an optional original model file to compare against the manifest.
	Source string `label:"--source" mapstructure:"source"`
}

// Validate validates the configuration against the struct tags.
func (c Verify) Validate() error {
	return validateStruct(c)
}

// Decrypt configures the decrypt command.
type Decrypt struct {
	Common    `mapstructure:",squash"`
	KeySource `mapstructure:",squash"`

	Dir      string `label:"--dir" mapstructure:"dir" validate:"required"`
	Manifest string `label:"--manifest" mapstructure:"manifest" validate:"required,basename"`
	Output   string `label:"--output" mapstructure:"output" validate:"required"`
	Force    bool   `label:"--force" mapstructure:"force"`
}

// Validate validates the configuration against the struct tags.
func (c Decrypt) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}

	return c.KeySource.require()
}

func validateStruct(cfg any) error {
	v, err := newValidator()
	if err != nil {
		return err
	}

	if err := v.Validator().Struct(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(v.FormatErrors(err)...))
	}

	return nil
}
