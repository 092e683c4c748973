package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/idelchi/gogen/pkg/key"
	"github.com/idelchi/gogen/pkg/validator"

	"github.com/idelchi/tmps/internal/encryption"
)

// newValidator returns a validator with the custom rules and their messages registered.
// Fields are reported by their flag, taken from the label tag.
func newValidator() (*validator.Validator, error) {
	v := validator.NewValidator()

	rules := []struct {
		tag      string
		fn       func(validator.FieldLevel) bool
		template string
	}{
		{"exclusive", validateExclusive, "{0} is mutually exclusive with {1}"},
		{"hexkey", validateHexKey, fmt.Sprintf("{0} must be %d hex characters (%d bytes)", 2*encryption.KeySize, encryption.KeySize)},
		{"basename", validateBasename, "{0} must be a file name without directories"},
	}

	for _, rule := range rules {
		if err := v.RegisterValidationAndTranslation(rule.tag, rule.fn, rule.template); err != nil {
			return nil, fmt.Errorf("registering %s validation: %w", rule.tag, err)
		}
	}

	v.Validator().RegisterTagNameFunc(flagName)

	return v, nil
}

// flagName is the label of a field, or its Go name when it has none.
func flagName(fld reflect.StructField) string {
	if name, _, _ := strings.Cut(fld.Tag.Get("label"), ","); name != "" && name != "-" {
		return name
	}

	return fld.Name
}

// validateExclusive fails when the field and the sibling labelled by the parameter are both set.
func validateExclusive(fl validator.FieldLevel) bool {
	parent := fl.Parent()
	if parent.Kind() != reflect.Struct || fl.Field().IsZero() {
		return true
	}

	for i := range parent.NumField() {
		if flagName(parent.Type().Field(i)) == fl.Param() {
			return parent.Field(i).IsZero()
		}
	}

	return true
}

// validateHexKey accepts an empty value or the hex encoding of exactly one AES-256 key.
func validateHexKey(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if strings.TrimSpace(value) == "" {
		return true
	}

	k, err := key.FromHex(value)

	return err == nil && len(k) == encryption.KeySize
}

// validateBasename checks that a file name has no directory component.
func validateBasename(fl validator.FieldLevel) bool {
	name := fl.Field().String()

	return name != "." && name != ".." && filepath.Base(name) == name
}
