package manifest

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/idelchi/gogen/pkg/validator"

	"github.com/idelchi/tmps/internal/fileutil"
)

var (
	// ErrInvalid is returned when a manifest is missing fields or holds malformed values.
	ErrInvalid = errors.New("invalid manifest")
	// ErrUnsupportedSchema is returned for a schema version this tool cannot read.
	ErrUnsupportedSchema = errors.New("unsupported manifest schema")
)

// Validate checks that every field is present and well formed.
func (m *Manifest) Validate() error {
	v := validator.NewValidator()

	v.Validator().RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ","); name != "" && name != "-" {
			return name
		}

		return fld.Name
	})

	if errs := v.Validate(m); len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}

	return m.CheckSchema()
}

// CheckSchema accepts any schema sharing the major version of SchemaVersion,
// so newer minor revisions stay readable.
func (m *Manifest) CheckSchema() error {
	major := func(v string) string {
		return strings.SplitN(v, ".", 2)[0] //nolint:mnd
	}

	if major(m.Packaging.SchemaVersion) != major(SchemaVersion) {
		return fmt.Errorf("%w: %q (supported: %s.x)", ErrUnsupportedSchema, m.Packaging.SchemaVersion, major(SchemaVersion))
	}

	return nil
}

// Nonce decodes the recorded nonce.
func (m *Manifest) Nonce() ([]byte, error) {
	nonce, err := hex.DecodeString(m.Encryption.NonceHex)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding iv_hex: %w", ErrInvalid, err)
	}

	return nonce, nil
}

// Tag decodes the recorded authentication tag.
func (m *Manifest) Tag() ([]byte, error) {
	tag, err := hex.DecodeString(m.Encryption.TagHex)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding tag_hex: %w", ErrInvalid, err)
	}

	return tag, nil
}

// Marshal serializes m as YAML.
func Marshal(m *Manifest) ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}

	return data, nil
}

// Unmarshal parses a YAML manifest. Unknown fields are ignored.
func Unmarshal(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: decoding: %w", ErrInvalid, err)
	}

	return &m, nil
}

// Write serializes m and writes it to path in a single atomic step.
func Write(m *Manifest, path string) error {
	data, err := Marshal(m)
	if err != nil {
		return err
	}

	const ownerReadWriteGroupRead = 0o640

	if err := fileutil.WriteFile(path, data, ownerReadWriteGroupRead); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}

	return nil
}

// Read loads and validates the manifest at path.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	m, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("manifest %q: %w", path, err)
	}

	return m, nil
}
