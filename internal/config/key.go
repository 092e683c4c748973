package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/idelchi/gogen/pkg/key"

	"github.com/idelchi/tmps/internal/encryption"
)

// ErrNoKey is returned when a command needs a key and none was given.
var ErrNoKey = errors.New("a key is required (--key or --key-file)")

// KeySource names where the hex-encoded key comes from. At most one field may be set.
type KeySource struct {
	// Key is the hex-encoded key, 64 characters.
	Key string `label:"--key" mapstructure:"key" validate:"exclusive=--key-file,hexkey"`
	// KeyFile is a file holding the hex-encoded key.
	KeyFile string `label:"--key-file" mapstructure:"key-file" validate:"exclusive=--key"`
}

// Provided reports whether a key source was configured.
func (k KeySource) Provided() bool {
	return k.Key != "" || k.KeyFile != ""
}

func (k KeySource) require() error {
	if !k.Provided() {
		return fmt.Errorf("%w: %w", ErrInvalid, ErrNoKey)
	}

	return nil
}

// Bytes decodes the configured key and checks its length.
func (k KeySource) Bytes() ([]byte, error) {
	encoded := k.Key

	if k.KeyFile != "" {
		data, err := os.ReadFile(filepath.Clean(k.KeyFile))
		if err != nil {
			return nil, fmt.Errorf("reading key file: %w", err)
		}

		encoded = string(data)
	}

	decoded, err := key.FromHex(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding key: %w", err)
	}

	if len(decoded) != encryption.KeySize {
		return nil, fmt.Errorf("%w: key must be exactly %d bytes (%d hex characters), got %d bytes",
			encryption.ErrInvalidKeyLength, encryption.KeySize, 2*encryption.KeySize, len(decoded))
	}

	return decoded, nil
}
