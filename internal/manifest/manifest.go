// Package manifest describes how a model artifact was protected.
//
// A Manifest binds a ciphertext file to its nonce, tag and digests. It carries a label naming
// where the key is managed but never the key itself, so it can be stored next to the ciphertext.
package manifest

import "time"

const (
	// SchemaVersion is the version of the manifest layout written by this tool.
	SchemaVersion = "1.0.0"
	// Tool is the name of the tool recorded in manifests.
	Tool = "tmps"
	// FileName is the default name of the manifest inside a package directory.
	FileName = "model_package.yaml"
)

// ToolVersion is the tool version recorded when a Builder is not given one.
const ToolVersion = "0.1.0"

// ModelInfo is caller-supplied metadata about the packaged model.
type ModelInfo struct {
	ID               string `validate:"required" yaml:"id"`
	Name             string `validate:"required" yaml:"name"`
	Version          string `validate:"required" yaml:"version"`
	Format           string `validate:"required" yaml:"format"`
	OriginalFilename string `validate:"required" yaml:"original_filename"`
}

// EncryptionInfo records the parameters needed to decrypt the ciphertext, except the key.
type EncryptionInfo struct {
	Backend        string    `validate:"required" yaml:"backend"`
	Algorithm      string    `validate:"required" yaml:"algorithm"`
	KeyRef         string    `validate:"required" yaml:"key_ref"`
	CiphertextFile string    `validate:"required" yaml:"ciphertext_file"`
	NonceHex       string    `validate:"required,hexadecimal,len=24" yaml:"iv_hex"`
	TagHex         string    `validate:"required,hexadecimal,len=32" yaml:"tag_hex"`
	CreatedAt      time.Time `validate:"required" yaml:"created_at"`
}

// IntegrityInfo holds the SHA-256 digests of the plaintext and ciphertext.
type IntegrityInfo struct {
	PlaintextSHA256  string `validate:"required,hexadecimal,len=64" yaml:"plaintext_sha256"`
	CiphertextSHA256 string `validate:"required,hexadecimal,len=64" yaml:"ciphertext_sha256"`
}

// PackagingInfo describes the manifest format itself.
type PackagingInfo struct {
	SchemaVersion string `validate:"required" yaml:"schema_version"`
	Tool          string `validate:"required" yaml:"tool"`
	ToolVersion   string `validate:"required" yaml:"tool_version"`
}

// Manifest is the record of one packaging operation.
type Manifest struct {
	Model      ModelInfo      `yaml:"model"`
	Encryption EncryptionInfo `yaml:"encryption"`
	Integrity  IntegrityInfo  `yaml:"integrity"`
	Packaging  PackagingInfo  `yaml:"packaging"`
}
