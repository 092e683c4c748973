// Package packaging turns a model file into an encrypted package: a ciphertext file plus a manifest.
//
// The whole artifact is held in memory while it is encrypted. Packages written concurrently must target
// distinct output directories; nothing guards two writers sharing one.
package packaging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/idelchi/tmps/internal/digest"
	"github.com/idelchi/tmps/internal/encryption"
	"github.com/idelchi/tmps/internal/fileutil"
	"github.com/idelchi/tmps/internal/manifest"
)

// CiphertextFile is the name of the ciphertext inside an output directory.
const CiphertextFile = "model.enc"

var (
	// ErrIO is returned, joined with the underlying *fs.PathError, when a file cannot be read or written.
	ErrIO = errors.New("i/o failure")
	// ErrDigestMismatch is returned when file contents do not match the manifest.
	ErrDigestMismatch = errors.New("digest mismatch")
	// ErrUnsafePath is returned when a manifest names a ciphertext file outside its package directory.
	ErrUnsafePath = errors.New("unsafe ciphertext file name")
)

// Packager encrypts model files and describes them with manifests.
// It keeps no state between calls.
type Packager struct {
	cipher  *encryption.Cipher
	builder *manifest.Builder
}

// New returns a Packager. Nil arguments select the default cipher and a real clock.
func New(cipher *encryption.Cipher, builder *manifest.Builder) *Packager {
	if cipher == nil {
		cipher = encryption.Default()
	}

	if builder == nil {
		builder = manifest.NewBuilder(nil)
	}

	return &Packager{cipher: cipher, builder: builder}
}

// Package encrypts the file at sourcePath under key, writes the ciphertext to
// outputDir/model.enc and returns the manifest describing it. An empty outputDir is the working directory.
// The manifest is not written; persisting it is left to the caller.
func (p *Packager) Package(key []byte, sourcePath, outputDir string, info manifest.ModelInfo, keyRef string) (*manifest.Manifest, error) {
	if err := encryption.ValidateKey(key); err != nil {
		return nil, err
	}

	plaintext, err := os.ReadFile(filepath.Clean(sourcePath))
	if err != nil {
		return nil, fmt.Errorf("%w: reading model: %w", ErrIO, err)
	}

	sealed, err := p.cipher.Encrypt(key, plaintext)
	if err != nil {
		return nil, fmt.Errorf("encrypting model: %w", err)
	}

	if outputDir == "" {
		outputDir = "."
	}

	const ownerAll = 0o750

	if err := os.MkdirAll(outputDir, ownerAll); err != nil {
		return nil, fmt.Errorf("%w: creating output directory: %w", ErrIO, err)
	}

	ciphertextPath := filepath.Join(outputDir, CiphertextFile)

	const ownerReadWrite = 0o600

	if err := fileutil.WriteFile(ciphertextPath, sealed.Ciphertext, ownerReadWrite); err != nil {
		return nil, fmt.Errorf("%w: writing ciphertext: %w", ErrIO, err)
	}

	return p.builder.Build(manifest.Params{
		Model:            info,
		Backend:          p.cipher.Backend().String(),
		Algorithm:        encryption.Algorithm,
		KeyRef:           keyRef,
		CiphertextFile:   CiphertextFile,
		Nonce:            sealed.Nonce,
		Tag:              sealed.Tag,
		PlaintextSHA256:  digest.Hex(plaintext),
		CiphertextSHA256: digest.Hex(sealed.Ciphertext),
	}), nil
}

// Package runs Packager.Package with the default cipher and a real clock.
func Package(key []byte, sourcePath, outputDir string, info manifest.ModelInfo, keyRef string) (*manifest.Manifest, error) {
	return New(nil, nil).Package(key, sourcePath, outputDir, info, keyRef)
}
