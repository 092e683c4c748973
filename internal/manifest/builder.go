package manifest

import (
	"encoding/hex"

	"github.com/idelchi/tmps/internal/clock"
)

// Params are the already-computed values a manifest is assembled from.
type Params struct {
	Model            ModelInfo
	Backend          string
	Algorithm        string
	KeyRef           string
	CiphertextFile   string
	Nonce            []byte
	Tag              []byte
	PlaintextSHA256  string
	CiphertextSHA256 string
}

// Builder assembles manifests, stamping them with the time from its clock.
type Builder struct {
	clock       clock.Clock
	toolVersion string
}

// NewBuilder returns a Builder reading time from c. A nil c uses the real clock.
func NewBuilder(c clock.Clock) *Builder {
	if c == nil {
		c = clock.Real()
	}

	return &Builder{clock: c, toolVersion: ToolVersion}
}

// WithToolVersion returns a copy of b recording version as the packaging tool version.
func (b *Builder) WithToolVersion(version string) *Builder {
	clone := *b
	if version != "" {
		clone.toolVersion = version
	}

	return &clone
}

// Build assembles a manifest from p. The clock is read exactly once.
func (b *Builder) Build(p Params) *Manifest {
	createdAt := b.clock.Now().UTC()

	return &Manifest{
		Model: p.Model,
		Encryption: EncryptionInfo{
			Backend:        p.Backend,
			Algorithm:      p.Algorithm,
			KeyRef:         p.KeyRef,
			CiphertextFile: p.CiphertextFile,
			NonceHex:       hex.EncodeToString(p.Nonce),
			TagHex:         hex.EncodeToString(p.Tag),
			CreatedAt:      createdAt,
		},
		Integrity: IntegrityInfo{
			PlaintextSHA256:  p.PlaintextSHA256,
			CiphertextSHA256: p.CiphertextSHA256,
		},
		Packaging: PackagingInfo{
			SchemaVersion: SchemaVersion,
			Tool:          Tool,
			ToolVersion:   b.toolVersion,
		},
	}
}
