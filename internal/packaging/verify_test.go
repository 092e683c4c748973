package packaging_test

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/tmps/internal/encryption"
	"github.com/idelchi/tmps/internal/manifest"
	"github.com/idelchi/tmps/internal/packaging"
)

func packageSample(t *testing.T, content []byte) (string, *manifest.Manifest) {
	t.Helper()

	outDir := t.TempDir()

	m, err := packaging.Package(testKey(), writeSource(t, content), outDir, testInfo(), "ref")
	require.NoError(t, err)

	return outDir, m
}

func TestVerifyDetectsTamperedCiphertext(t *testing.T) {
	t.Parallel()

	outDir, m := packageSample(t, []byte("weights"))
	path := filepath.Join(outDir, packaging.CiphertextFile)

	ciphertext, err := os.ReadFile(path)
	require.NoError(t, err)

	ciphertext[0] ^= 0x01
	require.NoError(t, os.WriteFile(path, ciphertext, 0o600))

	require.ErrorIs(t, packaging.Verify(outDir, m), packaging.ErrDigestMismatch)

	_, err = packaging.New(nil, nil).Unpack(testKey(), outDir, m)
	require.ErrorIs(t, err, packaging.ErrDigestMismatch)
}

func TestVerifyMissingCiphertext(t *testing.T) {
	t.Parallel()

	outDir, m := packageSample(t, []byte("weights"))
	require.NoError(t, os.Remove(filepath.Join(outDir, packaging.CiphertextFile)))

	err := packaging.Verify(outDir, m)
	require.ErrorIs(t, err, packaging.ErrIO)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestCiphertextPathRejectsTraversal(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", ".", "..", "../model.enc", "sub/model.enc", "/etc/passwd"} {
		m := &manifest.Manifest{Encryption: manifest.EncryptionInfo{CiphertextFile: name}}

		_, err := packaging.CiphertextPath("pkg", m)
		require.ErrorIs(t, err, packaging.ErrUnsafePath, name)
	}
}

func TestUnpackAfterManifestRoundTrip(t *testing.T) {
	t.Parallel()

	source := []byte("dummy model contents for tmps test")
	outDir, m := packageSample(t, source)

	manifestPath := filepath.Join(outDir, manifest.FileName)
	require.NoError(t, manifest.Write(m, manifestPath))

	loaded, err := manifest.Read(manifestPath)
	require.NoError(t, err)

	plaintext, err := packaging.New(nil, nil).Unpack(testKey(), outDir, loaded)
	require.NoError(t, err)
	assert.Equal(t, source, plaintext)
}

func TestUnpackWrongKey(t *testing.T) {
	t.Parallel()

	outDir, m := packageSample(t, []byte("weights"))

	plaintext, err := packaging.New(nil, nil).Unpack(bytes.Repeat([]byte{0x22}, encryption.KeySize), outDir, m)
	require.ErrorIs(t, err, encryption.ErrAuthentication)
	assert.Nil(t, plaintext)
}

func TestUnpackTamperedTag(t *testing.T) {
	t.Parallel()

	outDir, m := packageSample(t, []byte("weights"))

	tag, err := m.Tag()
	require.NoError(t, err)

	tag[0] ^= 0x80
	tampered := *m
	tampered.Encryption.TagHex = hex.EncodeToString(tag)

	// The ciphertext digest still matches, so only the AEAD check can catch this.
	require.NoError(t, packaging.Verify(outDir, &tampered))

	_, err = packaging.New(nil, nil).Unpack(testKey(), outDir, &tampered)
	require.ErrorIs(t, err, encryption.ErrAuthentication)
}
