package commands_test

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/tmps/internal/commands"
	"github.com/idelchi/tmps/internal/config"
	"github.com/idelchi/tmps/internal/encryption"
	"github.com/idelchi/tmps/internal/logic"
	"github.com/idelchi/tmps/internal/manifest"
	"github.com/idelchi/tmps/internal/packaging"
)

var testKey = strings.Repeat("11", encryption.KeySize)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	root := commands.NewRootCommand("test")
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()

	return out.String(), err
}

func writeModel(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test_model.onnx")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestPackageVerifyDecrypt(t *testing.T) {
	t.Parallel()

	model := writeModel(t, "dummy model contents for tmps test")
	outDir := filepath.Join(t.TempDir(), "pkg")

	out, err := run(t, "package",
		"--model", model,
		"--output-dir", outDir,
		"--model-id", "test-model-001",
		"--name", "Test Model",
		"--model-version", "0.0.1-test",
		"--key", testKey,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Model encrypted successfully.")
	assert.Contains(t, out, filepath.Join(outDir, packaging.CiphertextFile))

	m, err := manifest.Read(filepath.Join(outDir, manifest.FileName))
	require.NoError(t, err)
	assert.Equal(t, "test-model-001", m.Model.ID)
	assert.Equal(t, "onnx", m.Model.Format)
	assert.Equal(t, "test_model.onnx", m.Model.OriginalFilename)
	assert.Equal(t, "model-key-001", m.Encryption.KeyRef)
	assert.Equal(t, "test", m.Packaging.ToolVersion)

	out, err = run(t, "verify", "--dir", outDir, "--source", model)
	require.NoError(t, err)
	assert.Contains(t, out, "is intact")

	_, err = run(t, "verify", "--dir", outDir, "--key", testKey)
	require.NoError(t, err)

	restored := filepath.Join(t.TempDir(), "restored.onnx")

	_, err = run(t, "decrypt", "--dir", outDir, "--output", restored, "--key", testKey)
	require.NoError(t, err)

	data, err := os.ReadFile(restored)
	require.NoError(t, err)
	assert.Equal(t, "dummy model contents for tmps test", string(data))
}

func TestPackageTinkBackendWithKeyFile(t *testing.T) {
	t.Parallel()

	keyFile := filepath.Join(t.TempDir(), "model.key")
	require.NoError(t, os.WriteFile(keyFile, []byte(testKey+"\n"), 0o600))

	outDir := t.TempDir()

	_, err := run(t, "package", "-q",
		"--model", writeModel(t, "weights"),
		"-o", outDir,
		"--model-id", "m",
		"--name", "M",
		"--model-version", "1",
		"--backend", "tink-go",
		"--key-file", keyFile,
	)
	require.NoError(t, err)

	m, err := manifest.Read(filepath.Join(outDir, manifest.FileName))
	require.NoError(t, err)
	assert.Equal(t, encryption.BackendTink.String(), m.Encryption.Backend)

	_, err = run(t, "verify", "-d", outDir, "-f", keyFile)
	require.NoError(t, err)
}

func TestPackageMetadataFile(t *testing.T) {
	t.Parallel()

	metadata := filepath.Join(t.TempDir(), "model.jsonc")
	require.NoError(t, os.WriteFile(metadata, []byte(`{
  // defaults for the package command
  "id": "resnet50",
  "name": "ResNet-50",
  "version": "1.2.0",
  "format": "torchscript",
  "key_ref": "vault://models/resnet50",
}`), 0o600))

	outDir := t.TempDir()

	_, err := run(t, "package",
		"--model", writeModel(t, "weights"),
		"--output-dir", outDir,
		"--metadata", metadata,
		"--model-version", "1.3.0",
		"--key", testKey,
	)
	require.NoError(t, err)

	m, err := manifest.Read(filepath.Join(outDir, manifest.FileName))
	require.NoError(t, err)

	assert.Equal(t, "resnet50", m.Model.ID)
	assert.Equal(t, "ResNet-50", m.Model.Name)
	assert.Equal(t, "1.3.0", m.Model.Version, "flags override metadata")
	assert.Equal(t, "torchscript", m.Model.Format, "metadata overrides flag defaults")
	assert.Equal(t, "vault://models/resnet50", m.Encryption.KeyRef)
}

func TestPackageKeyFromEnvironment(t *testing.T) {
	t.Setenv(commands.EnvPrefix+"_KEY", testKey)
	t.Setenv(commands.EnvPrefix+"_KEY_REF", "env-key")

	outDir := t.TempDir()

	_, err := run(t, "package",
		"--model", writeModel(t, "weights"),
		"--output-dir", outDir,
		"--model-id", "m",
		"--name", "M",
		"--model-version", "1",
	)
	require.NoError(t, err)

	m, err := manifest.Read(filepath.Join(outDir, manifest.FileName))
	require.NoError(t, err)
	assert.Equal(t, "env-key", m.Encryption.KeyRef)
}

func TestPackageRequiresKey(t *testing.T) {
	t.Parallel()

	outDir := filepath.Join(t.TempDir(), "pkg")

	_, err := run(t, "package",
		"--model", writeModel(t, "weights"),
		"--output-dir", outDir,
		"--model-id", "m",
		"--name", "M",
		"--model-version", "1",
	)
	require.ErrorIs(t, err, config.ErrNoKey)

	_, statErr := os.Stat(outDir)
	require.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestPackageRejectsInvalidSettings(t *testing.T) {
	t.Parallel()

	model := writeModel(t, "weights")

	_, err := run(t, "package",
		"--model", model,
		"--output-dir", t.TempDir(),
		"--model-id", "m",
		"--name", "M",
		"--model-version", "1",
		"--backend", "openssl",
		"--key", testKey,
	)
	require.ErrorIs(t, err, config.ErrInvalid)

	_, err = run(t, "package", "--model", model, "--key", testKey)
	require.ErrorIs(t, err, config.ErrInvalid)
	assert.Contains(t, err.Error(), "--output-dir is a required field")
}

func TestDecryptRefusesOverwrite(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()

	_, err := run(t, "package",
		"--model", writeModel(t, "weights"),
		"--output-dir", outDir,
		"--model-id", "m",
		"--name", "M",
		"--model-version", "1",
		"--key", testKey,
	)
	require.NoError(t, err)

	existing := filepath.Join(t.TempDir(), "model.onnx")
	require.NoError(t, os.WriteFile(existing, []byte("keep"), 0o600))

	_, err = run(t, "decrypt", "--dir", outDir, "--output", existing, "--key", testKey)
	require.ErrorIs(t, err, logic.ErrOutputExists)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))

	_, err = run(t, "decrypt", "--dir", outDir, "--output", existing, "--key", testKey, "--force")
	require.NoError(t, err)

	data, err = os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "weights", string(data))
}

func TestVerifyDetectsTampering(t *testing.T) {
	t.Parallel()

	model := writeModel(t, "weights")
	outDir := t.TempDir()

	_, err := run(t, "package",
		"--model", model,
		"--output-dir", outDir,
		"--model-id", "m",
		"--name", "M",
		"--model-version", "1",
		"--key", testKey,
	)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(model, []byte("other weights"), 0o600))

	_, err = run(t, "verify", "--dir", outDir, "--source", model)
	require.ErrorIs(t, err, packaging.ErrDigestMismatch)

	_, err = run(t, "verify", "--dir", outDir, "--key", strings.Repeat("22", encryption.KeySize))
	require.ErrorIs(t, err, encryption.ErrAuthentication)
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	out, err := run(t, "generate")
	require.NoError(t, err)

	key, err := hex.DecodeString(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Len(t, key, encryption.KeySize)
}
