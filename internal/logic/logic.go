// Package logic implements the command workflows on top of the packaging core.
package logic

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/idelchi/gogen/pkg/key"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/idelchi/tmps/internal/clock"
	"github.com/idelchi/tmps/internal/config"
	"github.com/idelchi/tmps/internal/digest"
	"github.com/idelchi/tmps/internal/encryption"
	"github.com/idelchi/tmps/internal/fileutil"
	"github.com/idelchi/tmps/internal/manifest"
	"github.com/idelchi/tmps/internal/packaging"
)

// ErrOutputExists is returned when decrypting onto an existing file without --force.
var ErrOutputExists = errors.New("output file already exists")

// RunPackage encrypts the model, then writes the manifest next to the ciphertext.
// version is recorded in the manifest as the tool version.
func RunPackage(cfg *config.Package, version string, out io.Writer) error {
	log := newLogger(cfg.Common)
	start := time.Now()

	secret, err := cfg.Bytes()
	if err != nil {
		return fmt.Errorf("loading key: %w", err)
	}

	backend, err := encryption.ParseBackend(cfg.Backend)
	if err != nil {
		return err
	}

	cipher, err := encryption.NewCipher(backend, nil)
	if err != nil {
		return fmt.Errorf("creating cipher: %w", err)
	}

	info := manifest.ModelInfo{
		ID:               cfg.ModelID,
		Name:             cfg.Name,
		Version:          cfg.ModelVersion,
		Format:           cfg.Format,
		OriginalFilename: filepath.Base(cfg.Model),
	}

	log.WithFields(logrus.Fields{
		"model":   cfg.Model,
		"output":  cfg.OutputDir,
		"backend": backend,
		"key_ref": cfg.KeyRef,
	}).Debug("packaging model")

	m, err := packaging.New(cipher, manifest.NewBuilder(clock.Real()).WithToolVersion(version)).
		Package(secret, cfg.Model, cfg.OutputDir, info, cfg.KeyRef)
	if err != nil {
		return fmt.Errorf("packaging %q: %w", cfg.Model, err)
	}

	if err := m.Validate(); err != nil {
		return fmt.Errorf("checking manifest: %w", err)
	}

	ciphertextPath := filepath.Join(cfg.OutputDir, m.Encryption.CiphertextFile)
	manifestPath := filepath.Join(cfg.OutputDir, cfg.Manifest)

	if err := manifest.Write(m, manifestPath); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"plaintext_sha256":  m.Integrity.PlaintextSHA256,
		"ciphertext_sha256": m.Integrity.CiphertextSHA256,
		"duration":          time.Since(start).Round(time.Millisecond),
	}).Debug("package written")

	if !cfg.Quiet {
		size, err := fileSize(ciphertextPath)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, "Model encrypted successfully.")
		fmt.Fprintf(out, " Output ciphertext: %s (%s)\n", ciphertextPath, humanize.IBytes(size))
		fmt.Fprintf(out, " Manifest: %s\n", manifestPath)
	}

	return nil
}

// RunVerify checks a package against its manifest. Without a key only digests are compared;
// with a key the ciphertext is also decrypted and authenticated.
func RunVerify(cfg *config.Verify, out io.Writer) error {
	log := newLogger(cfg.Common)

	m, err := manifest.Read(filepath.Join(cfg.Dir, cfg.Manifest))
	if err != nil {
		return err
	}

	var group errgroup.Group

	group.Go(func() error {
		return packaging.Verify(cfg.Dir, m)
	})

	if cfg.Source != "" {
		group.Go(func() error {
			sum, err := digest.File(cfg.Source)
			if err != nil {
				return fmt.Errorf("%w: %w", packaging.ErrIO, err)
			}

			if !digest.Equal(sum, m.Integrity.PlaintextSHA256) {
				return fmt.Errorf("%w: source %q has sha256 %s, manifest records %s",
					packaging.ErrDigestMismatch, cfg.Source, sum, m.Integrity.PlaintextSHA256)
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return fmt.Errorf("verifying %q: %w", cfg.Dir, err)
	}

	log.WithField("ciphertext_sha256", m.Integrity.CiphertextSHA256).Debug("ciphertext digest matches")

	if cfg.Provided() {
		secret, err := cfg.Bytes()
		if err != nil {
			return fmt.Errorf("loading key: %w", err)
		}

		if _, err := packaging.New(nil, nil).Unpack(secret, cfg.Dir, m); err != nil {
			return fmt.Errorf("verifying %q: %w", cfg.Dir, err)
		}

		log.Debug("ciphertext authenticated and plaintext digest matches")
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "Package %s is intact (model %s %s, key ref %s).\n",
			cfg.Dir, m.Model.ID, m.Model.Version, m.Encryption.KeyRef)
	}

	return nil
}

// RunDecrypt restores the original model from a package.
func RunDecrypt(cfg *config.Decrypt, out io.Writer) error {
	log := newLogger(cfg.Common)

	m, err := manifest.Read(filepath.Join(cfg.Dir, cfg.Manifest))
	if err != nil {
		return err
	}

	secret, err := cfg.Bytes()
	if err != nil {
		return fmt.Errorf("loading key: %w", err)
	}

	if !cfg.Force {
		if _, err := os.Stat(cfg.Output); err == nil {
			return fmt.Errorf("%w: %q (use --force to overwrite)", ErrOutputExists, cfg.Output)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("checking output: %w", err)
		}
	}

	log.WithFields(logrus.Fields{
		"dir":     cfg.Dir,
		"backend": m.Encryption.Backend,
		"key_ref": m.Encryption.KeyRef,
	}).Debug("decrypting package")

	plaintext, err := packaging.New(nil, nil).Unpack(secret, cfg.Dir, m)
	if err != nil {
		return fmt.Errorf("decrypting %q: %w", cfg.Dir, err)
	}

	const ownerReadWrite = 0o600

	if err := fileutil.WriteFile(cfg.Output, plaintext, ownerReadWrite); err != nil {
		return fmt.Errorf("writing plaintext: %w", err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "Decrypted %q -> %q (%s)\n",
			m.Model.OriginalFilename, cfg.Output, humanize.IBytes(uint64(len(plaintext))))
	}

	return nil
}

// RunGenerate prints a fresh random key, hex-encoded.
func RunGenerate(out io.Writer) error {
	k, err := key.New(encryption.KeySize)
	if err != nil {
		return fmt.Errorf("generating key: %w", err)
	}

	fmt.Fprintln(out, k.AsHex())

	return nil
}

func fileSize(path string) (uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat %q: %w", path, err)
	}

	return uint64(info.Size()), nil //nolint:gosec // file sizes are non-negative
}
