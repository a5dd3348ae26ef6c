package language

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/idelchi/gosubst/internal/fileutil"
	"github.com/idelchi/gosubst/internal/seal"
)

var (
	// ErrExists is returned by Save when the target exists and overwriting was not requested.
	ErrExists = errors.New("language file already exists")
	// ErrKeyRequired is returned by Load for sealed files when no key was given.
	ErrKeyRequired = errors.New("language file is sealed, a key is required")
)

// SaveOptions controls how a language file is written.
type SaveOptions struct {
	// Format overrides the format inferred from the file extension.
	Format Format
	// Seal selects the sealing mode; seal.None writes clear text.
	Seal seal.Mode
	// Key seals the payload when Seal is not seal.None.
	Key []byte
	// Force allows overwriting an existing file.
	Force bool
}

// Save encodes file and writes it atomically to path.
func Save(path string, file *File, opts SaveOptions) error {
	if !opts.Force {
		exists, err := fileutil.Exists(path)
		if err != nil {
			return err
		}

		if exists {
			return fmt.Errorf("%w: %q", ErrExists, path)
		}
	}

	data, err := Encode(file, path, opts)
	if err != nil {
		return err
	}

	out, err := fileutil.CreateAtomic(path, false)
	if err != nil {
		return err
	}

	defer out.Abort()

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("writing language file: %w", err)
	}

	return out.Commit()
}

// Encode serializes file the way Save would write it to path.
func Encode(file *File, path string, opts SaveOptions) ([]byte, error) {
	format := opts.Format
	if format == "" {
		format = FormatOf(path)
	}

	if opts.Seal != seal.None {
		format = JSON
	}

	data, err := format.marshal(file)
	if err != nil {
		return nil, err
	}

	if opts.Seal == seal.None {
		return data, nil
	}

	sealed, err := seal.Seal(data, opts.Key, opts.Seal)
	if err != nil {
		return nil, fmt.Errorf("sealing language: %w", err)
	}

	return sealed, nil
}

// Load reads the language file at path, opening it with key when it is sealed.
// The format follows the extension; a document written in another format is still accepted.
func Load(path string, key []byte) (*File, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading language file: %w", err)
	}

	return Decode(data, FormatOf(path), key)
}

// Decode parses language data, or a sealed JSON payload.
// format is tried first, then the remaining formats.
func Decode(data []byte, format Format, key []byte) (*File, error) {
	mode := seal.None

	if seal.IsSealed(data) {
		if len(key) == 0 {
			return nil, ErrKeyRequired
		}

		sealedWith, err := seal.ModeOf(data)
		if err != nil {
			return nil, fmt.Errorf("opening language: %w", err)
		}

		opened, err := seal.Open(data, key)
		if err != nil {
			return nil, fmt.Errorf("opening language: %w", err)
		}

		data, format, mode = opened, JSON, sealedWith
	}

	file, err := decode(data, format)
	if err != nil {
		for _, other := range Formats() {
			if other == format {
				continue
			}

			if detected, otherErr := decode(data, other); otherErr == nil && len(detected.Entries) > 0 {
				file, err = detected, nil

				break
			}
		}
	}

	if err != nil {
		return nil, err
	}

	file.Seal = mode

	return file, nil
}

func decode(data []byte, format Format) (*File, error) {
	file, err := format.unmarshal(data)
	if err != nil {
		return nil, err
	}

	if _, err := file.Mapping(); err != nil {
		return nil, err
	}

	return file, nil
}
