// Package config holds the runtime configuration of gosubst.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/idelchi/gogen/pkg/key"
)

// ErrUsage is returned for invalid combinations of options.
var ErrUsage = errors.New("usage error")

// Suffixes holds the file extensions used for encrypted and decrypted outputs.
type Suffixes struct {
	// Encrypt is appended to encrypted files and stripped on decryption.
	Encrypt string `label:"--encrypt-ext" mapstructure:"encrypt-ext" validate:"required"`
	// Decrypt is appended to decrypted files.
	Decrypt string `label:"--decrypt-ext" mapstructure:"decrypt-ext"`
}

// Log configures the structured logger.
type Log struct {
	Level  string `label:"--log-level"  mapstructure:"log-level"  validate:"oneof=debug info warn error"`
	Format string `label:"--log-format" mapstructure:"log-format" validate:"oneof=text json"`
}

// Config holds the application configuration.
type Config struct {
	// Show prints the configuration and exits.
	Show bool

	// Config is the path of an optional configuration file.
	Config string

	// Language is the path of the language file shared by both parties.
	Language string `label:"--language" validate:"required"`

	// Key is the hex-encoded key of a sealed language file, or "-" to prompt for it.
	Key string `label:"--key" mapstructure:"key" mask:"fixed" validate:"exclusive=KeyFile"`

	// KeyFile is the path of a file holding the hex-encoded key.
	KeyFile string `label:"--key-file" mapstructure:"key-file"`

	// Parallel is the number of files processed concurrently.
	Parallel int `label:"--parallel" validate:"min=1"`

	// Quiet suppresses non-error output.
	Quiet bool

	// Delete removes the input file after successful processing.
	Delete bool

	// Dry lists what would be processed without writing anything.
	Dry bool

	// Stats prints a processing summary.
	Stats bool

	// PreserveTimestamps copies the input modification time to the output.
	PreserveTimestamps bool `mapstructure:"preserve-timestamps"`

	Suffixes Suffixes `mapstructure:",squash"`

	Log Log `mapstructure:",squash"`

	// Alphabet overrides the default alphabet of generated languages.
	Alphabet string

	// Seal selects how generate protects the language file.
	Seal string `label:"--seal" validate:"omitempty,oneof=none deterministic randomized"`

	// Format overrides the language file format inferred from its extension.
	Format string `label:"--format" validate:"omitempty,oneof=json yaml toml"`

	// Force allows generate to overwrite an existing language file.
	Force bool

	// Decrypt is set by the decrypt command.
	Decrypt bool `mapstructure:"-"`

	// Files holds the positional arguments.
	Files []string `mapstructure:"-"`
}

// ResolveKey returns the raw key bytes from --key, --key-file or an interactive prompt.
// It returns nil when no key was configured.
func (c *Config) ResolveKey() ([]byte, error) {
	var (
		encoded string
		err     error
	)

	switch {
	case c.Key == "-":
		encoded, err = prompt()
	case c.Key != "":
		encoded = c.Key
	case c.KeyFile != "":
		var data []byte

		data, err = os.ReadFile(c.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("reading key file: %w", err)
		}

		encoded = string(data)
	default:
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	decoded, err := key.FromHex(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("reading key: %w", err)
	}

	return decoded, nil
}

// prompt reads a key from the terminal without echoing it.
func prompt() (string, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in int

	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("%w: --key - requires an interactive terminal", ErrUsage)
	}

	fmt.Fprint(os.Stderr, "Key (hex): ")

	secret, err := term.ReadPassword(fd)

	fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", fmt.Errorf("reading key from terminal: %w", err)
	}

	return string(secret), nil
}
