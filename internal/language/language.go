// Package language stores substitution mappings in files that communicating parties share.
//
// A language file records an identifier, its creation time, the alphabet it was generated
// from and the character/token entries. It is written as JSON, YAML or TOML and may be
// sealed with a key (see package seal), in which case the sealed payload is always JSON.
package language

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/idelchi/gosubst/internal/seal"
	"github.com/idelchi/gosubst/internal/substitution"
)

// ErrInvalidFile is returned when a language file does not describe a valid mapping.
var ErrInvalidFile = errors.New("invalid language file")

// Entry associates a character with its token.
type Entry struct {
	Char  string `json:"char"  toml:"char"  yaml:"char"`
	Token string `json:"token" toml:"token" yaml:"token"`
}

// File is the serialized form of a language.
type File struct {
	ID       string    `json:"id"                 toml:"id"                 yaml:"id"`
	Created  time.Time `json:"created"            toml:"created"            yaml:"created"`
	Alphabet string    `json:"alphabet,omitempty" toml:"alphabet,omitempty" yaml:"alphabet,omitempty"`
	Entries  []Entry   `json:"entries"            toml:"entries"            yaml:"entries"`

	// Seal is the mode the file was sealed with when it was loaded.
	Seal seal.Mode `json:"-" toml:"-" yaml:"-"`
}

// New generates a random language over alphabet.
func New(alphabet substitution.Alphabet, now time.Time) *File {
	return FromMapping(substitution.Generate(alphabet), alphabet.String(), now)
}

// FromMapping wraps an existing mapping into a new language file with a fresh identifier.
func FromMapping(mapping *substitution.Mapping, alphabet string, now time.Time) *File {
	file := &File{
		ID:       ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Created:  now.UTC().Truncate(time.Second),
		Alphabet: alphabet,
		Entries:  make([]Entry, 0, mapping.Len()),
	}

	for r, token := range mapping.All() {
		file.Entries = append(file.Entries, Entry{Char: string(r), Token: token})
	}

	return file
}

// Mapping validates the entries and builds the substitution mapping they describe.
func (f *File) Mapping() (*substitution.Mapping, error) {
	entries := make(map[rune]string, len(f.Entries))

	for i, entry := range f.Entries {
		r, size := utf8.DecodeRuneInString(entry.Char)
		if r == utf8.RuneError || size != len(entry.Char) {
			return nil, fmt.Errorf("%w: entry %d: %q is not a single character", ErrInvalidFile, i, entry.Char)
		}

		if _, dup := entries[r]; dup {
			return nil, fmt.Errorf("%w: entry %d: character %q listed twice", ErrInvalidFile, i, r)
		}

		entries[r] = entry.Token
	}

	mapping, err := substitution.NewMapping(entries)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	return mapping, nil
}
