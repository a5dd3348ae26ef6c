package substitution

import (
	"fmt"
	"iter"
	"math/rand/v2"
	"slices"
	"unicode/utf8"
)

// TokenLength is the number of runes every token spans.
const TokenLength = 2

// Mapping is an immutable bidirectional association between characters and tokens.
type Mapping struct {
	forward map[rune]string
	reverse map[string]rune

	// order is the key order used for iteration and display.
	order []rune
}

// Generate builds a random mapping over alphabet.
// Each character receives a unique token of two characters sampled with replacement
// from the alphabet, and the newline receives itself followed by one random character.
func Generate(alphabet Alphabet) *Mapping {
	return generate(alphabet, rand.IntN)
}

// generate is Generate with an injectable source of uniform integers in [0, n).
func generate(alphabet Alphabet, intN func(n int) int) *Mapping {
	runes := alphabet.runes
	size := len(runes) + 1

	mapping := &Mapping{
		forward: make(map[rune]string, size),
		reverse: make(map[string]rune, size),
		order:   make([]rune, 0, size),
	}

	pick := func() rune { return runes[intN(len(runes))] }

	for _, r := range runes {
		var token string

		for {
			token = string([]rune{pick(), pick()})
			if _, taken := mapping.reverse[token]; !taken {
				break
			}
		}

		mapping.add(r, token)
	}

	// The token cannot collide: no alphabet character is a newline.
	mapping.add(Newline, string([]rune{Newline, pick()}))

	return mapping
}

// NewMapping validates caller-supplied entries and builds a mapping from them.
// Every token must be exactly TokenLength runes long and used by a single character.
// Keys are ordered by code point.
func NewMapping(entries map[rune]string) (*Mapping, error) {
	keys := make([]rune, 0, len(entries))
	for r := range entries {
		keys = append(keys, r)
	}

	slices.Sort(keys)

	mapping := &Mapping{
		forward: make(map[rune]string, len(entries)),
		reverse: make(map[string]rune, len(entries)),
		order:   make([]rune, 0, len(entries)),
	}

	for _, r := range keys {
		token := entries[r]

		if !utf8.ValidString(token) || utf8.RuneCountInString(token) != TokenLength {
			return nil, fmt.Errorf("%w: %q maps to %q, want %d runes", ErrInvalidToken, r, token, TokenLength)
		}

		if other, taken := mapping.reverse[token]; taken {
			return nil, fmt.Errorf("%w: %q is used by both %q and %q", ErrDuplicateToken, token, other, r)
		}

		mapping.add(r, token)
	}

	return mapping, nil
}

func (m *Mapping) add(r rune, token string) {
	m.forward[r] = token
	m.reverse[token] = r
	m.order = append(m.order, r)
}

// Lookup returns the token of r.
func (m *Mapping) Lookup(r rune) (string, bool) {
	token, ok := m.forward[r]

	return token, ok
}

// Reverse returns the character that token encodes.
func (m *Mapping) Reverse(token string) (rune, bool) {
	r, ok := m.reverse[token]

	return r, ok
}

// Len returns the number of entries, newline included.
func (m *Mapping) Len() int {
	return len(m.order)
}

// All iterates over the entries in mapping order.
func (m *Mapping) All() iter.Seq2[rune, string] {
	return func(yield func(rune, string) bool) {
		for _, r := range m.order {
			if !yield(r, m.forward[r]) {
				return
			}
		}
	}
}

// Alphabet returns the characters of the mapping in mapping order, newline excluded.
func (m *Mapping) Alphabet() Alphabet {
	alphabet := Alphabet{index: make(map[rune]struct{}, len(m.order))}

	for _, r := range m.order {
		if r == Newline {
			continue
		}

		alphabet.index[r] = struct{}{}
		alphabet.runes = append(alphabet.runes, r)
	}

	return alphabet
}

// Entries returns a copy of the forward mapping.
func (m *Mapping) Entries() map[rune]string {
	entries := make(map[rune]string, len(m.forward))
	for r, token := range m.All() {
		entries[r] = token
	}

	return entries
}

// Equal reports whether both mappings associate the same characters with the same tokens.
func (m *Mapping) Equal(other *Mapping) bool {
	if m.Len() != other.Len() {
		return false
	}

	for r, token := range m.All() {
		if got, ok := other.Lookup(r); !ok || got != token {
			return false
		}
	}

	return true
}
