package substitution

import (
	"fmt"
	"slices"
)

// Newline is encoded outside of the alphabet: its token is the newline itself
// followed by one random alphabet character.
const Newline = '\n'

const (
	lettersLower = "abcdefghijklmnopqrstuvwxyz"
	lettersUpper = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits       = "0123456789"
	symbols      = `\/?°´ª[{]}-+=§!@#$%¨&*()$£¢¬º^~:;.<>,| "`
	accentsLower = "çáãéêâîíõôóúàèìòùú'"
	accentsUpper = "ÇÁÃÉÊÂÎÍÕÔÓÚÀÈÌÒÙÚ'"
)

// Alphabet is an ordered set of distinct source characters.
type Alphabet struct {
	runes []rune
	index map[rune]struct{}
}

// DefaultAlphabet returns the Latin, digit, symbol and Portuguese accent alphabet.
func DefaultAlphabet() Alphabet {
	alphabet, err := NewAlphabet(lettersLower + lettersUpper + digits + symbols + accentsLower + accentsUpper)
	if err != nil {
		panic(err)
	}

	return alphabet
}

// NewAlphabet builds an alphabet from the characters of s.
// Repeated characters keep their first position.
func NewAlphabet(s string) (Alphabet, error) {
	alphabet := Alphabet{index: make(map[rune]struct{})}

	for _, r := range s {
		if r == Newline {
			return Alphabet{}, fmt.Errorf("%w: newline is reserved", ErrInvalidAlphabet)
		}

		if _, ok := alphabet.index[r]; ok {
			continue
		}

		alphabet.index[r] = struct{}{}
		alphabet.runes = append(alphabet.runes, r)
	}

	if len(alphabet.runes) == 0 {
		return Alphabet{}, fmt.Errorf("%w: no characters", ErrInvalidAlphabet)
	}

	return alphabet, nil
}

// Len returns the number of distinct characters.
func (a Alphabet) Len() int {
	return len(a.runes)
}

// Contains reports whether r belongs to the alphabet.
func (a Alphabet) Contains(r rune) bool {
	_, ok := a.index[r]

	return ok
}

// Runes returns the characters in alphabet order.
func (a Alphabet) Runes() []rune {
	return slices.Clone(a.runes)
}

// String returns the characters in alphabet order.
func (a Alphabet) String() string {
	return string(a.runes)
}
