package substitution

import "errors"

var (
	// ErrUnknownCharacter is returned when a message contains a character the mapping cannot encode.
	ErrUnknownCharacter = errors.New("unknown character")
	// ErrUnrecognizedToken is returned when a ciphertext chunk was not produced by this mapping.
	ErrUnrecognizedToken = errors.New("token not recognized for this mapping")
	// ErrInvalidToken is returned when a supplied token is not exactly TokenLength runes long.
	ErrInvalidToken = errors.New("invalid token")
	// ErrDuplicateToken is returned when two characters of a supplied mapping share a token.
	ErrDuplicateToken = errors.New("duplicate token")
	// ErrInvalidAlphabet is returned for empty alphabets or alphabets containing a newline.
	ErrInvalidAlphabet = errors.New("invalid alphabet")
)
