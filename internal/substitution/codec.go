package substitution

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

// Codec encrypts and decrypts text with a Mapping.
// It is safe for concurrent use.
type Codec struct {
	mapping *Mapping
}

// New creates a codec using mapping.
// A nil mapping is replaced by a freshly generated one over the default alphabet.
func New(mapping *Mapping) *Codec {
	if mapping == nil {
		mapping = Generate(DefaultAlphabet())
	}

	return &Codec{mapping: mapping}
}

// Mapping returns the mapping the codec was built with.
func (c *Codec) Mapping() *Mapping {
	return c.mapping
}

// EncodeRune returns the token of r.
func (c *Codec) EncodeRune(r rune) (string, error) {
	token, ok := c.mapping.Lookup(r)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCharacter, r)
	}

	return token, nil
}

// DecodeToken returns the character a two-rune token encodes.
func (c *Codec) DecodeToken(token string) (rune, error) {
	r, ok := c.mapping.Reverse(token)
	if !ok {
		return 0, fmt.Errorf("%w: %q, the message was encrypted with a different language", ErrUnrecognizedToken, token)
	}

	return r, nil
}

// Encrypt replaces every character of message with its token.
func (c *Codec) Encrypt(message string) (string, error) {
	var out strings.Builder

	out.Grow(TokenLength * len(message))

	position := 0

	for _, r := range message {
		token, err := c.EncodeRune(r)
		if err != nil {
			return "", fmt.Errorf("encrypting character %d: %w", position, err)
		}

		out.WriteString(token)

		position++
	}

	return out.String(), nil
}

// Decrypt splits message into consecutive two-rune chunks and maps each back to its character.
// A trailing incomplete chunk is reported as ErrUnrecognizedToken.
func (c *Codec) Decrypt(message string) (string, error) {
	runes := []rune(message)

	var out strings.Builder

	out.Grow(len(runes) / TokenLength)

	for start := 0; start < len(runes); start += TokenLength {
		end := start + TokenLength
		if end > len(runes) {
			return "", fmt.Errorf("decrypting chunk %d: %w: incomplete token %q",
				start/TokenLength, ErrUnrecognizedToken, string(runes[start:]))
		}

		r, err := c.DecodeToken(string(runes[start:end]))
		if err != nil {
			return "", fmt.Errorf("decrypting chunk %d: %w", start/TokenLength, err)
		}

		out.WriteRune(r)
	}

	return out.String(), nil
}

// Dump writes a human-readable table of the mapping to w.
// The output is meant for inspection only and cannot be loaded back.
func (c *Codec) Dump(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "CHARACTER\tTOKEN\n")

	for r, token := range c.mapping.All() {
		fmt.Fprintf(tw, "%s\t%s\n", strconv.QuoteRune(r), strconv.Quote(token))
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing mapping table: %w", err)
	}

	return nil
}

// String renders the mapping for debugging.
func (c *Codec) String() string {
	var out strings.Builder

	_ = c.Dump(&out)

	return out.String()
}
