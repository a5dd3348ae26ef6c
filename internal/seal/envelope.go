// Package seal protects language files with authenticated encryption.
//
// A sealed payload starts with a small header (magic, version, flags, mode)
// that is authenticated together with the ciphertext.
// Deterministic sealing uses AES-SIV via Tink and needs a 64-byte key.
// Randomized sealing uses AES-CTR with HMAC-SHA256 and needs a 32-byte key.
package seal

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
)

const (
	envelopeMagic   = "SUBL"
	envelopeVersion = byte(1)

	envelopeHeaderSize = len(envelopeMagic) + 3
)

const (
	// DeterministicKeySize is the key size required by Deterministic.
	DeterministicKeySize = 64
	// RandomizedKeySize is the key size required by Randomized.
	RandomizedKeySize = 32
)

var (
	// ErrEnvelope is returned for payloads whose header cannot be parsed.
	ErrEnvelope = errors.New("invalid envelope")
	// ErrAuthentication is returned when a payload fails authentication, usually because of a wrong key.
	ErrAuthentication = errors.New("authentication failed")
	// ErrKeySize is returned when a key does not match the size a mode requires.
	ErrKeySize = errors.New("invalid key size")
)

// Mode selects the sealing algorithm.
type Mode byte

const (
	// None leaves the payload in clear text.
	None Mode = 0x00
	// Deterministic seals with AES-SIV: equal inputs give equal outputs.
	Deterministic Mode = 0x01
	// Randomized seals with AES-CTR and HMAC-SHA256 under a random IV.
	Randomized Mode = 0x02
)

// ParseMode converts a mode name into a Mode.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "", "none":
		return None, nil
	case "deterministic":
		return Deterministic, nil
	case "randomized":
		return Randomized, nil
	default:
		return None, fmt.Errorf("unknown seal mode %q", name)
	}
}

func (m Mode) String() string {
	switch m {
	case None:
		return "none"
	case Deterministic:
		return "deterministic"
	case Randomized:
		return "randomized"
	default:
		return fmt.Sprintf("mode(%d)", byte(m))
	}
}

// KeySize returns the key length the mode requires, or 0 for None.
func (m Mode) KeySize() int {
	switch m {
	case Deterministic:
		return DeterministicKeySize
	case Randomized:
		return RandomizedKeySize
	default:
		return 0
	}
}

// GenerateKey returns a random key suitable for mode.
func GenerateKey(mode Mode) ([]byte, error) {
	size := mode.KeySize()
	if size == 0 {
		return nil, fmt.Errorf("mode %s takes no key", mode)
	}

	key := make([]byte, size)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}

	return key, nil
}

// IsSealed reports whether data starts with a seal envelope.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, []byte(envelopeMagic))
}

// Seal encrypts plaintext with key under mode.
func Seal(plaintext, key []byte, mode Mode) ([]byte, error) {
	if err := checkKey(key, mode); err != nil {
		return nil, err
	}

	header := newEnvelopeHeader(mode)

	var (
		body []byte
		err  error
	)

	switch mode {
	case Deterministic:
		body, err = sealDeterministic(plaintext, key, header)
	case Randomized:
		body, err = sealRandomized(plaintext, key, header)
	default:
		return nil, fmt.Errorf("%w: cannot seal with mode %s", ErrEnvelope, mode)
	}

	if err != nil {
		return nil, err
	}

	return append(header, body...), nil
}

// Open authenticates and decrypts a sealed payload.
func Open(data, key []byte) ([]byte, error) {
	if len(data) < envelopeHeaderSize {
		return nil, fmt.Errorf("%w: envelope header too short", ErrEnvelope)
	}

	header := data[:envelopeHeaderSize]

	mode, err := parseEnvelopeHeader(header)
	if err != nil {
		return nil, err
	}

	if err := checkKey(key, mode); err != nil {
		return nil, err
	}

	body := data[envelopeHeaderSize:]

	switch mode {
	case Deterministic:
		return openDeterministic(body, key, header)
	default:
		return openRandomized(body, key, header)
	}
}

// ModeOf returns the mode recorded in a sealed payload's header.
func ModeOf(data []byte) (Mode, error) {
	if len(data) < envelopeHeaderSize {
		return None, fmt.Errorf("%w: envelope header too short", ErrEnvelope)
	}

	return parseEnvelopeHeader(data[:envelopeHeaderSize])
}

func checkKey(key []byte, mode Mode) error {
	if want := mode.KeySize(); want != 0 && len(key) != want {
		return fmt.Errorf("%w: %s mode requires %d-byte key (%d hex characters), got %d bytes",
			ErrKeySize, mode, want, 2*want, len(key))
	}

	return nil
}

func newEnvelopeHeader(mode Mode) []byte {
	header := make([]byte, envelopeHeaderSize)
	copy(header, envelopeMagic)

	header[len(envelopeMagic)] = envelopeVersion
	// Flags are reserved.
	header[len(envelopeMagic)+1] = 0
	header[len(envelopeMagic)+2] = byte(mode)

	return header
}

func parseEnvelopeHeader(header []byte) (Mode, error) {
	if !bytes.Equal(header[:len(envelopeMagic)], []byte(envelopeMagic)) {
		return None, fmt.Errorf("%w: invalid envelope magic", ErrEnvelope)
	}

	version := header[len(envelopeMagic)]
	if version != envelopeVersion {
		return None, fmt.Errorf("%w: unsupported envelope version %d", ErrEnvelope, version)
	}

	mode := Mode(header[len(envelopeMagic)+2])

	switch mode {
	case Deterministic, Randomized:
	default:
		return None, fmt.Errorf("%w: unsupported envelope mode %d", ErrEnvelope, mode)
	}

	return mode, nil
}
