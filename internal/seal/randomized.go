package seal

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const tagSize = sha256.Size

// sealRandomized returns IV || ciphertext || HMAC(header || IV || ciphertext).
func sealRandomized(plaintext, key, header []byte) ([]byte, error) {
	encKey, macKey, err := deriveRandomizedKeys(key)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	out := make([]byte, aes.BlockSize+len(plaintext), aes.BlockSize+len(plaintext)+tagSize)

	iv := out[:aes.BlockSize]
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("generating IV: %w", err)
	}

	cipher.NewCTR(block, iv).XORKeyStream(out[aes.BlockSize:], plaintext)

	mac := hmac.New(sha256.New, macKey)
	mac.Write(header)
	mac.Write(out)

	return mac.Sum(out), nil
}

func openRandomized(body, key, header []byte) ([]byte, error) {
	if len(body) < aes.BlockSize+tagSize {
		return nil, fmt.Errorf("%w: payload too short", ErrEnvelope)
	}

	encKey, macKey, err := deriveRandomizedKeys(key)
	if err != nil {
		return nil, err
	}

	signed, tag := body[:len(body)-tagSize], body[len(body)-tagSize:]

	mac := hmac.New(sha256.New, macKey)
	mac.Write(header)
	mac.Write(signed)

	if !hmac.Equal(mac.Sum(nil), tag) {
		return nil, ErrAuthentication
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	iv, ciphertext := signed[:aes.BlockSize], signed[aes.BlockSize:]

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCTR(block, iv).XORKeyStream(plaintext, ciphertext)

	return plaintext, nil
}

func deriveRandomizedKeys(key []byte) ([]byte, []byte, error) {
	const (
		hkdfOutputLen       = 64
		randomizedEncKeyLen = 32
	)

	hkdfReader := hkdf.New(sha256.New, key, nil, []byte("gosubst/randomized"))
	derived := make([]byte, hkdfOutputLen)

	if _, err := io.ReadFull(hkdfReader, derived); err != nil {
		return nil, nil, fmt.Errorf("deriving randomized keys: %w", err)
	}

	return derived[:randomizedEncKeyLen], derived[randomizedEncKeyLen:], nil
}
