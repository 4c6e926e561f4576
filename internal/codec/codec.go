// Package codec provides reversible text obfuscation with a fixed,
// process-wide key.
package codec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// ErrDecode is returned when a token was not produced by Encode with the
// same key.
var ErrDecode = errors.New("decode error")

// embeddedPassphrase derives the default key. It is not a secret.
const embeddedPassphrase = "magickey"

// KeyProvider supplies the 32-byte AES-256 key.
type KeyProvider interface {
	Key() []byte
}

// PassphraseKey derives a key from a passphrase with SHA-256.
type PassphraseKey string

// Key returns SHA-256 of the passphrase.
func (p PassphraseKey) Key() []byte {
	sum := sha256.Sum256([]byte(p))
	return sum[:]
}

// EmbeddedKey is the key used when none is injected.
const EmbeddedKey = PassphraseKey(embeddedPassphrase)

// Codec encrypts text with AES-256-GCM and renders it as base64.
// The key never changes after construction; Codec is safe for concurrent use.
type Codec struct {
	gcm cipher.AEAD
}

// New creates a Codec using the embedded key.
func New() *Codec {
	c, err := NewWithKey(EmbeddedKey)
	if err != nil {
		// The embedded key is always 32 bytes.
		panic(err)
	}
	return c
}

// NewWithKey creates a Codec from an injected key provider.
func NewWithKey(kp KeyProvider) (*Codec, error) {
	key := kp.Key()
	if len(key) != 32 {
		return nil, fmt.Errorf("codec key must be 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}
	return &Codec{gcm: gcm}, nil
}

// Encode returns a base64 token holding nonce and sealed plaintext.
func (c *Codec) Encode(plaintext string) string {
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		// crypto/rand.Read never fails on supported platforms.
		panic(fmt.Sprintf("generate nonce: %v", err))
	}
	sealed := c.gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed)
}

// Decode reverses Encode. Malformed base64, short input and failed
// authentication all return an error matching ErrDecode.
func (c *Codec) Decode(token string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("%w: malformed token: %w", ErrDecode, err)
	}
	nonceSize := c.gcm.NonceSize()
	if len(sealed) < nonceSize+c.gcm.Overhead() {
		return "", fmt.Errorf("%w: token too short", ErrDecode)
	}
	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := c.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return string(plaintext), nil
}
