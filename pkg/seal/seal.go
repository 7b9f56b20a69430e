// Package seal encrypts values on the client before they are stored, so the
// store only ever holds ciphertext.
package seal

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"os"

	"golang.org/x/crypto/pbkdf2"
)

// PasswordEnvName is the environment variable consulted when no password
// is given explicitly.
const PasswordEnvName = "SLED_SEAL_PASSWORD"

var (
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
	ErrEmptyPassword     = errors.New("empty seal password")
)

// Sealer derives an AES-GCM key from a password with PBKDF2-SHA256 and a
// random salt per value. The output is base64 of salt|nonce|ciphertext.
type Sealer struct {
	saltSize  int
	nonceSize int

	keySize    int
	iterations int
}

var std = newSealer(32, 12, 32, 100000)

func newSealer(saltSize, nonceSize, keySize, iterations int) *Sealer {
	return &Sealer{
		saltSize:   saltSize,
		nonceSize:  nonceSize,
		keySize:    keySize,
		iterations: iterations,
	}
}

// Seal encrypts plaintext with the standard parameters.
func Seal(plaintext, password string) (string, error) {
	return std.Seal(plaintext, password)
}

// Open decrypts a value produced by Seal.
func Open(ciphertext, password string) (string, error) {
	return std.Open(ciphertext, password)
}

// PasswordFromEnv returns the password set in SLED_SEAL_PASSWORD.
func PasswordFromEnv() (string, error) {
	p := os.Getenv(PasswordEnvName)
	if p == "" {
		return "", ErrEmptyPassword
	}
	return p, nil
}

func (s *Sealer) Seal(plaintext, password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	salt := make([]byte, s.saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}
	aesgcm, err := s.aead(password, salt)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, s.nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	out := make([]byte, 0, s.saltSize+s.nonceSize+len(plaintext)+aesgcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	out = aesgcm.Seal(out, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(out), nil
}

func (s *Sealer) Open(ciphertext, password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ErrInvalidCiphertext
	}
	if len(data) < s.saltSize+s.nonceSize {
		return "", ErrInvalidCiphertext
	}
	salt := data[:s.saltSize]
	nonce := data[s.saltSize : s.saltSize+s.nonceSize]

	aesgcm, err := s.aead(password, salt)
	if err != nil {
		return "", err
	}
	plaintext, err := aesgcm.Open(nil, nonce, data[s.saltSize+s.nonceSize:], nil)
	if err != nil {
		// wrong password and tampered data look the same to GCM
		return "", ErrInvalidCiphertext
	}
	return string(plaintext), nil
}

func (s *Sealer) aead(password string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(password), salt, s.iterations, s.keySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, s.nonceSize)
}
