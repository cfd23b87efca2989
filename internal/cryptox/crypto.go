// Package cryptox seals small secrets (the persisted session) at rest with a
// key derived from a user passphrase.
package cryptox

import (
	"crypto/sha256"
	"errors"

	"github.com/dmitrijs2005/apodkeeper/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the length of keys returned by DeriveKey.
const KeySize = chacha20poly1305.KeySize

// SaltSize is the recommended salt length for DeriveKey.
const SaltSize = 16

var ErrSealedTooShort = errors.New("sealed value too short")

// DeriveKey stretches passphrase with argon2id.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, KeySize)
}

// MakeVerifier returns a digest of key that can be stored to recognise a
// wrong passphrase without attempting a decryption.
func MakeVerifier(key []byte) []byte {
	sum := sha256.Sum256(key)
	return sum[:]
}

// Seal encrypts plaintext with XChaCha20-Poly1305. The random nonce is
// prepended to the returned ciphertext.
func Seal(key, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := common.GenerateRandByteArray(aead.NonceSize())
	out := make([]byte, 0, len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, nil), nil
}

// Open reverses Seal.
func Open(key, sealed []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return nil, ErrSealedTooShort
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	return aead.Open(nil, nonce, ciphertext, nil)
}
