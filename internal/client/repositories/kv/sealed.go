package kv

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/apodkeeper/internal/common"
	"github.com/dmitrijs2005/apodkeeper/internal/cryptox"
)

const keySealVerifier = "seal_verifier"

var (
	// ErrUnreadable is returned when a sealed value cannot be opened.
	ErrUnreadable      = errors.New("stored value unreadable")
	ErrWrongPassphrase = errors.New("wrong passphrase")
)

// SealedStore encrypts every value before handing it to inner.
type SealedStore struct {
	inner Store
	key   []byte
}

func NewSealedStore(inner Store, key []byte) *SealedStore {
	return &SealedStore{inner: inner, key: key}
}

// UnlockSealed derives the sealing key for passphrase. The salt and a key
// verifier live unsealed in inner; the first unlock creates them.
func UnlockSealed(ctx context.Context, inner Store, passphrase []byte) (*SealedStore, error) {
	salt, err := inner.Get(ctx, common.KeySealSalt)
	if err != nil {
		return nil, err
	}
	verifier, err := inner.Get(ctx, keySealVerifier)
	if err != nil {
		return nil, err
	}

	if salt == nil {
		salt = common.GenerateRandByteArray(cryptox.SaltSize)
		key := cryptox.DeriveKey(passphrase, salt)
		if err := inner.Set(ctx, common.KeySealSalt, salt); err != nil {
			return nil, err
		}
		if err := inner.Set(ctx, keySealVerifier, cryptox.MakeVerifier(key)); err != nil {
			return nil, err
		}
		return NewSealedStore(inner, key), nil
	}

	key := cryptox.DeriveKey(passphrase, salt)
	if verifier != nil && subtle.ConstantTimeCompare(verifier, cryptox.MakeVerifier(key)) != 1 {
		return nil, ErrWrongPassphrase
	}
	return NewSealedStore(inner, key), nil
}

func (s *SealedStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.inner.Get(ctx, key)
	if err != nil || v == nil {
		return v, err
	}
	plain, err := cryptox.Open(s.key, v)
	if err != nil {
		return nil, fmt.Errorf("kv[%s]: %w: %v", key, ErrUnreadable, err)
	}
	return plain, nil
}

func (s *SealedStore) Set(ctx context.Context, key string, value []byte) error {
	sealed, err := cryptox.Seal(s.key, value)
	if err != nil {
		return fmt.Errorf("seal kv[%s]: %w", key, err)
	}
	return s.inner.Set(ctx, key, sealed)
}

func (s *SealedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

// SetMany seals each value and writes them atomically when inner supports
// it, one by one otherwise.
func (s *SealedStore) SetMany(ctx context.Context, values map[string][]byte) error {
	sealed := make(map[string][]byte, len(values))
	for k, v := range values {
		b, err := cryptox.Seal(s.key, v)
		if err != nil {
			return fmt.Errorf("seal kv[%s]: %w", k, err)
		}
		sealed[k] = b
	}
	if bs, ok := s.inner.(BatchSetter); ok {
		return bs.SetMany(ctx, sealed)
	}
	for k, v := range sealed {
		if err := s.inner.Set(ctx, k, v); err != nil {
			return err
		}
	}
	return nil
}
