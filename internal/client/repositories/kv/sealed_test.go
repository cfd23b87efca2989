package kv

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/apodkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnlockSealed_FirstUnlockCreatesSalt(t *testing.T) {
	inner := NewMemoryStore()
	ctx := context.Background()

	s, err := UnlockSealed(ctx, inner, []byte("pass"))
	require.NoError(t, err)
	require.NotNil(t, s)

	salt, err := inner.Get(ctx, common.KeySealSalt)
	require.NoError(t, err)
	assert.NotEmpty(t, salt)
}

func TestSealedStore_RoundTripAndAtRest(t *testing.T) {
	inner := NewMemoryStore()
	ctx := context.Background()

	s, err := UnlockSealed(ctx, inner, []byte("pass"))
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, common.KeyAuthToken, []byte("tok123")))

	raw, err := inner.Get(ctx, common.KeyAuthToken)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "tok123")

	again, err := UnlockSealed(ctx, inner, []byte("pass"))
	require.NoError(t, err)
	v, err := again.Get(ctx, common.KeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, []byte("tok123"), v)
}

func TestUnlockSealed_WrongPassphrase(t *testing.T) {
	inner := NewMemoryStore()
	ctx := context.Background()

	_, err := UnlockSealed(ctx, inner, []byte("right"))
	require.NoError(t, err)

	_, err = UnlockSealed(ctx, inner, []byte("wrong"))
	require.ErrorIs(t, err, ErrWrongPassphrase)
}

func TestSealedStore_UnreadableValue(t *testing.T) {
	inner := NewMemoryStore()
	ctx := context.Background()
	s, err := UnlockSealed(ctx, inner, []byte("pass"))
	require.NoError(t, err)

	require.NoError(t, inner.Set(ctx, common.KeyAuthToken, []byte("plain text written by an older client")))

	_, err = s.Get(ctx, common.KeyAuthToken)
	require.ErrorIs(t, err, ErrUnreadable)
}

func TestSealedStore_AbsentAndDelete(t *testing.T) {
	inner := NewMemoryStore()
	ctx := context.Background()
	s, err := UnlockSealed(ctx, inner, []byte("pass"))
	require.NoError(t, err)

	v, err := s.Get(ctx, "nothing")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	require.NoError(t, s.Delete(ctx, "k"))
	v, err = inner.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)
}

// plainStore hides MemoryStore.SetMany.
type plainStore struct{ m *MemoryStore }

func (p plainStore) Get(ctx context.Context, k string) ([]byte, error) { return p.m.Get(ctx, k) }
func (p plainStore) Set(ctx context.Context, k string, v []byte) error { return p.m.Set(ctx, k, v) }
func (p plainStore) Delete(ctx context.Context, k string) error        { return p.m.Delete(ctx, k) }

func TestSealedStore_SetMany(t *testing.T) {
	ctx := context.Background()

	for name, inner := range map[string]Store{
		"batch":    NewMemoryStore(),
		"fallback": plainStore{NewMemoryStore()},
	} {
		t.Run(name, func(t *testing.T) {
			s, err := UnlockSealed(ctx, inner, []byte("pass"))
			require.NoError(t, err)

			require.NoError(t, s.SetMany(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")}))

			a, err := s.Get(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, []byte("1"), a)
			b, err := s.Get(ctx, "b")
			require.NoError(t, err)
			assert.Equal(t, []byte("2"), b)
		})
	}
}
