package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)

	buf := []byte("v1")
	require.NoError(t, s.Set(ctx, "k", buf))
	buf[0] = 'X'

	v, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), v, "store must keep its own copy")

	require.NoError(t, s.SetMany(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")}))
	a, _ := s.Get(ctx, "a")
	assert.Equal(t, []byte("1"), a)

	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))
	v, _ = s.Get(ctx, "k")
	assert.Nil(t, v)
}
