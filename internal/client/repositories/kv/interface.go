package kv

import "context"

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// BatchSetter is implemented by stores that can write several keys
// atomically.
type BatchSetter interface {
	SetMany(ctx context.Context, values map[string][]byte) error
}
