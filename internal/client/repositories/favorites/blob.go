// Package favorites holds the local favorites backend: the whole list is
// kept as one JSON array under a single key of a kv.Store.
package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/apodkeeper/internal/client/models"
	"github.com/dmitrijs2005/apodkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/apodkeeper/internal/common"
	"github.com/dmitrijs2005/apodkeeper/internal/datex"
)

type BlobStore struct {
	mu    sync.Mutex
	store kv.Store
	key   string
}

// NewBlobStore keeps the list under common.KeyFavorites.
func NewBlobStore(store kv.Store) *BlobStore {
	return &BlobStore{store: store, key: common.KeyFavorites}
}

func (b *BlobStore) load(ctx context.Context) ([]models.FavoriteRecord, error) {
	raw, err := b.store.Get(ctx, b.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
	if len(raw) == 0 {
		return []models.FavoriteRecord{}, nil
	}
	var recs []models.FavoriteRecord
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", common.ErrStorage, b.key, err)
	}
	return recs, nil
}

func (b *BlobStore) save(ctx context.Context, recs []models.FavoriteRecord) error {
	raw, err := json.Marshal(recs)
	if err != nil {
		return err
	}
	if err := b.store.Set(ctx, b.key, raw); err != nil {
		return fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
	return nil
}

func (b *BlobStore) ListFavorites(ctx context.Context) ([]models.FavoriteRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.load(ctx)
}

// PutFavorite replaces any record whose date normalizes to the same key,
// keeping its position, or appends a new one.
func (b *BlobStore) PutFavorite(ctx context.Context, date string, apod json.RawMessage) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	recs, err := b.load(ctx)
	if err != nil {
		return err
	}
	key := datex.Normalize(date)
	rec := models.FavoriteRecord{Date: key, APOD: apod}

	out := make([]models.FavoriteRecord, 0, len(recs)+1)
	replaced := false
	for _, r := range recs {
		if datex.Normalize(r.Date) != key {
			out = append(out, r)
			continue
		}
		if !replaced {
			out = append(out, rec)
			replaced = true
		}
	}
	if !replaced {
		out = append(out, rec)
	}
	return b.save(ctx, out)
}

func (b *BlobStore) DeleteFavorite(ctx context.Context, date string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	recs, err := b.load(ctx)
	if err != nil {
		return err
	}
	key := datex.Normalize(date)
	out := recs[:0]
	for _, r := range recs {
		if datex.Normalize(r.Date) != key {
			out = append(out, r)
		}
	}
	if len(out) == len(recs) {
		return nil
	}
	return b.save(ctx, out)
}

func (b *BlobStore) CheckFavorite(ctx context.Context, date string) (bool, error) {
	recs, err := b.ListFavorites(ctx)
	if err != nil {
		return false, err
	}
	key := datex.Normalize(date)
	for _, r := range recs {
		if datex.Normalize(r.Date) == key {
			return true, nil
		}
	}
	return false, nil
}

// Ping always succeeds; the local store has no connectivity to lose.
func (b *BlobStore) Ping(context.Context) error {
	return nil
}
