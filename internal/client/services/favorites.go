package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/apodkeeper/internal/client/client"
	"github.com/dmitrijs2005/apodkeeper/internal/client/models"
	"github.com/dmitrijs2005/apodkeeper/internal/common"
	"github.com/dmitrijs2005/apodkeeper/internal/datex"
	"github.com/dmitrijs2005/apodkeeper/internal/logging"
)

// DefaultCallTimeout bounds a single favorites store call.
const DefaultCallTimeout = 10 * time.Second

var ErrEmptyKey = fmt.Errorf("%w: empty date", common.ErrorValidation)

// FavoritesStore is the favorites backend. Dates passed in are already
// normalized; dates returned may not be.
type FavoritesStore interface {
	ListFavorites(ctx context.Context) ([]models.FavoriteRecord, error)
	PutFavorite(ctx context.Context, date string, apod json.RawMessage) error
	DeleteFavorite(ctx context.Context, date string) error
	CheckFavorite(ctx context.Context, date string) (bool, error)
	Ping(ctx context.Context) error
}

type ClearOutcome int

const (
	ClearAllSucceeded ClearOutcome = iota
	ClearPartial
	ClearNoneSucceeded
)

func (o ClearOutcome) String() string {
	switch o {
	case ClearAllSucceeded:
		return "all succeeded"
	case ClearPartial:
		return "partial"
	default:
		return "none succeeded"
	}
}

// ClearResult reports a bulk removal. ReloadErr is set when the list could
// not be refetched after a partial failure.
type ClearResult struct {
	Outcome    ClearOutcome
	Succeeded  int
	Failed     int
	FailedKeys []string
	Errors     []error
	ReloadErr  error
}

// CachedView is the last known favorites list. Stale is set while the
// store is unreachable.
type CachedView struct {
	Entries []models.FavoriteEntry
	Loaded  bool
	Stale   bool
}

// FavoritesReconciler keeps a local view of the favorites in line with a
// FavoritesStore, keyed by the normalized date.
type FavoritesReconciler struct {
	store   FavoritesStore
	session SessionInvalidator
	logger  logging.Logger
	timeout time.Duration
	keys    *keyMutex

	mu     sync.RWMutex
	cache  []models.FavoriteEntry
	loaded bool
	stale  bool
}

// NewFavoritesReconciler builds a reconciler. session may be nil; timeout
// falls back to DefaultCallTimeout when not positive.
func NewFavoritesReconciler(store FavoritesStore, session SessionInvalidator, logger logging.Logger, timeout time.Duration) *FavoritesReconciler {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &FavoritesReconciler{
		store:   store,
		session: session,
		logger:  logger.With("module", "favorites"),
		timeout: timeout,
		keys:    newKeyMutex(),
	}
}

// fail classifies a store error, updates the offline flag and triggers a
// forced logout on auth errors.
func (r *FavoritesReconciler) fail(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, client.ErrUnavailable) {
		err = fmt.Errorf("%w: %w", client.ErrUnavailable, err)
	}

	switch {
	case errors.Is(err, client.ErrUnavailable):
		r.mu.Lock()
		r.stale = true
		r.mu.Unlock()
		r.logger.Warn(ctx, "favorites store unreachable", "op", op, "error", err)
	case errors.Is(err, client.ErrUnauthorized):
		r.logger.Warn(ctx, "favorites store rejected session", "op", op, "error", err)
		if r.session != nil {
			r.session.Invalidate(ctx, fmt.Sprintf("favorites %s: %v", op, err))
		}
	default:
		r.logger.Error(ctx, "favorites store failed", "op", op, "error", err)
	}
	return fmt.Errorf("favorites %s: %w", op, err)
}

func (r *FavoritesReconciler) ok() {
	r.mu.Lock()
	r.stale = false
	r.mu.Unlock()
}

// List fetches the whole collection, normalizes keys and collapses
// duplicates keeping the first occurrence.
func (r *FavoritesReconciler) List(ctx context.Context) ([]models.FavoriteEntry, error) {
	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	recs, err := r.store.ListFavorites(cctx)
	if err != nil {
		return nil, r.fail(ctx, "list", err)
	}

	entries := make([]models.FavoriteEntry, 0, len(recs))
	seen := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		e := models.EntryFromRecord(rec)
		if _, dup := seen[e.IdentityKey]; dup {
			r.logger.Debug(ctx, "duplicate favorite collapsed", "date", e.IdentityKey, "raw", rec.Date)
			continue
		}
		seen[e.IdentityKey] = struct{}{}
		entries = append(entries, e)
	}

	r.mu.Lock()
	r.cache = entries
	r.loaded = true
	r.stale = false
	r.mu.Unlock()

	return slices.Clone(entries), nil
}

// IsFavorite answers from the loaded list when there is one.
func (r *FavoritesReconciler) IsFavorite(ctx context.Context, rawDate string) (bool, error) {
	key := datex.Normalize(rawDate)
	if key == "" {
		return false, nil
	}

	r.mu.RLock()
	if r.loaded {
		found := slices.ContainsFunc(r.cache, func(e models.FavoriteEntry) bool { return e.IdentityKey == key })
		r.mu.RUnlock()
		return found, nil
	}
	r.mu.RUnlock()

	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	found, err := r.store.CheckFavorite(cctx, key)
	if err != nil {
		return false, r.fail(ctx, "check", err)
	}
	r.ok()
	return found, nil
}

// Add stores payload under the normalized form of its date field,
// replacing any existing favorite with the same key.
func (r *FavoritesReconciler) Add(ctx context.Context, payload json.RawMessage) (models.FavoriteEntry, error) {
	e, err := models.NewFavoriteEntry(payload)
	if err != nil {
		return models.FavoriteEntry{}, err
	}

	unlock := r.keys.Lock(e.IdentityKey)
	defer unlock()

	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.store.PutFavorite(cctx, e.IdentityKey, e.Payload); err != nil {
		return models.FavoriteEntry{}, r.fail(ctx, "add", err)
	}

	r.mu.Lock()
	r.stale = false
	if r.loaded {
		i := slices.IndexFunc(r.cache, func(c models.FavoriteEntry) bool { return c.IdentityKey == e.IdentityKey })
		if i >= 0 {
			r.cache[i] = e
		} else {
			r.cache = append(r.cache, e)
		}
	}
	r.mu.Unlock()

	r.logger.Info(ctx, "favorite added", "date", e.IdentityKey)
	return e, nil
}

// AddAPOD adds a decoded APOD record, keeping its original JSON.
func (r *FavoritesReconciler) AddAPOD(ctx context.Context, a models.APOD) (models.FavoriteEntry, error) {
	payload, err := a.Payload()
	if err != nil {
		return models.FavoriteEntry{}, err
	}
	return r.Add(ctx, payload)
}

// Remove deletes the favorite for rawDate. Removing a missing favorite is
// not an error.
func (r *FavoritesReconciler) Remove(ctx context.Context, rawDate string) error {
	key := datex.Normalize(rawDate)
	if key == "" {
		return ErrEmptyKey
	}
	if err := r.remove(ctx, key); err != nil {
		return err
	}
	r.logger.Info(ctx, "favorite removed", "date", key)
	return nil
}

func (r *FavoritesReconciler) remove(ctx context.Context, key string) error {
	unlock := r.keys.Lock(key)
	defer unlock()

	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.store.DeleteFavorite(cctx, key); err != nil {
		return r.fail(ctx, "remove", err)
	}

	r.mu.Lock()
	r.stale = false
	r.cache = slices.DeleteFunc(r.cache, func(e models.FavoriteEntry) bool { return e.IdentityKey == key })
	r.mu.Unlock()
	return nil
}

// ClearAll removes every entry of current one by one and never stops at
// the first failure.
func (r *FavoritesReconciler) ClearAll(ctx context.Context, current []models.FavoriteEntry) ClearResult {
	var res ClearResult

	seen := make(map[string]struct{}, len(current))
	for _, e := range current {
		key := datex.Normalize(e.IdentityKey)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if err := r.remove(ctx, key); err != nil {
			res.Failed++
			res.FailedKeys = append(res.FailedKeys, key)
			res.Errors = append(res.Errors, err)
			continue
		}
		res.Succeeded++
	}

	switch {
	case len(seen) == 0:
		res.Outcome = ClearAllSucceeded
		return res
	case res.Failed == 0:
		res.Outcome = ClearAllSucceeded
		r.mu.Lock()
		r.cache = nil
		r.loaded = true
		r.mu.Unlock()
	case res.Succeeded == 0:
		res.Outcome = ClearNoneSucceeded
	default:
		res.Outcome = ClearPartial
		if _, err := r.List(ctx); err != nil {
			res.ReloadErr = err
		}
	}

	r.logger.Info(ctx, "favorites cleared", "outcome", res.Outcome.String(),
		"succeeded", res.Succeeded, "failed", res.Failed)
	return res
}

// Retry checks the store is reachable again and reloads the list.
func (r *FavoritesReconciler) Retry(ctx context.Context) ([]models.FavoriteEntry, error) {
	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	err := r.store.Ping(cctx)
	cancel()
	if err != nil {
		return nil, r.fail(ctx, "ping", err)
	}
	return r.List(ctx)
}

func (r *FavoritesReconciler) Cached() CachedView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return CachedView{
		Entries: slices.Clone(r.cache),
		Loaded:  r.loaded,
		Stale:   r.stale,
	}
}

// Reset forgets the cached list, e.g. after the user signed out.
func (r *FavoritesReconciler) Reset() {
	r.mu.Lock()
	r.cache = nil
	r.loaded = false
	r.stale = false
	r.mu.Unlock()
}
