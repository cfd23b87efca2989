package services

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"

	"github.com/dmitrijs2005/apodkeeper/internal/client/models"
	"github.com/dmitrijs2005/apodkeeper/internal/client/repositories/kv"
)

// ---- kv ----

// flakyKV wraps a MemoryStore without exposing SetMany and fails the
// configured operations.
type flakyKV struct {
	m *kv.MemoryStore

	getErr    map[string]error
	setErr    map[string]error
	deleteErr error

	deleted []string
}

func newFlakyKV() *flakyKV {
	return &flakyKV{m: kv.NewMemoryStore(), getErr: map[string]error{}, setErr: map[string]error{}}
}

func (f *flakyKV) Get(ctx context.Context, key string) ([]byte, error) {
	if err := f.getErr[key]; err != nil {
		return nil, err
	}
	return f.m.Get(ctx, key)
}

func (f *flakyKV) Set(ctx context.Context, key string, value []byte) error {
	if err := f.setErr[key]; err != nil {
		return err
	}
	return f.m.Set(ctx, key, value)
}

func (f *flakyKV) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.m.Delete(ctx, key)
}

// batchKV adds an atomic SetMany that can be made to fail.
type batchKV struct {
	*kv.MemoryStore
	setManyErr error
}

func (b *batchKV) SetMany(ctx context.Context, values map[string][]byte) error {
	if b.setManyErr != nil {
		return b.setManyErr
	}
	return b.MemoryStore.SetMany(ctx, values)
}

// ---- favorites store ----

type fakeFavStore struct {
	mu   sync.Mutex
	recs []models.FavoriteRecord

	listErr   error
	pingErr   error
	checkErr  error
	putErr    map[string]error
	deleteErr map[string]error

	putCalls    []string
	deleteCalls []string
	checkCalls  []string
	listCalls   int
}

func newFakeFavStore(recs ...models.FavoriteRecord) *fakeFavStore {
	return &fakeFavStore{recs: recs, putErr: map[string]error{}, deleteErr: map[string]error{}}
}

func rec(date, title string) models.FavoriteRecord {
	b, _ := json.Marshal(map[string]string{"date": date, "title": title})
	return models.FavoriteRecord{Date: date, APOD: b}
}

func (f *fakeFavStore) ListFavorites(ctx context.Context) ([]models.FavoriteRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(f.recs), nil
}

func (f *fakeFavStore) PutFavorite(_ context.Context, date string, apod json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putCalls = append(f.putCalls, date)
	if err := f.putErr[date]; err != nil {
		return err
	}
	for i, r := range f.recs {
		if r.Date == date {
			f.recs[i].APOD = apod
			return nil
		}
	}
	f.recs = append(f.recs, models.FavoriteRecord{Date: date, APOD: apod})
	return nil
}

func (f *fakeFavStore) DeleteFavorite(_ context.Context, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, date)
	if err := f.deleteErr[date]; err != nil {
		return err
	}
	f.recs = slices.DeleteFunc(f.recs, func(r models.FavoriteRecord) bool { return r.Date == date })
	return nil
}

func (f *fakeFavStore) CheckFavorite(_ context.Context, date string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkCalls = append(f.checkCalls, date)
	if f.checkErr != nil {
		return false, f.checkErr
	}
	return slices.ContainsFunc(f.recs, func(r models.FavoriteRecord) bool { return r.Date == date }), nil
}

func (f *fakeFavStore) Ping(context.Context) error {
	return f.pingErr
}

func (f *fakeFavStore) dates() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.recs))
	for _, r := range f.recs {
		out = append(out, r.Date)
	}
	return out
}

// ---- session invalidator ----

type fakeInvalidator struct {
	mu      sync.Mutex
	reasons []string
}

func (f *fakeInvalidator) Invalidate(_ context.Context, reason string) {
	f.mu.Lock()
	f.reasons = append(f.reasons, reason)
	f.mu.Unlock()
}

func (f *fakeInvalidator) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reasons)
}

// ---- backend ----

type fakeAPI struct {
	loginRes *models.LoginResult
	loginErr error
	pingErr  error
	meRes    *models.Identity
	meErr    error

	apod      *models.APOD
	apodErr   error
	list      []models.APOD
	listErr   error
	lastDate  string
	lastCount int
	lastStart string
	lastEnd   string
	lastToken string
	calls     int
}

func (f *fakeAPI) LoginWithGoogle(_ context.Context, token string) (*models.LoginResult, error) {
	f.lastToken = token
	f.calls++
	return f.loginRes, f.loginErr
}

func (f *fakeAPI) Ping(context.Context) error { return f.pingErr }

func (f *fakeAPI) Me(context.Context) (*models.Identity, error) {
	f.calls++
	return f.meRes, f.meErr
}

func (f *fakeAPI) GetAPOD(_ context.Context, date string) (*models.APOD, error) {
	f.calls++
	f.lastDate = date
	return f.apod, f.apodErr
}

func (f *fakeAPI) RandomAPOD(_ context.Context, count int) ([]models.APOD, error) {
	f.calls++
	f.lastCount = count
	return f.list, f.listErr
}

func (f *fakeAPI) RangeAPOD(_ context.Context, start, end string) ([]models.APOD, error) {
	f.calls++
	f.lastStart, f.lastEnd = start, end
	return f.list, f.listErr
}

var errBoom = errors.New("boom")
