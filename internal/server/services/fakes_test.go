package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/apodkeeper/internal/common"
	"github.com/dmitrijs2005/apodkeeper/internal/dbx"
	"github.com/dmitrijs2005/apodkeeper/internal/server/auth"
	"github.com/dmitrijs2005/apodkeeper/internal/server/models"
	favoritesrepo "github.com/dmitrijs2005/apodkeeper/internal/server/repositories/favorites"
	usersrepo "github.com/dmitrijs2005/apodkeeper/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type fakeVerifier struct {
	profile *auth.GoogleProfile
	err     error
	got     string
}

func (f *fakeVerifier) Verify(_ context.Context, token string) (*auth.GoogleProfile, error) {
	f.got = token
	return f.profile, f.err
}

type fakeUsersRepo struct {
	upserted  *models.User
	upsertID  string
	upsertErr error

	getOut *models.User
	getErr error
}

func (f *fakeUsersRepo) UpsertByGoogleSub(_ context.Context, u *models.User) (*models.User, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	f.upserted = u
	u.ID = f.upsertID
	return u, nil
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type favKey struct{ user, date string }

type fakeFavoritesRepo struct {
	rows map[favKey]models.Favorite
	err  error
}

func newFakeFavoritesRepo() *fakeFavoritesRepo {
	return &fakeFavoritesRepo{rows: map[favKey]models.Favorite{}}
}

func (f *fakeFavoritesRepo) List(_ context.Context, userID string) ([]models.Favorite, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Favorite{}
	for k, v := range f.rows {
		if k.user == userID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeFavoritesRepo) Upsert(_ context.Context, fav *models.Favorite) error {
	if f.err != nil {
		return f.err
	}
	f.rows[favKey{fav.UserID, fav.Date}] = *fav
	return nil
}

func (f *fakeFavoritesRepo) Delete(_ context.Context, userID, date string) error {
	if f.err != nil {
		return f.err
	}
	k := favKey{userID, date}
	if _, ok := f.rows[k]; !ok {
		return common.ErrorNotFound
	}
	delete(f.rows, k)
	return nil
}

func (f *fakeFavoritesRepo) Exists(_ context.Context, userID, date string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.rows[favKey{userID, date}]
	return ok, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	f *fakeFavoritesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository          { return m.u }
func (m *fakeRepoManager) Favorites(dbx.DBTX) favoritesrepo.Repository  { return m.f }
