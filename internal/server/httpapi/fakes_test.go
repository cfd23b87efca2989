package httpapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/apodkeeper/internal/common"
	"github.com/dmitrijs2005/apodkeeper/internal/server/models"
	"github.com/dmitrijs2005/apodkeeper/internal/server/services"
)

// fakeUsers accepts "tok-<userID>" as a session token.
type fakeUsers struct {
	loginErr error
	users    map[string]*models.User
}

func (f *fakeUsers) Authenticate(token string) (string, error) {
	var id string
	if _, err := fmt.Sscanf(token, "tok-%s", &id); err != nil || id == "" {
		return "", common.ErrInvalidToken
	}
	return id, nil
}

func (f *fakeUsers) LoginWithGoogle(_ context.Context, token string) (*services.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &services.LoginResult{Token: "tok-u-1", User: &models.User{ID: "u-1", Name: "Ann"}}, nil
}

func (f *fakeUsers) Get(_ context.Context, userID string) (*models.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type fakeFavorites struct {
	rows map[string]map[string]json.RawMessage
	err  error
}

func newFakeFavorites() *fakeFavorites {
	return &fakeFavorites{rows: map[string]map[string]json.RawMessage{}}
}

func (f *fakeFavorites) List(_ context.Context, userID string) ([]models.Favorite, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Favorite{}
	for d, p := range f.rows[userID] {
		out = append(out, models.Favorite{Date: d, APOD: p})
	}
	return out, nil
}

func (f *fakeFavorites) Add(_ context.Context, userID, date string, apod json.RawMessage) (*models.Favorite, error) {
	if f.err != nil {
		return nil, f.err
	}
	if date == "" {
		return nil, fmt.Errorf("%w: no date", common.ErrorValidation)
	}
	if f.rows[userID] == nil {
		f.rows[userID] = map[string]json.RawMessage{}
	}
	f.rows[userID][date] = apod
	return &models.Favorite{Date: date, APOD: apod}, nil
}

func (f *fakeFavorites) Remove(_ context.Context, userID, date string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.rows[userID][date]; !ok {
		return common.ErrorNotFound
	}
	delete(f.rows[userID], date)
	return nil
}

func (f *fakeFavorites) Check(_ context.Context, userID, date string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.rows[userID][date]
	return ok, nil
}

type fakeAPOD struct {
	err      error
	gotDate  string
	gotCount int
	gotRange [2]string
}

func (f *fakeAPOD) Get(_ context.Context, date string) (*models.APOD, error) {
	f.gotDate = date
	if f.err != nil {
		return nil, f.err
	}
	return &models.APOD{Date: "2024-01-05", Title: "Moon"}, nil
}

func (f *fakeAPOD) Random(_ context.Context, count int) ([]models.APOD, error) {
	f.gotCount = count
	if f.err != nil {
		return nil, f.err
	}
	return make([]models.APOD, count), nil
}

func (f *fakeAPOD) Range(_ context.Context, start, end string) ([]models.APOD, error) {
	f.gotRange = [2]string{start, end}
	if f.err != nil {
		return nil, f.err
	}
	return []models.APOD{{Date: start}}, nil
}
