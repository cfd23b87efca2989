package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/apodkeeper/internal/common"
	"github.com/dmitrijs2005/apodkeeper/internal/datex"
	"github.com/dmitrijs2005/apodkeeper/internal/server/models"
	"github.com/dmitrijs2005/apodkeeper/internal/server/repositories/repomanager"
)

// FavoriteService stores favorites per user under the canonical date key,
// so "2024-01-05T00:00:00Z" and "2024-01-05" address the same row. Dates
// that cannot be parsed are kept under their literal string.
type FavoriteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewFavoriteService(db *sql.DB, m repomanager.RepositoryManager) *FavoriteService {
	return &FavoriteService{db: db, repomanager: m}
}

func canonicalKey(date string) (string, error) {
	key := datex.Normalize(date)
	if key == "" {
		return "", fmt.Errorf("%w: empty date", common.ErrorValidation)
	}
	return key, nil
}

func (s *FavoriteService) List(ctx context.Context, userID string) ([]models.Favorite, error) {
	favs, err := s.repomanager.Favorites(s.db).List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return favs, nil
}

// Add stores apod under date, or under the payload's own date when date is
// empty. Adding an existing key replaces its payload.
func (s *FavoriteService) Add(ctx context.Context, userID, date string, apod json.RawMessage) (*models.Favorite, error) {
	var probe struct {
		Date string `json:"date"`
	}
	if len(apod) == 0 || json.Unmarshal(apod, &probe) != nil {
		return nil, fmt.Errorf("%w: apod must be a json object", common.ErrorValidation)
	}
	if date == "" {
		date = probe.Date
	}

	key, err := canonicalKey(date)
	if err != nil {
		return nil, err
	}

	fav := &models.Favorite{UserID: userID, Date: key, APOD: apod}
	if err := s.repomanager.Favorites(s.db).Upsert(ctx, fav); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return fav, nil
}

// Remove deletes the favorite at date. A missing one yields
// common.ErrorNotFound.
func (s *FavoriteService) Remove(ctx context.Context, userID, date string) error {
	key, err := canonicalKey(date)
	if err != nil {
		return err
	}
	if err := s.repomanager.Favorites(s.db).Delete(ctx, userID, key); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return nil
}

func (s *FavoriteService) Check(ctx context.Context, userID, date string) (bool, error) {
	key, err := canonicalKey(date)
	if err != nil {
		return false, err
	}
	ok, err := s.repomanager.Favorites(s.db).Exists(ctx, userID, key)
	if err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return ok, nil
}
