package client

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/apodkeeper/internal/client/models"
)

// Client is the backend API as seen by the client services.
type Client interface {
	Ping(ctx context.Context) error

	LoginWithGoogle(ctx context.Context, googleToken string) (*models.LoginResult, error)
	Me(ctx context.Context) (*models.Identity, error)

	ListFavorites(ctx context.Context) ([]models.FavoriteRecord, error)
	PutFavorite(ctx context.Context, date string, apod json.RawMessage) error
	DeleteFavorite(ctx context.Context, date string) error
	CheckFavorite(ctx context.Context, date string) (bool, error)

	GetAPOD(ctx context.Context, date string) (*models.APOD, error)
	RandomAPOD(ctx context.Context, count int) ([]models.APOD, error)
	RangeAPOD(ctx context.Context, start, end string) ([]models.APOD, error)
}
