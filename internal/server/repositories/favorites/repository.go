package favorites

import (
	"context"

	"github.com/dmitrijs2005/apodkeeper/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, userID string) ([]models.Favorite, error)
	Upsert(ctx context.Context, fav *models.Favorite) error
	Delete(ctx context.Context, userID, date string) error
	Exists(ctx context.Context, userID, date string) (bool, error)
}
