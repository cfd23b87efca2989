package users

import (
	"context"

	"github.com/dmitrijs2005/apodkeeper/internal/server/models"
)

type Repository interface {
	UpsertByGoogleSub(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
