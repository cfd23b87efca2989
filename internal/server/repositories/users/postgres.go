package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/apodkeeper/internal/common"
	"github.com/dmitrijs2005/apodkeeper/internal/dbx"
	"github.com/dmitrijs2005/apodkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// UpsertByGoogleSub creates the user on first login and refreshes the
// profile fields on later ones. The stored id is returned in user.ID.
func (r *PostgresRepository) UpsertByGoogleSub(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (id, google_sub, email, name, given_name, family_name, picture)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (google_sub) DO UPDATE
		 SET email = EXCLUDED.email, name = EXCLUDED.name, given_name = EXCLUDED.given_name,
		     family_name = EXCLUDED.family_name, picture = EXCLUDED.picture, updated_at = now()
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		uuid.NewString(), user.GoogleSub, user.Email, user.Name, user.GivenName, user.FamilyName, user.Picture,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, google_sub, email, name, given_name, family_name, picture, created_at FROM users
		 WHERE id = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.GoogleSub, &user.Email, &user.Name, &user.GivenName, &user.FamilyName, &user.Picture, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
