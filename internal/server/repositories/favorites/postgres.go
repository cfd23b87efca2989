package favorites

import (
	"context"
	"fmt"

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

// List returns the user's favorites, newest date first.
func (r *PostgresRepository) List(ctx context.Context, userID string) ([]models.Favorite, error) {
	query :=
		`SELECT date, apod, created_at FROM favorites
		 WHERE user_id = $1
		 ORDER BY date DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Favorite, 0)
	for rows.Next() {
		f := models.Favorite{UserID: userID}
		var apod []byte
		if err := rows.Scan(&f.Date, &apod, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		f.APOD = apod
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// Upsert stores fav, replacing the payload of an existing (user, date) row.
func (r *PostgresRepository) Upsert(ctx context.Context, fav *models.Favorite) error {
	query :=
		`INSERT INTO favorites (user_id, date, apod)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, date) DO UPDATE SET apod = EXCLUDED.apod
		 `

	if _, err := r.db.ExecContext(ctx, query, fav.UserID, fav.Date, string(fav.APOD)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Delete removes one favorite; a missing row yields common.ErrorNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, userID, date string) error {
	query :=
		`DELETE FROM favorites
		 WHERE user_id = $1 AND date = $2
		 `

	res, err := r.db.ExecContext(ctx, query, userID, date)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Exists(ctx context.Context, userID, date string) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND date = $2)
		 `

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, userID, date).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}
