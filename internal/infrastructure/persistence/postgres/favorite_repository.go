// Package postgres - FavoriteRepository implementation.
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/domain/entities"
	domainErrors "github.com/Haleralex/fundhub/internal/domain/errors"
)

// Compile-time check
var _ ports.FavoriteRepository = (*FavoriteRepository)(nil)

// FavoriteRepository реализует ports.FavoriteRepository.
type FavoriteRepository struct {
	db DB
}

// NewFavoriteRepository создаёт новый FavoriteRepository.
func NewFavoriteRepository(db DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add добавляет проект в избранное.
func (r *FavoriteRepository) Add(ctx context.Context, favorite *entities.Favorite) error {
	query := `INSERT INTO favorites (user_id, project_id, created_at) VALUES ($1, $2, $3)`

	_, err := conn(ctx, r.db).Exec(ctx, query, favorite.UserID, favorite.ProjectID, favorite.CreatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err, constraintFavoritesPK):
			return domainErrors.ErrFavoriteAlreadyExists
		case isForeignKeyViolation(err):
			return domainErrors.ErrProjectNotFound
		}
		return fmt.Errorf("failed to add favorite: %w", err)
	}

	return nil
}

// Remove убирает проект из избранного.
func (r *FavoriteRepository) Remove(ctx context.Context, userID, projectID uuid.UUID) error {
	result, err := conn(ctx, r.db).Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND project_id = $2`, userID, projectID)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domainErrors.ErrFavoriteNotFound
	}

	return nil
}

// ProjectIDs возвращает id избранных проектов, недавно добавленные первыми.
func (r *FavoriteRepository) ProjectIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := conn(ctx, r.db).Query(ctx,
		`SELECT project_id FROM favorites WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("failed to scan favorites: %w", err)
	}
	return ids, nil
}
