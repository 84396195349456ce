package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/application/dtos"
	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/domain/entities"
)

// FavoritesUseCase - избранные проекты пользователя.
type FavoritesUseCase struct {
	favorites ports.FavoriteRepository
	projects  ports.ProjectRepository
}

// NewFavoritesUseCase создаёт use case.
func NewFavoritesUseCase(favorites ports.FavoriteRepository, projects ports.ProjectRepository) *FavoritesUseCase {
	return &FavoritesUseCase{favorites: favorites, projects: projects}
}

// Add добавляет проект в избранное.
// Проект должен существовать, повтор -> ErrFavoriteAlreadyExists.
func (uc *FavoritesUseCase) Add(ctx context.Context, userID, projectID uuid.UUID) error {
	if _, err := uc.projects.FindByID(ctx, projectID); err != nil {
		return err
	}
	return uc.favorites.Add(ctx, entities.NewFavorite(userID, projectID))
}

// Remove убирает проект из избранного. Отсутствие -> ErrFavoriteNotFound.
func (uc *FavoritesUseCase) Remove(ctx context.Context, userID, projectID uuid.UUID) error {
	return uc.favorites.Remove(ctx, userID, projectID)
}

// List возвращает избранные проекты, недавно добавленные первыми.
func (uc *FavoritesUseCase) List(ctx context.Context, userID uuid.UUID) ([]dtos.ProjectDTO, error) {
	ids, err := uc.favorites.ProjectIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	if len(ids) == 0 {
		return []dtos.ProjectDTO{}, nil
	}

	projects, _, err := uc.projects.List(ctx, ports.ProjectFilter{IDs: ids}, 0, len(ids))
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*entities.Project, len(projects))
	for _, p := range projects {
		byID[p.ID()] = p
	}
	ordered := make([]*entities.Project, 0, len(projects))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return dtos.ToProjectDTOList(ordered), nil
}
