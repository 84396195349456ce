package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/domain/entities"
	domainerrors "github.com/Haleralex/fundhub/internal/domain/errors"
	"github.com/Haleralex/fundhub/internal/domain/valueobjects"
)

// Права на новости. Выдаются ролью editor.
var (
	PermAddNews    = valueobjects.MustNewPermission(valueobjects.ActionAdd, "news", "news", "")
	PermChangeNews = valueobjects.MustNewPermission(valueobjects.ActionChange, "news", "news", "")
	PermDeleteNews = valueobjects.MustNewPermission(valueobjects.ActionDelete, "news", "news", "")
)

// PermissionService - ролевые проверки. В отличие от проверки владельца,
// решение зависит от ролей пользователя, а не от его связи с сущностью.
type PermissionService struct {
	users ports.UserRepository
	roles ports.RoleRepository
}

// NewPermissionService создаёт PermissionService.
func NewPermissionService(users ports.UserRepository, roles ports.RoleRepository) *PermissionService {
	return &PermissionService{users: users, roles: roles}
}

// HasPermission проверяет право пользователя. Суперпользователь имеет все права.
func (s *PermissionService) HasPermission(ctx context.Context, user *entities.User, perm valueobjects.Permission) (bool, error) {
	if user.IsSuperuser() {
		return true, nil
	}
	granted, err := s.roles.PermissionsOf(ctx, user.ID())
	if err != nil {
		return false, fmt.Errorf("failed to load permissions: %w", err)
	}
	return slices.Contains(granted, perm.Code()), nil
}

// Require загружает пользователя и возвращает ErrPermissionDenied, если права нет.
func (s *PermissionService) Require(ctx context.Context, userID uuid.UUID, perm valueobjects.Permission) (*entities.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	ok, err := s.HasPermission(ctx, user, perm)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domainerrors.ErrPermissionDenied
	}
	return user, nil
}
