// Package user содержит use cases профиля и избранного.
package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/application/dtos"
	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/application/services"
)

// GetProfileUseCase - профиль пользователя.
type GetProfileUseCase struct {
	users *services.UserService
}

// NewGetProfileUseCase создаёт use case.
func NewGetProfileUseCase(users *services.UserService) *GetProfileUseCase {
	return &GetProfileUseCase{users: users}
}

// Execute возвращает профиль или ErrUserNotFound.
func (uc *GetProfileUseCase) Execute(ctx context.Context, userID uuid.UUID) (*dtos.UserDTO, error) {
	user, err := uc.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := dtos.ToUserDTO(user)
	return &dto, nil
}

// UpdateProfileUseCase - частичное обновление профиля.
type UpdateProfileUseCase struct {
	users *services.UserService
	uow   ports.UnitOfWork
}

// NewUpdateProfileUseCase создаёт use case.
func NewUpdateProfileUseCase(users *services.UserService, uow ports.UnitOfWork) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{users: users, uow: uow}
}

// Execute применяет переданные поля.
func (uc *UpdateProfileUseCase) Execute(ctx context.Context, cmd dtos.ProfileUpdateCommand) (*dtos.UserDTO, error) {
	var result *dtos.UserDTO
	err := uc.uow.Execute(ctx, func(txCtx context.Context) error {
		user, err := uc.users.UpdateProfile(txCtx, cmd)
		if err != nil {
			return err
		}
		dto := dtos.ToUserDTO(user)
		result = &dto
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
