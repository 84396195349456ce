// Package auth содержит use cases регистрации и работы с токенами.
//
// Access токен живёт недолго и несёт email, refresh токен используется
// только для перевыпуска и может быть отозван (logout, ротация).
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Haleralex/fundhub/internal/application/dtos"
	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/application/services"
	"github.com/Haleralex/fundhub/internal/domain/events"
)

// RegisterUseCase - регистрация пользователя.
//
// Сценарий (одна транзакция):
// 1. Проверить уникальность username, затем email
// 2. Захешировать пароль и сохранить пользователя
// 3. Назначить роль "user"
// 4. Опубликовать UserRegistered
type RegisterUseCase struct {
	users          *services.UserService
	eventPublisher ports.EventPublisher
	uow            ports.UnitOfWork
	logger         *slog.Logger
}

// NewRegisterUseCase создаёт use case.
func NewRegisterUseCase(
	users *services.UserService,
	eventPublisher ports.EventPublisher,
	uow ports.UnitOfWork,
	logger *slog.Logger,
) *RegisterUseCase {
	return &RegisterUseCase{users: users, eventPublisher: eventPublisher, uow: uow, logger: logger}
}

// Execute выполняет use case.
func (uc *RegisterUseCase) Execute(ctx context.Context, cmd dtos.RegisterCommand) (*dtos.UserDTO, error) {
	var result *dtos.UserDTO

	err := uc.uow.Execute(ctx, func(txCtx context.Context) error {
		// 1-3. Пользователь и роль
		user, err := uc.users.Register(txCtx, cmd)
		if err != nil {
			return err
		}

		// 4. Событие
		event := events.NewUserRegistered(user.ID(), user.Username(), user.Email())
		if err := uc.eventPublisher.Publish(txCtx, event); err != nil {
			return fmt.Errorf("failed to publish UserRegistered event: %w", err)
		}

		dto := dtos.ToUserDTO(user)
		result = &dto
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.InfoContext(ctx, "user registered", slog.String("user_id", result.ID))
	return result, nil
}
