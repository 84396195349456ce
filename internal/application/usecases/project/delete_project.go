package project

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/application/services"
	"github.com/Haleralex/fundhub/internal/domain/entities"
	"github.com/Haleralex/fundhub/internal/domain/events"
)

// DeleteProjectUseCase - удаление проекта владельцем.
// Зависимые строки удаляет каскад БД, план удаляется после коммита.
type DeleteProjectUseCase struct {
	projects       *services.ProjectService
	storage        ports.FileStorage
	eventPublisher ports.EventPublisher
	uow            ports.UnitOfWork
	logger         *slog.Logger
}

// NewDeleteProjectUseCase создаёт use case.
func NewDeleteProjectUseCase(
	projects *services.ProjectService,
	storage ports.FileStorage,
	eventPublisher ports.EventPublisher,
	uow ports.UnitOfWork,
	logger *slog.Logger,
) *DeleteProjectUseCase {
	return &DeleteProjectUseCase{
		projects:       projects,
		storage:        storage,
		eventPublisher: eventPublisher,
		uow:            uow,
		logger:         logger,
	}
}

// Execute удаляет проект.
func (uc *DeleteProjectUseCase) Execute(ctx context.Context, projectID, userID uuid.UUID) error {
	var deleted *entities.Project

	err := uc.uow.Execute(ctx, func(txCtx context.Context) error {
		project, err := uc.projects.Delete(txCtx, projectID, userID)
		if err != nil {
			return err
		}
		deleted = project

		if err := uc.eventPublisher.Publish(txCtx, events.NewProjectDeleted(projectID, userID)); err != nil {
			return fmt.Errorf("failed to publish ProjectDeleted event: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if path := deleted.PlanPath(); path != "" {
		if err := uc.storage.Delete(context.WithoutCancel(ctx), path); err != nil {
			uc.logger.ErrorContext(ctx, "failed to remove plan of deleted project",
				slog.String("project_id", projectID.String()),
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
		}
	}

	uc.logger.InfoContext(ctx, "project deleted", slog.String("project_id", projectID.String()))
	return nil
}
