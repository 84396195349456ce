package project

import (
	"context"
	"fmt"

	"github.com/Haleralex/fundhub/internal/application/dtos"
	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/application/services"
	"github.com/Haleralex/fundhub/internal/domain/entities"
	"github.com/Haleralex/fundhub/internal/domain/events"
)

// UpdateProjectUseCase - частичное обновление проекта владельцем.
type UpdateProjectUseCase struct {
	projects       *services.ProjectService
	eventPublisher ports.EventPublisher
	uow            ports.UnitOfWork
}

// NewUpdateProjectUseCase создаёт use case.
func NewUpdateProjectUseCase(projects *services.ProjectService, eventPublisher ports.EventPublisher, uow ports.UnitOfWork) *UpdateProjectUseCase {
	return &UpdateProjectUseCase{projects: projects, eventPublisher: eventPublisher, uow: uow}
}

// Execute применяет только переданные поля. Пустое обновление ничего не пишет.
func (uc *UpdateProjectUseCase) Execute(ctx context.Context, cmd dtos.ProjectUpdateCommand) (*dtos.ProjectDTO, error) {
	var updated *entities.Project

	err := uc.uow.Execute(ctx, func(txCtx context.Context) error {
		project, changed, err := uc.projects.Update(txCtx, cmd)
		if err != nil {
			return err
		}
		updated = project

		if len(changed) == 0 {
			return nil
		}
		if err := uc.eventPublisher.Publish(txCtx, events.NewProjectUpdated(project.ID(), changed)); err != nil {
			return fmt.Errorf("failed to publish ProjectUpdated event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := dtos.ToProjectDTO(updated)
	return &dto, nil
}
