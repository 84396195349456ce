package project

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/application/dtos"
	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/application/services"
)

// GetProjectUseCase - детальная карточка проекта.
type GetProjectUseCase struct {
	projects *services.ProjectService
	members  ports.TeamMemberRepository
	phones   ports.ProjectPhoneRepository
	links    ports.ProjectSocialLinkRepository
	storage  ports.FileStorage
}

// NewGetProjectUseCase создаёт use case.
func NewGetProjectUseCase(
	projects *services.ProjectService,
	members ports.TeamMemberRepository,
	phones ports.ProjectPhoneRepository,
	links ports.ProjectSocialLinkRepository,
	storage ports.FileStorage,
) *GetProjectUseCase {
	return &GetProjectUseCase{projects: projects, members: members, phones: phones, links: links, storage: storage}
}

// Execute возвращает проект с командой (в порядке создания), телефоном,
// соцсетями и подписанной ссылкой на план.
func (uc *GetProjectUseCase) Execute(ctx context.Context, projectID uuid.UUID) (*dtos.ProjectDetailDTO, error) {
	project, err := uc.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	members, err := uc.members.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load team members: %w", err)
	}
	phone, err := uc.phones.FindByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load phone: %w", err)
	}
	links, err := uc.links.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load social links: %w", err)
	}

	var planURL string
	if project.PlanPath() != "" {
		planURL, err = uc.storage.SignedURL(ctx, project.PlanPath())
		if err != nil {
			return nil, fmt.Errorf("failed to sign plan url: %w", err)
		}
	}

	dto := dtos.ToProjectDetailDTO(project, members, phone, links, planURL)
	return &dto, nil
}
