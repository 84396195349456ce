package project

import (
	"context"

	"github.com/Haleralex/fundhub/internal/application/dtos"
	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/application/services"
)

// ListProjectsUseCase - список проектов с фильтрами.
type ListProjectsUseCase struct {
	projects *services.ProjectService
}

// NewListProjectsUseCase создаёт use case.
func NewListProjectsUseCase(projects *services.ProjectService) *ListProjectsUseCase {
	return &ListProjectsUseCase{projects: projects}
}

// Execute возвращает страницу проектов.
func (uc *ListProjectsUseCase) Execute(ctx context.Context, q dtos.ListProjectsQuery) (*dtos.ProjectListDTO, error) {
	offset, limit := dtos.NormalizePage(q.Offset, q.Limit)

	filter := ports.ProjectFilter{
		CategoryID: q.CategoryID,
		CreatorID:  q.CreatorID,
		CompanyID:  q.CompanyID,
		IsActive:   q.IsActive,
		Search:     q.Search,
	}
	projects, total, err := uc.projects.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, err
	}

	return &dtos.ProjectListDTO{
		Projects:   dtos.ToProjectDTOList(projects),
		TotalCount: total,
		Offset:     offset,
		Limit:      limit,
	}, nil
}
