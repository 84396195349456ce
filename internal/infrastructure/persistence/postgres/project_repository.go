// Package postgres - ProjectRepository implementation.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/domain/entities"
	domainErrors "github.com/Haleralex/fundhub/internal/domain/errors"
	"github.com/Haleralex/fundhub/internal/domain/valueobjects"
)

// Compile-time check
var _ ports.ProjectRepository = (*ProjectRepository)(nil)

// ProjectRepository реализует ports.ProjectRepository.
//
// Суммы хранятся как NUMERIC(14,2): пишутся строкой с приведением ::numeric,
// читаются как ::text, чтобы не терять точность на float.
type ProjectRepository struct {
	db DB
}

// NewProjectRepository создаёт новый ProjectRepository.
func NewProjectRepository(db DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, name, description, category_id, creator_id, funding_model_id, company_id,
	goal_sum::text, current_sum::text, deadline, plan_path, is_active, created_at, updated_at`

// Create сохраняет новый проект.
func (r *ProjectRepository) Create(ctx context.Context, project *entities.Project) error {
	query := `
		INSERT INTO projects (
			id, name, description, category_id, creator_id, funding_model_id, company_id,
			goal_sum, current_sum, deadline, plan_path, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric, $9::numeric, $10, $11, $12, $13, $14)
	`

	_, err := conn(ctx, r.db).Exec(ctx, query,
		project.ID(),
		project.Name(),
		project.Description(),
		project.CategoryID(),
		project.CreatorID(),
		project.FundingModelID(),
		project.CompanyID(),
		project.GoalSum().String(),
		project.CurrentSum().String(),
		project.Deadline().Time(),
		project.PlanPath(),
		project.IsActive(),
		project.CreatedAt(),
		project.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err, constraintProjectsName) {
			return domainErrors.ErrProjectAlreadyExists
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// Update сохраняет изменяемые поля проекта. creator/company не меняются.
func (r *ProjectRepository) Update(ctx context.Context, project *entities.Project) error {
	query := `
		UPDATE projects
		SET name = $2,
			description = $3,
			category_id = $4,
			funding_model_id = $5,
			goal_sum = $6::numeric,
			current_sum = $7::numeric,
			deadline = $8,
			plan_path = $9,
			is_active = $10,
			updated_at = $11
		WHERE id = $1
	`

	result, err := conn(ctx, r.db).Exec(ctx, query,
		project.ID(),
		project.Name(),
		project.Description(),
		project.CategoryID(),
		project.FundingModelID(),
		project.GoalSum().String(),
		project.CurrentSum().String(),
		project.Deadline().Time(),
		project.PlanPath(),
		project.IsActive(),
		project.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err, constraintProjectsName) {
			return domainErrors.ErrProjectAlreadyExists
		}
		return fmt.Errorf("failed to update project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domainErrors.ErrProjectNotFound
	}

	return nil
}

// Delete удаляет проект; команда, телефон, ссылки и избранное уходят каскадом.
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domainErrors.ErrProjectNotFound
	}

	return nil
}

// FindByID загружает проект по ID.
func (r *ProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	project, err := scanProject(conn(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project by id: %w", err)
	}

	return project, nil
}

// List возвращает страницу проектов (новые первыми) и общее количество по фильтру.
func (r *ProjectRepository) List(ctx context.Context, filter ports.ProjectFilter, offset, limit int) ([]*entities.Project, int, error) {
	q := conn(ctx, r.db)
	where, args := projectWhere(filter)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM projects`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	argNum := len(args) + 1
	query := `SELECT ` + projectColumns + ` FROM projects` + where +
		fmt.Sprintf(" ORDER BY created_at DESC, id OFFSET $%d LIMIT $%d", argNum, argNum+1)
	args = append(args, offset, limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]*entities.Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, total, nil
}

// projectWhere собирает WHERE по непустым полям фильтра.
func projectWhere(filter ports.ProjectFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.CategoryID != nil {
		add("category_id = $%d", *filter.CategoryID)
	}
	if filter.CreatorID != nil {
		add("creator_id = $%d", *filter.CreatorID)
	}
	if filter.CompanyID != nil {
		add("company_id = $%d", *filter.CompanyID)
	}
	if filter.IsActive != nil {
		add("is_active = $%d", *filter.IsActive)
	}
	if filter.Search != "" {
		add("name ILIKE $%d", "%"+escapeLike(filter.Search)+"%")
	}
	if filter.IDs != nil {
		add("id = ANY($%d)", filter.IDs)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike экранирует спецсимволы LIKE в пользовательском поиске.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scanProject(scanner rowScanner) (*entities.Project, error) {
	var (
		id, creatorID, companyID    uuid.UUID
		name, description, planPath string
		categoryID, fundingModelID  int64
		goalSumRaw, currentSumRaw   string
		deadline                    time.Time
		isActive                    bool
		createdAt, updatedAt        time.Time
	)

	err := scanner.Scan(
		&id, &name, &description, &categoryID, &creatorID, &fundingModelID, &companyID,
		&goalSumRaw, &currentSumRaw, &deadline, &planPath, &isActive, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	goalSum, err := valueobjects.NewAmount(goalSumRaw)
	if err != nil {
		return nil, fmt.Errorf("corrupt goal_sum %q: %w", goalSumRaw, err)
	}
	currentSum, err := valueobjects.NewAmount(currentSumRaw)
	if err != nil {
		return nil, fmt.Errorf("corrupt current_sum %q: %w", currentSumRaw, err)
	}

	return entities.ReconstructProject(
		id, name, description, categoryID, creatorID, fundingModelID, companyID,
		goalSum, currentSum, valueobjects.ReconstructDeadlineDate(deadline),
		planPath, isActive, createdAt, updatedAt,
	), nil
}
