// Package postgres - репозитории контактов проекта: команда, телефон, соцсети.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/domain/entities"
	domainErrors "github.com/Haleralex/fundhub/internal/domain/errors"
	"github.com/Haleralex/fundhub/internal/domain/valueobjects"
)

// Compile-time checks
var (
	_ ports.TeamMemberRepository        = (*TeamMemberRepository)(nil)
	_ ports.ProjectPhoneRepository      = (*ProjectPhoneRepository)(nil)
	_ ports.ProjectSocialLinkRepository = (*ProjectSocialLinkRepository)(nil)
)

// =====================================================================
// Team members
// =====================================================================

// TeamMemberRepository реализует ports.TeamMemberRepository.
type TeamMemberRepository struct {
	db DB
}

// NewTeamMemberRepository создаёт новый TeamMemberRepository.
func NewTeamMemberRepository(db DB) *TeamMemberRepository {
	return &TeamMemberRepository{db: db}
}

// Create сохраняет участника команды.
func (r *TeamMemberRepository) Create(ctx context.Context, member *entities.TeamMember) error {
	query := `
		INSERT INTO team_members (id, project_id, first_name, last_name, description, position)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := conn(ctx, r.db).Exec(ctx, query,
		member.ID(),
		member.ProjectID(),
		member.FirstName(),
		member.LastName(),
		member.Description(),
		member.Position(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domainErrors.ErrProjectNotFound
		}
		return fmt.Errorf("failed to create team member: %w", err)
	}

	return nil
}

// ListByProject возвращает участников в порядке position.
func (r *TeamMemberRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*entities.TeamMember, error) {
	query := `
		SELECT id, project_id, first_name, last_name, description, position
		FROM team_members
		WHERE project_id = $1
		ORDER BY position ASC
	`

	rows, err := conn(ctx, r.db).Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer rows.Close()

	members := make([]*entities.TeamMember, 0)
	for rows.Next() {
		var (
			id, pid                          uuid.UUID
			firstName, lastName, description string
			position                         int
		)
		if err := rows.Scan(&id, &pid, &firstName, &lastName, &description, &position); err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		members = append(members, entities.ReconstructTeamMember(id, pid, firstName, lastName, description, position))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team members: %w", err)
	}

	return members, nil
}

// =====================================================================
// Phones
// =====================================================================

// ProjectPhoneRepository реализует ports.ProjectPhoneRepository.
type ProjectPhoneRepository struct {
	db DB
}

// NewProjectPhoneRepository создаёт новый ProjectPhoneRepository.
func NewProjectPhoneRepository(db DB) *ProjectPhoneRepository {
	return &ProjectPhoneRepository{db: db}
}

// Create сохраняет телефон проекта.
func (r *ProjectPhoneRepository) Create(ctx context.Context, phone *entities.ProjectPhone) error {
	query := `INSERT INTO project_phones (id, project_id, number) VALUES ($1, $2, $3)`

	_, err := conn(ctx, r.db).Exec(ctx, query, phone.ID(), phone.ProjectID(), phone.Number().String())
	if err != nil {
		switch {
		case isUniqueViolation(err, constraintProjectPhones):
			return domainErrors.ErrPhoneAlreadyExists
		case isForeignKeyViolation(err):
			return domainErrors.ErrProjectNotFound
		}
		return fmt.Errorf("failed to create project phone: %w", err)
	}

	return nil
}

// FindByProject возвращает телефон проекта или nil, nil.
func (r *ProjectPhoneRepository) FindByProject(ctx context.Context, projectID uuid.UUID) (*entities.ProjectPhone, error) {
	query := `SELECT id, project_id, number FROM project_phones WHERE project_id = $1 LIMIT 1`

	var (
		id, pid uuid.UUID
		number  string
	)
	err := conn(ctx, r.db).QueryRow(ctx, query, projectID).Scan(&id, &pid, &number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find project phone: %w", err)
	}

	return entities.ReconstructProjectPhone(id, pid, valueobjects.ReconstructPhoneNumber(number)), nil
}

// =====================================================================
// Social links
// =====================================================================

// ProjectSocialLinkRepository реализует ports.ProjectSocialLinkRepository.
type ProjectSocialLinkRepository struct {
	db DB
}

// NewProjectSocialLinkRepository создаёт новый ProjectSocialLinkRepository.
func NewProjectSocialLinkRepository(db DB) *ProjectSocialLinkRepository {
	return &ProjectSocialLinkRepository{db: db}
}

// Create сохраняет ссылку на соцсеть.
func (r *ProjectSocialLinkRepository) Create(ctx context.Context, link *entities.ProjectSocialLink) error {
	query := `INSERT INTO project_social_links (id, project_id, platform, link) VALUES ($1, $2, $3, $4)`

	_, err := conn(ctx, r.db).Exec(ctx, query,
		link.ID(),
		link.ProjectID(),
		string(link.Link().Platform()),
		link.Link().Link(),
	)
	if err != nil {
		switch {
		case isUniqueViolation(err, constraintProjectSocialLink):
			return domainErrors.ErrSocialLinkAlreadyExists
		case isForeignKeyViolation(err):
			return domainErrors.ErrProjectNotFound
		}
		return fmt.Errorf("failed to create social link: %w", err)
	}

	return nil
}

// ListByProject возвращает ссылки проекта в порядке добавления.
func (r *ProjectSocialLinkRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*entities.ProjectSocialLink, error) {
	query := `
		SELECT id, project_id, platform, link
		FROM project_social_links
		WHERE project_id = $1
		ORDER BY ordinal
	`

	rows, err := conn(ctx, r.db).Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list social links: %w", err)
	}
	defer rows.Close()

	links := make([]*entities.ProjectSocialLink, 0)
	for rows.Next() {
		var (
			id, pid        uuid.UUID
			platform, link string
		)
		if err := rows.Scan(&id, &pid, &platform, &link); err != nil {
			return nil, fmt.Errorf("failed to scan social link: %w", err)
		}
		links = append(links, entities.ReconstructProjectSocialLink(id, pid, valueobjects.ReconstructSocialLink(platform, link)))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating social links: %w", err)
	}

	return links, nil
}
