package entities

import (
	"time"

	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/domain/valueobjects"
)

// PlanPath returns the storage path of the plan file of a project.
// The path depends only on the project id.
func PlanPath(projectID uuid.UUID) string {
	return "projects/" + projectID.String() + "/plan.pdf"
}

// Project is a crowdfunding campaign created by a company representative.
//
// Business Rules:
// - goal sum is positive, current sum starts at zero and never goes negative
// - deadline is in the future at creation
// - only the creator may change or delete the project
type Project struct {
	id             uuid.UUID
	name           string
	description    string
	categoryID     int64
	creatorID      uuid.UUID
	fundingModelID int64
	companyID      uuid.UUID
	goalSum        valueobjects.Amount
	currentSum     valueobjects.Amount
	deadline       valueobjects.DeadlineDate
	planPath       string
	isActive       bool
	createdAt      time.Time
	updatedAt      time.Time
}

// NewProject creates an active project with zero collected sum and no plan attached yet.
func NewProject(
	name valueobjects.Name,
	description valueobjects.Description,
	categoryID int64,
	creatorID uuid.UUID,
	fundingModelID int64,
	companyID uuid.UUID,
	goalSum valueobjects.GoalSum,
	deadline valueobjects.DeadlineDate,
) *Project {
	now := time.Now().UTC()
	return &Project{
		id:             uuid.New(),
		name:           name.String(),
		description:    description.String(),
		categoryID:     categoryID,
		creatorID:      creatorID,
		fundingModelID: fundingModelID,
		companyID:      companyID,
		goalSum:        goalSum.Amount(),
		currentSum:     valueobjects.ZeroAmount(),
		deadline:       deadline,
		isActive:       true,
		createdAt:      now,
		updatedAt:      now,
	}
}

// ReconstructProject hydrates a Project from storage. No validation.
func ReconstructProject(
	id uuid.UUID,
	name, description string,
	categoryID int64,
	creatorID uuid.UUID,
	fundingModelID int64,
	companyID uuid.UUID,
	goalSum, currentSum valueobjects.Amount,
	deadline valueobjects.DeadlineDate,
	planPath string,
	isActive bool,
	createdAt, updatedAt time.Time,
) *Project {
	return &Project{
		id:             id,
		name:           name,
		description:    description,
		categoryID:     categoryID,
		creatorID:      creatorID,
		fundingModelID: fundingModelID,
		companyID:      companyID,
		goalSum:        goalSum,
		currentSum:     currentSum,
		deadline:       deadline,
		planPath:       planPath,
		isActive:       isActive,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (p *Project) ID() uuid.UUID                       { return p.id }
func (p *Project) Name() string                        { return p.name }
func (p *Project) Description() string                 { return p.description }
func (p *Project) CategoryID() int64                   { return p.categoryID }
func (p *Project) CreatorID() uuid.UUID                { return p.creatorID }
func (p *Project) FundingModelID() int64               { return p.fundingModelID }
func (p *Project) CompanyID() uuid.UUID                { return p.companyID }
func (p *Project) GoalSum() valueobjects.Amount        { return p.goalSum }
func (p *Project) CurrentSum() valueobjects.Amount     { return p.currentSum }
func (p *Project) Deadline() valueobjects.DeadlineDate { return p.deadline }
func (p *Project) PlanPath() string                    { return p.planPath }
func (p *Project) IsActive() bool                      { return p.isActive }
func (p *Project) CreatedAt() time.Time                { return p.createdAt }
func (p *Project) UpdatedAt() time.Time                { return p.updatedAt }

// IsOwnedBy reports whether userID created the project.
func (p *Project) IsOwnedBy(userID uuid.UUID) bool {
	return p.creatorID == userID
}

// AttachPlan records the storage path of the uploaded plan.
func (p *Project) AttachPlan(path string) {
	p.planPath = path
	p.touch()
}

// Rename changes the project name.
func (p *Project) Rename(name valueobjects.Name) {
	p.name = name.String()
	p.touch()
}

// ChangeDescription replaces the description.
func (p *Project) ChangeDescription(d valueobjects.Description) {
	p.description = d.String()
	p.touch()
}

// ChangeCategory moves the project to another category.
func (p *Project) ChangeCategory(categoryID int64) {
	p.categoryID = categoryID
	p.touch()
}

// ChangeFundingModel switches the funding model.
func (p *Project) ChangeFundingModel(fundingModelID int64) {
	p.fundingModelID = fundingModelID
	p.touch()
}

// ChangeGoalSum sets a new funding goal.
func (p *Project) ChangeGoalSum(g valueobjects.GoalSum) {
	p.goalSum = g.Amount()
	p.touch()
}

// ChangeDeadline moves the deadline.
func (p *Project) ChangeDeadline(d valueobjects.DeadlineDate) {
	p.deadline = d
	p.touch()
}

// SetActive activates or soft-deactivates the project.
func (p *Project) SetActive(active bool) {
	p.isActive = active
	p.touch()
}

func (p *Project) touch() {
	p.updatedAt = time.Now().UTC()
}

// TeamMember is a person working on a project. Position keeps the submitted order.
type TeamMember struct {
	id          uuid.UUID
	projectID   uuid.UUID
	firstName   string
	lastName    string
	description string
	position    int
}

// NewTeamMember creates a team member of projectID at the given position.
func NewTeamMember(
	projectID uuid.UUID,
	firstName valueobjects.FirstName,
	lastName valueobjects.LastName,
	description valueobjects.Description,
	position int,
) *TeamMember {
	return &TeamMember{
		id:          uuid.New(),
		projectID:   projectID,
		firstName:   firstName.String(),
		lastName:    lastName.String(),
		description: description.String(),
		position:    position,
	}
}

// ReconstructTeamMember hydrates a TeamMember from storage.
func ReconstructTeamMember(id, projectID uuid.UUID, firstName, lastName, description string, position int) *TeamMember {
	return &TeamMember{
		id:          id,
		projectID:   projectID,
		firstName:   firstName,
		lastName:    lastName,
		description: description,
		position:    position,
	}
}

func (m *TeamMember) ID() uuid.UUID        { return m.id }
func (m *TeamMember) ProjectID() uuid.UUID { return m.projectID }
func (m *TeamMember) FirstName() string    { return m.firstName }
func (m *TeamMember) LastName() string     { return m.lastName }
func (m *TeamMember) Description() string  { return m.description }
func (m *TeamMember) Position() int        { return m.position }

// ProjectPhone is the contact phone of a project. Unique per (project, number).
type ProjectPhone struct {
	id        uuid.UUID
	projectID uuid.UUID
	number    valueobjects.PhoneNumber
}

// NewProjectPhone creates a phone record for a project.
func NewProjectPhone(projectID uuid.UUID, number valueobjects.PhoneNumber) *ProjectPhone {
	return &ProjectPhone{id: uuid.New(), projectID: projectID, number: number}
}

// ReconstructProjectPhone hydrates a ProjectPhone from storage.
func ReconstructProjectPhone(id, projectID uuid.UUID, number valueobjects.PhoneNumber) *ProjectPhone {
	return &ProjectPhone{id: id, projectID: projectID, number: number}
}

func (p *ProjectPhone) ID() uuid.UUID                    { return p.id }
func (p *ProjectPhone) ProjectID() uuid.UUID             { return p.projectID }
func (p *ProjectPhone) Number() valueobjects.PhoneNumber { return p.number }

// ProjectSocialLink is a social network link of a project. Unique per (project, link).
type ProjectSocialLink struct {
	id        uuid.UUID
	projectID uuid.UUID
	link      valueobjects.SocialLink
}

// NewProjectSocialLink creates a social link record for a project.
func NewProjectSocialLink(projectID uuid.UUID, link valueobjects.SocialLink) *ProjectSocialLink {
	return &ProjectSocialLink{id: uuid.New(), projectID: projectID, link: link}
}

// ReconstructProjectSocialLink hydrates a ProjectSocialLink from storage.
func ReconstructProjectSocialLink(id, projectID uuid.UUID, link valueobjects.SocialLink) *ProjectSocialLink {
	return &ProjectSocialLink{id: id, projectID: projectID, link: link}
}

func (s *ProjectSocialLink) ID() uuid.UUID                 { return s.id }
func (s *ProjectSocialLink) ProjectID() uuid.UUID          { return s.projectID }
func (s *ProjectSocialLink) Link() valueobjects.SocialLink { return s.link }
