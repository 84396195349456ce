package apptest

import (
	"time"

	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/application/dtos"
	"github.com/Haleralex/fundhub/internal/domain/entities"
	"github.com/Haleralex/fundhub/internal/domain/valueobjects"
)

// Идентификаторы справочников, которые создаёт Seed.
const (
	CategoryID     int64 = 1
	FundingModelID int64 = 1
)

// PDF - минимальный документ, который распознаётся как application/pdf.
var PDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

// Seed заполняет справочники: одна категория, одна модель финансирования, страны KZ и US.
func (s *Store) Seed() {
	s.SeedCategory(entities.Category{ID: CategoryID, Name: "Technology", Slug: "technology"})
	s.SeedFundingModel(entities.FundingModel{ID: FundingModelID, Name: "Donation"})
	s.SeedCountry(entities.Country{Code: "KZ", Name: "Kazakhstan"})
	s.SeedCountry(entities.Country{Code: "US", Name: "United States"})
}

// NewUser создаёт пользователя с паролем "password123" (PlainHasher).
func NewUser(username string) *entities.User {
	return entities.NewUser(
		must(valueobjects.NewUsername(username)),
		must(valueobjects.NewEmail(username+"@example.com")),
		"hashed:password123",
		must(valueobjects.NewFirstName("Test")),
		must(valueobjects.NewLastName("User")),
	)
}

// NewCompany создаёт казахстанскую компанию с представителем representativeID.
func NewCompany(representativeID uuid.UUID, bin string) *entities.Company {
	return entities.NewCompany(
		must(valueobjects.NewName("Steppe Energy")),
		representativeID,
		must(valueobjects.NewBusinessNumber(valueobjects.CountryKZ, bin)),
		must(valueobjects.NewEstablishedDate(time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC))),
		must(valueobjects.NewDescription("Renewable energy")),
		entities.Founder{FirstName: "Aigerim", LastName: "Nurlanova"},
	)
}

// ProjectCommand строит валидную команду создания проекта:
// goal_sum=100, deadline через 90 дней, телефон +77026992839,
// две соцсети (telegram, youtube) и два участника команды.
func ProjectCommand(name string, creatorID, companyID uuid.UUID) dtos.ProjectCreateCommand {
	return dtos.ProjectCreateCommand{
		Name:           must(valueobjects.NewName(name)),
		Description:    must(valueobjects.NewDescription("Off-grid solar kiosks")),
		CategoryID:     CategoryID,
		FundingModelID: FundingModelID,
		CompanyID:      companyID,
		GoalSum:        must(valueobjects.NewGoalSum("100")),
		Deadline:       must(valueobjects.NewDeadlineDate(time.Now().AddDate(0, 0, 90))),
		TeamMembers: []dtos.TeamMemberPayload{
			TeamMember("Aigerim", "Nurlanova", "CEO"),
			TeamMember("Daniyar", "Kassymov", "CTO"),
		},
		Phone: must(valueobjects.NewPhoneNumber("+77026992839")),
		SocialLinks: []valueobjects.SocialLink{
			must(valueobjects.NewSocialLink("telegram", "https://t.me/solar")),
			must(valueobjects.NewSocialLink("youtube", "https://youtube.com/@solar")),
		},
		Plan:      must(valueobjects.NewPlanFile(PDF)),
		CreatorID: creatorID,
	}
}

// TeamMember строит участника команды.
func TeamMember(first, last, description string) dtos.TeamMemberPayload {
	return dtos.TeamMemberPayload{
		FirstName:   must(valueobjects.NewFirstName(first)),
		LastName:    must(valueobjects.NewLastName(last)),
		Description: must(valueobjects.NewDescription(description)),
	}
}

// NewProject создаёт проект creatorID без плана.
func NewProject(name string, creatorID, companyID uuid.UUID) *entities.Project {
	cmd := ProjectCommand(name, creatorID, companyID)
	return entities.NewProject(cmd.Name, cmd.Description, cmd.CategoryID, creatorID, cmd.FundingModelID, companyID, cmd.GoalSum, cmd.Deadline)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic("apptest fixture: " + err.Error())
	}
	return v
}
