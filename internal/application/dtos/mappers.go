// Package dtos - Mappers для конвертации domain entities в DTOs.
//
// Pattern: Mapper/Converter
// Отделяет domain representation от API representation
package dtos

import (
	"github.com/Haleralex/fundhub/internal/domain/entities"
)

// ============================================
// User Mappers
// ============================================

// ToUserDTO конвертирует domain entity User в DTO.
func ToUserDTO(user *entities.User) UserDTO {
	return UserDTO{
		ID:          user.ID().String(),
		Username:    user.Username(),
		Email:       user.Email(),
		FirstName:   user.FirstName(),
		LastName:    user.LastName(),
		About:       user.About(),
		Phone:       user.Phone(),
		IsSuperuser: user.IsSuperuser(),
		CreatedAt:   user.CreatedAt(),
		UpdatedAt:   user.UpdatedAt(),
	}
}

// ============================================
// Project Mappers
// ============================================

// ToProjectDTO конвертирует domain entity Project в DTO.
func ToProjectDTO(p *entities.Project) ProjectDTO {
	return ProjectDTO{
		ID:             p.ID().String(),
		Name:           p.Name(),
		Description:    p.Description(),
		CategoryID:     p.CategoryID(),
		CreatorID:      p.CreatorID().String(),
		FundingModelID: p.FundingModelID(),
		CompanyID:      p.CompanyID().String(),
		GoalSum:        p.GoalSum().String(),
		CurrentSum:     p.CurrentSum().String(),
		Deadline:       p.Deadline().String(),
		IsActive:       p.IsActive(),
		CreatedAt:      p.CreatedAt(),
		UpdatedAt:      p.UpdatedAt(),
	}
}

// ToProjectDTOList конвертирует список проектов.
func ToProjectDTOList(projects []*entities.Project) []ProjectDTO {
	result := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		result[i] = ToProjectDTO(p)
	}
	return result
}

// ToProjectDetailDTO собирает проект с командой, телефоном и соцсетями.
// phone может быть nil.
func ToProjectDetailDTO(
	p *entities.Project,
	members []*entities.TeamMember,
	phone *entities.ProjectPhone,
	links []*entities.ProjectSocialLink,
	planURL string,
) ProjectDetailDTO {
	dto := ProjectDetailDTO{
		ProjectDTO:  ToProjectDTO(p),
		TeamMembers: make([]TeamMemberDTO, len(members)),
		SocialLinks: make([]SocialLinkDTO, len(links)),
		PlanURL:     planURL,
	}
	for i, m := range members {
		dto.TeamMembers[i] = TeamMemberDTO{
			ID:          m.ID().String(),
			FirstName:   m.FirstName(),
			LastName:    m.LastName(),
			Description: m.Description(),
		}
	}
	for i, l := range links {
		dto.SocialLinks[i] = SocialLinkDTO{
			Platform: string(l.Link().Platform()),
			Link:     l.Link().Link(),
		}
	}
	if phone != nil {
		dto.Phone = phone.Number().String()
	}
	return dto
}

// ============================================
// Company Mappers
// ============================================

// ToCompanyDTO конвертирует domain entity Company в DTO.
func ToCompanyDTO(c *entities.Company) CompanyDTO {
	return CompanyDTO{
		ID:               c.ID().String(),
		Name:             c.Name(),
		RepresentativeID: c.RepresentativeID().String(),
		CountryCode:      c.Country().Code(),
		BusinessNumber:   c.BusinessNumber().Value(),
		EstablishedDate:  c.EstablishedDate().String(),
		Description:      c.Description(),
		Founder: FounderDTO{
			FirstName: c.Founder().FirstName,
			LastName:  c.Founder().LastName,
		},
		CreatedAt: c.CreatedAt(),
	}
}

// ToCompanyDTOList конвертирует список компаний.
func ToCompanyDTOList(companies []*entities.Company) []CompanyDTO {
	result := make([]CompanyDTO, len(companies))
	for i, c := range companies {
		result[i] = ToCompanyDTO(c)
	}
	return result
}

// ============================================
// News Mappers
// ============================================

// ToNewsDTO конвертирует domain entity News в DTO.
func ToNewsDTO(n *entities.News) NewsDTO {
	dto := NewsDTO{
		ID:        n.ID().String(),
		Title:     n.Title(),
		Content:   n.Content(),
		AuthorID:  n.AuthorID().String(),
		CreatedAt: n.CreatedAt(),
		UpdatedAt: n.UpdatedAt(),
	}
	if pid := n.ProjectID(); pid != nil {
		s := pid.String()
		dto.ProjectID = &s
	}
	return dto
}

// ToNewsDTOList конвертирует список новостей.
func ToNewsDTOList(news []*entities.News) []NewsDTO {
	result := make([]NewsDTO, len(news))
	for i, n := range news {
		result[i] = ToNewsDTO(n)
	}
	return result
}

// ============================================
// Catalog Mappers
// ============================================

func ToCategoryDTOList(items []*entities.Category) []CategoryDTO {
	result := make([]CategoryDTO, len(items))
	for i, c := range items {
		result[i] = CategoryDTO{ID: c.ID, Name: c.Name, Slug: c.Slug}
	}
	return result
}

func ToFundingModelDTOList(items []*entities.FundingModel) []FundingModelDTO {
	result := make([]FundingModelDTO, len(items))
	for i, f := range items {
		result[i] = FundingModelDTO{ID: f.ID, Name: f.Name, Description: f.Description}
	}
	return result
}

func ToCountryDTOList(items []*entities.Country) []CountryDTO {
	result := make([]CountryDTO, len(items))
	for i, c := range items {
		result[i] = CountryDTO{Code: c.Code, Name: c.Name}
	}
	return result
}
