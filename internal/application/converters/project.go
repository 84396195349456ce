package converters

import (
	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/application/dtos"
	"github.com/Haleralex/fundhub/internal/domain/valueobjects"
)

// Поля multipart-запроса создания проекта.
const (
	FieldProject     = "project"
	FieldTeamMembers = "team_members"
	FieldPhone       = "phone"
	FieldSocialLinks = "social_links"
	FilePlan         = "plan"
)

// ProjectCreate строит ProjectCreateCommand из multipart-ввода.
//
// Ожидаемые поля:
//
//	project       JSON {name, description, category_id, funding_model_id, company_id, goal_sum, deadline}
//	team_members  JSON [{first_name, last_name, description}, ...]
//	phone         "+77026992839"
//	social_links  JSON [{platform, link}, ...]
//	plan          PDF-файл
func ProjectCreate(in Input, creatorID uuid.UUID) (dtos.ProjectCreateCommand, error) {
	// 1. Наличие всех полей до любой проверки типов
	if err := in.requireFields(FieldProject, FieldTeamMembers, FieldPhone, FieldSocialLinks); err != nil {
		return dtos.ProjectCreateCommand{}, err
	}
	if err := in.requireFiles(FilePlan); err != nil {
		return dtos.ProjectCreateCommand{}, err
	}

	cmd := dtos.ProjectCreateCommand{CreatorID: creatorID}

	// 2. project
	if err := fillProject(&cmd, in.Fields[FieldProject]); err != nil {
		return dtos.ProjectCreateCommand{}, err
	}

	// 3. team_members
	members, err := parseTeamMembers(in.Fields[FieldTeamMembers])
	if err != nil {
		return dtos.ProjectCreateCommand{}, err
	}
	cmd.TeamMembers = members

	// 4. phone
	phone, err := valueobjects.NewPhoneNumber(in.Fields[FieldPhone])
	if err != nil {
		return dtos.ProjectCreateCommand{}, err
	}
	cmd.Phone = phone

	// 5. social_links
	links, err := parseSocialLinks(in.Fields[FieldSocialLinks])
	if err != nil {
		return dtos.ProjectCreateCommand{}, err
	}
	cmd.SocialLinks = links

	// 6. plan: читаем файл целиком в память
	content, err := in.readFile(FilePlan, valueobjects.MaxPlanFileSize)
	if err != nil {
		return dtos.ProjectCreateCommand{}, err
	}
	plan, err := valueobjects.NewPlanFile(content)
	if err != nil {
		return dtos.ProjectCreateCommand{}, err
	}
	cmd.Plan = plan

	return cmd, nil
}

func fillProject(cmd *dtos.ProjectCreateCommand, raw string) error {
	o, err := parseObject(FieldProject, raw)
	if err != nil {
		return err
	}
	if err := o.require("name", "description", "category_id", "funding_model_id", "company_id", "goal_sum", "deadline"); err != nil {
		return err
	}

	rawName, err := o.str("name")
	if err != nil {
		return err
	}
	rawDescription, err := o.str("description")
	if err != nil {
		return err
	}
	categoryID, err := o.int64("category_id")
	if err != nil {
		return err
	}
	fundingModelID, err := o.int64("funding_model_id")
	if err != nil {
		return err
	}
	companyID, err := o.uuid("company_id")
	if err != nil {
		return err
	}
	rawGoal, err := o.decimal("goal_sum")
	if err != nil {
		return err
	}
	rawDeadline, err := o.str("deadline")
	if err != nil {
		return err
	}

	name, err := valueobjects.NewName(rawName)
	if err != nil {
		return err
	}
	description, err := valueobjects.NewDescription(rawDescription)
	if err != nil {
		return err
	}
	goal, err := valueobjects.NewGoalSum(rawGoal)
	if err != nil {
		return err
	}
	deadlineDate, err := valueobjects.ParseISODate(o.key("deadline"), rawDeadline)
	if err != nil {
		return err
	}
	deadline, err := valueobjects.NewDeadlineDate(deadlineDate)
	if err != nil {
		return err
	}

	cmd.Name = name
	cmd.Description = description
	cmd.CategoryID = categoryID
	cmd.FundingModelID = fundingModelID
	cmd.CompanyID = companyID
	cmd.GoalSum = goal
	cmd.Deadline = deadline
	return nil
}

func parseTeamMembers(raw string) ([]dtos.TeamMemberPayload, error) {
	items, err := parseList(FieldTeamMembers, raw)
	if err != nil {
		return nil, err
	}

	members := make([]dtos.TeamMemberPayload, 0, len(items))
	for _, o := range items {
		if err := o.require("first_name", "last_name", "description"); err != nil {
			return nil, err
		}
		m, err := teamMember(o)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}

func teamMember(o object) (dtos.TeamMemberPayload, error) {
	rawFirst, err := o.str("first_name")
	if err != nil {
		return dtos.TeamMemberPayload{}, err
	}
	rawLast, err := o.str("last_name")
	if err != nil {
		return dtos.TeamMemberPayload{}, err
	}
	rawDescription, err := o.str("description")
	if err != nil {
		return dtos.TeamMemberPayload{}, err
	}

	first, err := valueobjects.NewFirstName(rawFirst)
	if err != nil {
		return dtos.TeamMemberPayload{}, err
	}
	last, err := valueobjects.NewLastName(rawLast)
	if err != nil {
		return dtos.TeamMemberPayload{}, err
	}
	description, err := valueobjects.NewDescription(rawDescription)
	if err != nil {
		return dtos.TeamMemberPayload{}, err
	}
	return dtos.TeamMemberPayload{FirstName: first, LastName: last, Description: description}, nil
}

func parseSocialLinks(raw string) ([]valueobjects.SocialLink, error) {
	items, err := parseList(FieldSocialLinks, raw)
	if err != nil {
		return nil, err
	}

	links := make([]valueobjects.SocialLink, 0, len(items))
	for _, o := range items {
		if err := o.require("platform", "link"); err != nil {
			return nil, err
		}
		platform, err := o.str("platform")
		if err != nil {
			return nil, err
		}
		link, err := o.str("link")
		if err != nil {
			return nil, err
		}
		sl, err := valueobjects.NewSocialLink(platform, link)
		if err != nil {
			return nil, err
		}
		links = append(links, sl)
	}
	return links, nil
}

// ProjectUpdate строит частичную команду обновления.
// Отсутствующие поля остаются nil и не изменяются.
func ProjectUpdate(in Input, projectID, userID uuid.UUID) (dtos.ProjectUpdateCommand, error) {
	o := in.asObject()
	cmd := dtos.ProjectUpdateCommand{ProjectID: projectID, UserID: userID}

	if o.has("name") {
		raw, _ := o.str("name")
		v, err := valueobjects.NewName(raw)
		if err != nil {
			return cmd, err
		}
		cmd.Name = &v
	}
	if o.has("description") {
		raw, _ := o.str("description")
		v, err := valueobjects.NewDescription(raw)
		if err != nil {
			return cmd, err
		}
		cmd.Description = &v
	}
	if o.has("category_id") {
		v, err := o.int64("category_id")
		if err != nil {
			return cmd, err
		}
		cmd.CategoryID = &v
	}
	if o.has("funding_model_id") {
		v, err := o.int64("funding_model_id")
		if err != nil {
			return cmd, err
		}
		cmd.FundingModelID = &v
	}
	if o.has("goal_sum") {
		raw, err := o.decimal("goal_sum")
		if err != nil {
			return cmd, err
		}
		v, err := valueobjects.NewGoalSum(raw)
		if err != nil {
			return cmd, err
		}
		cmd.GoalSum = &v
	}
	if o.has("deadline") {
		raw, _ := o.str("deadline")
		d, err := valueobjects.ParseISODate("deadline", raw)
		if err != nil {
			return cmd, err
		}
		v, err := valueobjects.NewDeadlineDate(d)
		if err != nil {
			return cmd, err
		}
		cmd.Deadline = &v
	}
	if o.has("is_active") {
		v, err := o.boolean("is_active")
		if err != nil {
			return cmd, err
		}
		cmd.IsActive = &v
	}

	return cmd, nil
}
