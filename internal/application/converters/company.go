package converters

import (
	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/application/dtos"
	"github.com/Haleralex/fundhub/internal/domain/valueobjects"
)

// Поля запроса создания компании.
const (
	FieldCompany = "company"
	FieldFounder = "founder"
)

// CompanyCreate строит черновик компании.
//
//	company  JSON {name, country_code, business_number, established_date, description}
//	founder  JSON {first_name, last_name}
//
// Business number проверяется позже, когда страна найдена в справочнике.
func CompanyCreate(in Input, representativeID uuid.UUID) (dtos.CompanyCreateDraft, error) {
	if err := in.requireFields(FieldCompany, FieldFounder); err != nil {
		return dtos.CompanyCreateDraft{}, err
	}

	company, err := parseObject(FieldCompany, in.Fields[FieldCompany])
	if err != nil {
		return dtos.CompanyCreateDraft{}, err
	}
	if err := company.require("name", "country_code", "business_number", "established_date", "description"); err != nil {
		return dtos.CompanyCreateDraft{}, err
	}
	founder, err := parseObject(FieldFounder, in.Fields[FieldFounder])
	if err != nil {
		return dtos.CompanyCreateDraft{}, err
	}
	if err := founder.require("first_name", "last_name"); err != nil {
		return dtos.CompanyCreateDraft{}, err
	}

	draft := dtos.CompanyCreateDraft{RepresentativeID: representativeID}

	rawName, err := company.str("name")
	if err != nil {
		return draft, err
	}
	rawCountry, err := company.str("country_code")
	if err != nil {
		return draft, err
	}
	rawBusinessNumber, err := company.str("business_number")
	if err != nil {
		return draft, err
	}
	rawEstablished, err := company.str("established_date")
	if err != nil {
		return draft, err
	}
	rawDescription, err := company.str("description")
	if err != nil {
		return draft, err
	}
	rawFirst, err := founder.str("first_name")
	if err != nil {
		return draft, err
	}
	rawLast, err := founder.str("last_name")
	if err != nil {
		return draft, err
	}

	if draft.Name, err = valueobjects.NewName(rawName); err != nil {
		return draft, err
	}
	if draft.CountryCode, err = valueobjects.NewCountryCode(rawCountry); err != nil {
		return draft, err
	}
	draft.RawBusinessNumber = rawBusinessNumber

	established, err := valueobjects.ParseISODate(company.key("established_date"), rawEstablished)
	if err != nil {
		return draft, err
	}
	if draft.EstablishedDate, err = valueobjects.NewEstablishedDate(established); err != nil {
		return draft, err
	}
	if draft.Description, err = valueobjects.NewDescription(rawDescription); err != nil {
		return draft, err
	}
	if draft.FounderFirstName, err = valueobjects.NewFirstName(rawFirst); err != nil {
		return draft, err
	}
	if draft.FounderLastName, err = valueobjects.NewLastName(rawLast); err != nil {
		return draft, err
	}

	return draft, nil
}

// CompanyPayload завершает валидацию черновика для найденной страны.
func CompanyPayload(draft dtos.CompanyCreateDraft) (dtos.CompanyCreatePayload, error) {
	bn, err := valueobjects.NewBusinessNumber(draft.CountryCode, draft.RawBusinessNumber)
	if err != nil {
		return dtos.CompanyCreatePayload{}, err
	}
	return dtos.CompanyCreatePayload{
		Name:             draft.Name,
		BusinessNumber:   bn,
		EstablishedDate:  draft.EstablishedDate,
		Description:      draft.Description,
		FounderFirstName: draft.FounderFirstName,
		FounderLastName:  draft.FounderLastName,
		RepresentativeID: draft.RepresentativeID,
	}, nil
}
