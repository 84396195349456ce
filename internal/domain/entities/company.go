package entities

import (
	"time"

	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/domain/valueobjects"
)

// Founder is the person who founded a company. Stored with the company.
type Founder struct {
	FirstName string
	LastName  string
}

// NewFounder builds a Founder from validated names.
func NewFounder(firstName valueobjects.FirstName, lastName valueobjects.LastName) Founder {
	return Founder{FirstName: firstName.String(), LastName: lastName.String()}
}

// Company is a legal entity whose representative may create projects for it.
// The representative link never changes after creation.
type Company struct {
	id               uuid.UUID
	name             string
	representativeID uuid.UUID
	businessNumber   valueobjects.BusinessNumber
	established      valueobjects.EstablishedDate
	description      string
	founder          Founder
	createdAt        time.Time
}

// NewCompany creates a company. The business number carries its country.
func NewCompany(
	name valueobjects.Name,
	representativeID uuid.UUID,
	businessNumber valueobjects.BusinessNumber,
	established valueobjects.EstablishedDate,
	description valueobjects.Description,
	founder Founder,
) *Company {
	return &Company{
		id:               uuid.New(),
		name:             name.String(),
		representativeID: representativeID,
		businessNumber:   businessNumber,
		established:      established,
		description:      description.String(),
		founder:          founder,
		createdAt:        time.Now().UTC(),
	}
}

// ReconstructCompany hydrates a Company from storage.
func ReconstructCompany(
	id uuid.UUID,
	name string,
	representativeID uuid.UUID,
	businessNumber valueobjects.BusinessNumber,
	established valueobjects.EstablishedDate,
	description string,
	founder Founder,
	createdAt time.Time,
) *Company {
	return &Company{
		id:               id,
		name:             name,
		representativeID: representativeID,
		businessNumber:   businessNumber,
		established:      established,
		description:      description,
		founder:          founder,
		createdAt:        createdAt,
	}
}

func (c *Company) ID() uuid.UUID                                 { return c.id }
func (c *Company) Name() string                                  { return c.name }
func (c *Company) RepresentativeID() uuid.UUID                   { return c.representativeID }
func (c *Company) Country() valueobjects.CountryCode             { return c.businessNumber.Country() }
func (c *Company) BusinessNumber() valueobjects.BusinessNumber   { return c.businessNumber }
func (c *Company) EstablishedDate() valueobjects.EstablishedDate { return c.established }
func (c *Company) Description() string                           { return c.description }
func (c *Company) Founder() Founder                              { return c.founder }
func (c *Company) CreatedAt() time.Time                          { return c.createdAt }

// IsRepresentedBy reports whether userID is the registered representative.
func (c *Company) IsRepresentedBy(userID uuid.UUID) bool {
	return c.representativeID == userID
}
