// Package valueobjects contains immutable value objects that represent domain concepts
// without identity. They are compared by their values, not by identity.
//
// Every constructor validates exactly one semantic fact and returns a ValidationError
// from the domain errors package. Checks run in a fixed order (empty before too long),
// which decides the error reported for doubly-invalid input.
package valueobjects

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Haleralex/fundhub/internal/domain/errors"
)

// Length limits for free-text fields.
const (
	MaxFirstNameLength   = 100
	MaxLastNameLength    = 100
	MaxNameLength        = 200
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxContentLength     = 10000
)

// Validation errors for free-text fields.
var (
	ErrFirstNameEmpty     = errors.NewValidationError("first_name", "first_name_empty", "first name must not be empty")
	ErrFirstNameTooLong   = errors.NewValidationError("first_name", "first_name_too_long", fmt.Sprintf("first name must be at most %d characters", MaxFirstNameLength))
	ErrLastNameEmpty      = errors.NewValidationError("last_name", "last_name_empty", "last name must not be empty")
	ErrLastNameTooLong    = errors.NewValidationError("last_name", "last_name_too_long", fmt.Sprintf("last name must be at most %d characters", MaxLastNameLength))
	ErrNameEmpty          = errors.NewValidationError("name", "name_empty", "name must not be empty")
	ErrNameTooLong        = errors.NewValidationError("name", "name_too_long", fmt.Sprintf("name must be at most %d characters", MaxNameLength))
	ErrTitleEmpty         = errors.NewValidationError("title", "title_empty", "title must not be empty")
	ErrTitleTooLong       = errors.NewValidationError("title", "title_too_long", fmt.Sprintf("title must be at most %d characters", MaxTitleLength))
	ErrDescriptionEmpty   = errors.NewValidationError("description", "description_empty", "description must not be empty")
	ErrDescriptionTooLong = errors.NewValidationError("description", "description_too_long", fmt.Sprintf("description must be at most %d characters", MaxDescriptionLength))
	ErrContentEmpty       = errors.NewValidationError("content", "content_empty", "content must not be empty")
	ErrContentTooLong     = errors.NewValidationError("content", "content_too_long", fmt.Sprintf("content must be at most %d characters", MaxContentLength))
)

// boundedText trims raw and checks it against the empty and too-long errors, in that order.
func boundedText(raw string, limit int, errEmpty, errTooLong error) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", errEmpty
	}
	if utf8.RuneCountInString(value) > limit {
		return "", errTooLong
	}
	return value, nil
}

// FirstName is a person's given name.
type FirstName struct {
	value string
}

// NewFirstName creates a validated FirstName.
func NewFirstName(raw string) (FirstName, error) {
	v, err := boundedText(raw, MaxFirstNameLength, ErrFirstNameEmpty, ErrFirstNameTooLong)
	if err != nil {
		return FirstName{}, err
	}
	return FirstName{value: v}, nil
}

// String returns the name.
func (n FirstName) String() string { return n.value }

// LastName is a person's family name.
type LastName struct {
	value string
}

// NewLastName creates a validated LastName.
func NewLastName(raw string) (LastName, error) {
	v, err := boundedText(raw, MaxLastNameLength, ErrLastNameEmpty, ErrLastNameTooLong)
	if err != nil {
		return LastName{}, err
	}
	return LastName{value: v}, nil
}

// String returns the name.
func (n LastName) String() string { return n.value }

// Name is the display name of a project or a company.
type Name struct {
	value string
}

// NewName creates a validated Name.
func NewName(raw string) (Name, error) {
	v, err := boundedText(raw, MaxNameLength, ErrNameEmpty, ErrNameTooLong)
	if err != nil {
		return Name{}, err
	}
	return Name{value: v}, nil
}

// String returns the name.
func (n Name) String() string { return n.value }

// Title is a news headline.
type Title struct {
	value string
}

// NewTitle creates a validated Title.
func NewTitle(raw string) (Title, error) {
	v, err := boundedText(raw, MaxTitleLength, ErrTitleEmpty, ErrTitleTooLong)
	if err != nil {
		return Title{}, err
	}
	return Title{value: v}, nil
}

// String returns the title.
func (t Title) String() string { return t.value }

// Description is a free-text description of a project, company, team member or user.
type Description struct {
	value string
}

// NewDescription creates a validated Description.
func NewDescription(raw string) (Description, error) {
	v, err := boundedText(raw, MaxDescriptionLength, ErrDescriptionEmpty, ErrDescriptionTooLong)
	if err != nil {
		return Description{}, err
	}
	return Description{value: v}, nil
}

// String returns the description.
func (d Description) String() string { return d.value }

// Content is the body of a news item.
type Content struct {
	value string
}

// NewContent creates validated news Content.
func NewContent(raw string) (Content, error) {
	v, err := boundedText(raw, MaxContentLength, ErrContentEmpty, ErrContentTooLong)
	if err != nil {
		return Content{}, err
	}
	return Content{value: v}, nil
}

// String returns the content.
func (c Content) String() string { return c.value }
