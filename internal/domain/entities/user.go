// Package entities contains domain entities with identity and lifecycle.
// Entities are mutable and compared by their ID, not by their attributes.
//
// SOLID Principles:
// - SRP: each entity manages its own business rules
// - DIP: Doesn't depend on infrastructure (no DB, no HTTP)
package entities

import (
	"time"

	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/domain/valueobjects"
)

// User represents a registered platform account.
//
// Entity Pattern:
// - Has unique identity (ID)
// - Mutable profile over time
// - Password is kept only as a hash
type User struct {
	id           uuid.UUID // Identity - never changes
	username     string
	email        string
	passwordHash string
	firstName    string
	lastName     string
	about        string
	phone        string // E.164, empty when not set
	isActive     bool
	isSuperuser  bool
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser creates a new active, non-superuser account.
// Uniqueness of username and email is checked by the repository.
func NewUser(
	username valueobjects.Username,
	email valueobjects.Email,
	passwordHash string,
	firstName valueobjects.FirstName,
	lastName valueobjects.LastName,
) *User {
	now := time.Now().UTC()
	return &User{
		id:           uuid.New(),
		username:     username.String(),
		email:        email.String(),
		passwordHash: passwordHash,
		firstName:    firstName.String(),
		lastName:     lastName.String(),
		isActive:     true,
		createdAt:    now,
		updatedAt:    now,
	}
}

// ReconstructUser reconstructs a User from stored data (e.g., from database).
// Used by repository layer to hydrate entities.
// No validation - assumes data is already valid.
func ReconstructUser(
	id uuid.UUID,
	username, email, passwordHash, firstName, lastName, about, phone string,
	isActive, isSuperuser bool,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:           id,
		username:     username,
		email:        email,
		passwordHash: passwordHash,
		firstName:    firstName,
		lastName:     lastName,
		about:        about,
		phone:        phone,
		isActive:     isActive,
		isSuperuser:  isSuperuser,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// ID returns the user's unique identifier.
func (u *User) ID() uuid.UUID { return u.id }

// Username returns the login handle.
func (u *User) Username() string { return u.username }

// Email returns the user's email.
func (u *User) Email() string { return u.email }

// PasswordHash returns the stored hash.
func (u *User) PasswordHash() string { return u.passwordHash }

// FirstName returns the given name.
func (u *User) FirstName() string { return u.firstName }

// LastName returns the family name.
func (u *User) LastName() string { return u.lastName }

// About returns the profile description.
func (u *User) About() string { return u.about }

// Phone returns the E.164 phone or an empty string.
func (u *User) Phone() string { return u.phone }

// IsActive reports whether the account may log in.
func (u *User) IsActive() bool { return u.isActive }

// IsSuperuser reports whether permission checks are bypassed for this user.
func (u *User) IsSuperuser() bool { return u.isSuperuser }

// CreatedAt returns when the user was created.
func (u *User) CreatedAt() time.Time { return u.createdAt }

// UpdatedAt returns when the user was last updated.
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// ChangeFirstName updates the given name.
func (u *User) ChangeFirstName(name valueobjects.FirstName) {
	u.firstName = name.String()
	u.touch()
}

// ChangeLastName updates the family name.
func (u *User) ChangeLastName(name valueobjects.LastName) {
	u.lastName = name.String()
	u.touch()
}

// ChangeAbout updates the profile description.
func (u *User) ChangeAbout(about valueobjects.Description) {
	u.about = about.String()
	u.touch()
}

// ChangePhone updates the contact phone.
func (u *User) ChangePhone(phone valueobjects.PhoneNumber) {
	u.phone = phone.String()
	u.touch()
}

// Deactivate disables login for the account.
func (u *User) Deactivate() {
	u.isActive = false
	u.touch()
}

func (u *User) touch() {
	u.updatedAt = time.Now().UTC()
}
