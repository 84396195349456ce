package valueobjects

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Haleralex/fundhub/internal/domain/errors"
)

// Limits for account credentials.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt ignores anything longer
)

// Email validation regex (simplified - real systems use more complex validation)
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.\-]+$`)

// Validation errors for credentials.
var (
	ErrInvalidEmail       = errors.NewValidationError("email", "invalid_email", "email address is invalid")
	ErrUsernameLength     = errors.NewValidationError("username", "username_length", "username must be between 3 and 50 characters")
	ErrUsernameCharacters = errors.NewValidationError("username", "username_characters", "username may contain only letters, digits, '_', '.' and '-'")
	ErrPasswordTooShort   = errors.NewValidationError("password", "password_too_short", "password must be at least 8 characters")
	ErrPasswordTooLong    = errors.NewValidationError("password", "password_too_long", "password must be at most 72 bytes")
)

// Email is a lower-cased email address.
type Email struct {
	value string
}

// NewEmail validates and normalizes an email address.
func NewEmail(raw string) (Email, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if !emailRegex.MatchString(v) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: v}, nil
}

// String returns the address.
func (e Email) String() string { return e.value }

// Username is the public login handle of a user.
type Username struct {
	value string
}

// NewUsername validates length first, then the character set.
func NewUsername(raw string) (Username, error) {
	v := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(v)
	if n < MinUsernameLength || n > MaxUsernameLength {
		return Username{}, ErrUsernameLength
	}
	if !usernameRegex.MatchString(v) {
		return Username{}, ErrUsernameCharacters
	}
	return Username{value: v}, nil
}

// String returns the username.
func (u Username) String() string { return u.value }

// Password is a plaintext password that satisfies the policy. It is never stored.
type Password struct {
	value string
}

// NewPassword checks the length policy. Passwords are not trimmed.
func NewPassword(raw string) (Password, error) {
	if utf8.RuneCountInString(raw) < MinPasswordLength {
		return Password{}, ErrPasswordTooShort
	}
	if len(raw) > MaxPasswordLength {
		return Password{}, ErrPasswordTooLong
	}
	return Password{value: raw}, nil
}

// Plain returns the plaintext for hashing.
func (p Password) Plain() string { return p.value }

// String hides the password in logs.
func (p Password) String() string { return "********" }
