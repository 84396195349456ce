package valueobjects

import (
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/Haleralex/fundhub/internal/domain/errors"
)

// Validation errors for phone numbers.
var (
	ErrPhoneEmpty   = errors.NewValidationError("phone", "phone_empty", "phone number must not be empty")
	ErrPhoneInvalid = errors.NewValidationError("phone", "phone_invalid", "phone number is not a valid international number")
)

// PhoneNumber is an international telephone number in canonical E.164 form.
//
// Value Object Pattern: "+7912 345 67 89" and "+7(912)345-67-89" produce equal values.
type PhoneNumber struct {
	e164 string
}

// NewPhoneNumber parses raw as an international number and normalizes it to E.164.
// The number must carry its country code; no default region is assumed.
func NewPhoneNumber(raw string) (PhoneNumber, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PhoneNumber{}, ErrPhoneEmpty
	}

	num, err := phonenumbers.Parse(raw, "")
	if err != nil {
		return PhoneNumber{}, ErrPhoneInvalid
	}
	if !phonenumbers.IsValidNumber(num) {
		return PhoneNumber{}, ErrPhoneInvalid
	}

	return PhoneNumber{e164: phonenumbers.Format(num, phonenumbers.E164)}, nil
}

// ReconstructPhoneNumber wraps a stored E.164 value without re-parsing.
func ReconstructPhoneNumber(e164 string) PhoneNumber {
	return PhoneNumber{e164: e164}
}

// String returns the E.164 representation.
func (p PhoneNumber) String() string {
	return p.e164
}

// Equals checks if two numbers are the same.
func (p PhoneNumber) Equals(other PhoneNumber) bool {
	return p.e164 == other.e164
}

// IsZero reports whether the number is unset.
func (p PhoneNumber) IsZero() bool {
	return p.e164 == ""
}
