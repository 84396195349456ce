package valueobjects

import (
	"regexp"
	"strings"

	"github.com/Haleralex/fundhub/internal/domain/errors"
)

// CountryCode represents an ISO 3166-1 alpha-2 country code.
// Whether the country is known to the platform is checked by the repository, not here.
type CountryCode struct {
	code string
}

// Well-known codes used by business number strategies.
var (
	CountryKZ = CountryCode{code: "KZ"}
	CountryUS = CountryCode{code: "US"}
)

var countryCodeRegex = regexp.MustCompile(`^[A-Z]{2}$`)

// ErrInvalidCountryCode is returned for anything that is not two latin letters.
var ErrInvalidCountryCode = errors.NewValidationError("country_code", "invalid_country_code", "country code must be two latin letters")

// NewCountryCode normalizes to upper case and validates the format.
func NewCountryCode(raw string) (CountryCode, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if !countryCodeRegex.MatchString(code) {
		return CountryCode{}, ErrInvalidCountryCode
	}
	return CountryCode{code: code}, nil
}

// MustNewCountryCode panics on invalid input. Use only with constants.
func MustNewCountryCode(raw string) CountryCode {
	c, err := NewCountryCode(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// Code returns the two-letter code.
func (c CountryCode) Code() string {
	return c.code
}

// String implements fmt.Stringer.
func (c CountryCode) String() string {
	return c.code
}

// Equals checks if two codes are the same.
func (c CountryCode) Equals(other CountryCode) bool {
	return c.code == other.code
}
