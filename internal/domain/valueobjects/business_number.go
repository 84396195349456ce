package valueobjects

import (
	"regexp"
	"strings"

	"github.com/Haleralex/fundhub/internal/domain/errors"
)

// Validation errors for business registration numbers.
var (
	ErrBusinessNumberEmpty   = errors.NewValidationError("business_number", "business_number_empty", "business number must not be empty")
	ErrBusinessNumberInvalid = errors.NewValidationError("business_number", "business_number_invalid", "business number has an invalid format for the country")
)

// BusinessNumberStrategy validates a registration number for one country.
type BusinessNumberStrategy interface {
	Validate(value string) error
}

// BusinessNumberStrategyFunc adapts a function to BusinessNumberStrategy.
type BusinessNumberStrategyFunc func(value string) error

// Validate calls f(value).
func (f BusinessNumberStrategyFunc) Validate(value string) error {
	return f(value)
}

var kzBINRegex = regexp.MustCompile(`^\d{12}$`)

// kazakhstanBIN requires exactly twelve digits (BIN/IIN).
var kazakhstanBIN = BusinessNumberStrategyFunc(func(value string) error {
	if !kzBINRegex.MatchString(value) {
		return ErrBusinessNumberInvalid
	}
	return nil
})

// acceptAny is used for countries without a dedicated format.
var acceptAny = BusinessNumberStrategyFunc(func(string) error { return nil })

// businessNumberStrategies maps a country code to its strategy.
// New countries are added here without touching NewBusinessNumber.
var businessNumberStrategies = map[string]BusinessNumberStrategy{
	CountryKZ.Code(): kazakhstanBIN,
}

// StrategyFor returns the validation strategy of a country.
func StrategyFor(country CountryCode) BusinessNumberStrategy {
	if s, ok := businessNumberStrategies[country.Code()]; ok {
		return s
	}
	return acceptAny
}

// BusinessNumber is a company registration number valid for its country.
type BusinessNumber struct {
	country CountryCode
	value   string
}

// NewBusinessNumber dispatches validation to the strategy of the given country.
func NewBusinessNumber(country CountryCode, raw string) (BusinessNumber, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return BusinessNumber{}, ErrBusinessNumberEmpty
	}
	if err := StrategyFor(country).Validate(value); err != nil {
		return BusinessNumber{}, err
	}
	return BusinessNumber{country: country, value: value}, nil
}

// ReconstructBusinessNumber hydrates a stored number without validation.
func ReconstructBusinessNumber(country CountryCode, value string) BusinessNumber {
	return BusinessNumber{country: country, value: value}
}

// Country returns the issuing country.
func (b BusinessNumber) Country() CountryCode {
	return b.country
}

// Value returns the number.
func (b BusinessNumber) Value() string {
	return b.value
}

// String implements fmt.Stringer.
func (b BusinessNumber) String() string {
	return b.value
}
