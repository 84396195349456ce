package valueobjects

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/Haleralex/fundhub/internal/domain/errors"
)

// AmountScale is the number of decimal places kept for money amounts (NUMERIC(14,2) in storage).
const AmountScale = 2

// Validation errors for money amounts.
var (
	ErrAmountInvalid      = errors.NewValidationError("amount", "amount_invalid", "amount is not a decimal number")
	ErrAmountNegative     = errors.NewValidationError("amount", "amount_negative", "amount cannot be negative")
	ErrAmountPrecision    = errors.NewValidationError("amount", "amount_precision", fmt.Sprintf("amount must have at most %d decimal places", AmountScale))
	ErrGoalSumInvalid     = errors.NewValidationError("goal_sum", "goal_sum_invalid", "goal sum is not a decimal number")
	ErrGoalSumNotPositive = errors.NewValidationError("goal_sum", "goal_sum_not_positive", "goal sum must be greater than zero")
)

// Amount is a non-negative decimal sum of money.
// Uses big.Rat for exact decimal arithmetic.
//
// Value Object Pattern:
// - Immutable: Add returns a new Amount
// - Self-validating: cannot hold a negative value
type Amount struct {
	value *big.Rat
}

// NewAmount parses a decimal string such as "100", "100.5" or "0.01".
func NewAmount(raw string) (Amount, error) {
	r, err := parseDecimal(raw, ErrAmountInvalid)
	if err != nil {
		return Amount{}, err
	}
	if r.Sign() < 0 {
		return Amount{}, ErrAmountNegative
	}
	if !fitsScale(r) {
		return Amount{}, ErrAmountPrecision
	}
	return Amount{value: r}, nil
}

// ZeroAmount returns an amount equal to zero.
func ZeroAmount() Amount {
	return Amount{value: new(big.Rat)}
}

// Rat returns a copy of the underlying value.
func (a Amount) Rat() *big.Rat {
	if a.value == nil {
		return new(big.Rat)
	}
	return new(big.Rat).Set(a.value)
}

// String returns the amount with AmountScale decimal places, e.g. "100.00".
func (a Amount) String() string {
	return a.Rat().FloatString(AmountScale)
}

// Add returns the sum of two amounts.
func (a Amount) Add(other Amount) Amount {
	return Amount{value: new(big.Rat).Add(a.Rat(), other.Rat())}
}

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool {
	return a.Rat().Sign() == 0
}

// Equals compares two amounts by value.
func (a Amount) Equals(other Amount) bool {
	return a.Rat().Cmp(other.Rat()) == 0
}

// GoalSum is the funding target of a project. It must be strictly positive.
type GoalSum struct {
	amount Amount
}

// NewGoalSum parses raw and rejects zero and negative values.
func NewGoalSum(raw string) (GoalSum, error) {
	r, err := parseDecimal(raw, ErrGoalSumInvalid)
	if err != nil {
		return GoalSum{}, err
	}
	if r.Sign() <= 0 {
		return GoalSum{}, ErrGoalSumNotPositive
	}
	if !fitsScale(r) {
		return GoalSum{}, ErrAmountPrecision
	}
	return GoalSum{amount: Amount{value: r}}, nil
}

// Amount returns the goal as a plain Amount.
func (g GoalSum) Amount() Amount {
	return g.amount
}

// String returns the goal with AmountScale decimal places.
func (g GoalSum) String() string {
	return g.amount.String()
}

var decimalPattern = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)

func parseDecimal(raw string, errInvalid error) (*big.Rat, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errInvalid
	}
	// big.Rat also accepts fractions, exponents, base prefixes and "_" separators
	if !decimalPattern.MatchString(raw) {
		return nil, errInvalid
	}
	r, ok := new(big.Rat).SetString(raw)
	if !ok {
		return nil, errInvalid
	}
	return r, nil
}

func fitsScale(r *big.Rat) bool {
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(AmountScale), nil)
	scaled := new(big.Rat).Mul(r, new(big.Rat).SetInt(unit))
	return scaled.IsInt()
}
