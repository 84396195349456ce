package valueobjects

import (
	"strings"
	"time"

	"github.com/Haleralex/fundhub/internal/domain/errors"
)

// ISODateLayout is the only accepted date format.
const ISODateLayout = "2006-01-02"

// now is replaced in tests.
var now = time.Now

// Date errors. "Not ISO" (malformed string) and "invalid value" (wrong side of today) are
// different failures.
var (
	ErrDateNotISO              = errors.NewValidationError("date", "date_not_iso_format", "date must be in ISO 8601 format (YYYY-MM-DD)")
	ErrDeadlineNotInFuture     = errors.NewValidationError("deadline", "deadline_not_in_future", "deadline must be after today")
	ErrEstablishedDateInFuture = errors.NewValidationError("established_date", "established_date_in_future", "established date cannot be in the future")
)

// today returns the current calendar date at midnight UTC.
func today() time.Time {
	return truncateToDay(now())
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseISODate parses "YYYY-MM-DD". The error names the field it was parsed for.
func ParseISODate(field, raw string) (time.Time, error) {
	t, err := time.Parse(ISODateLayout, strings.TrimSpace(raw))
	if err != nil {
		e := ErrDateNotISO
		e.Field = field
		return time.Time{}, e
	}
	return t, nil
}

// DeadlineDate is the funding deadline of a project. It must be strictly after today;
// today itself is rejected.
type DeadlineDate struct {
	value time.Time
}

// NewDeadlineDate validates d against the current date.
func NewDeadlineDate(d time.Time) (DeadlineDate, error) {
	d = truncateToDay(d)
	if !d.After(today()) {
		return DeadlineDate{}, ErrDeadlineNotInFuture
	}
	return DeadlineDate{value: d}, nil
}

// ReconstructDeadlineDate restores a stored deadline without re-validating it.
func ReconstructDeadlineDate(d time.Time) DeadlineDate {
	return DeadlineDate{value: truncateToDay(d)}
}

// Time returns the date at midnight UTC.
func (d DeadlineDate) Time() time.Time {
	return d.value
}

// String returns the ISO representation.
func (d DeadlineDate) String() string {
	return d.value.Format(ISODateLayout)
}

// EstablishedDate is the registration date of a company. It must not be after today.
type EstablishedDate struct {
	value time.Time
}

// NewEstablishedDate validates d against the current date.
func NewEstablishedDate(d time.Time) (EstablishedDate, error) {
	d = truncateToDay(d)
	if d.After(today()) {
		return EstablishedDate{}, ErrEstablishedDateInFuture
	}
	return EstablishedDate{value: d}, nil
}

// ReconstructEstablishedDate restores a stored date without re-validating it.
func ReconstructEstablishedDate(d time.Time) EstablishedDate {
	return EstablishedDate{value: truncateToDay(d)}
}

// Time returns the date at midnight UTC.
func (d EstablishedDate) Time() time.Time {
	return d.value
}

// String returns the ISO representation.
func (d EstablishedDate) String() string {
	return d.value.Format(ISODateLayout)
}
