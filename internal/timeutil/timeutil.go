// Package timeutil implements the timezone normalization and due-timestamp
// resolution used across the API. All instants handed back to clients are
// expressed in one fixed civil timezone.
package timeutil

import (
	"fmt"
	"time"

	"github.com/harmonysync/backend/internal/domain/entities"
)

const (
	// DateLayout is the wire format of a civil due date.
	DateLayout = "2006-01-02"
	// TimeLayout is the wire format of a civil due time.
	TimeLayout = "15:04"

	dateTimeLayout = "2006-01-02 15:04"
	// naiveLayout matches ISO-8601 timestamps that carry no offset.
	naiveLayout = "2006-01-02T15:04:05"
)

// DefaultZone is the civil timezone all timestamps are normalized into
// unless configuration overrides it. UTC+4, no DST transitions.
const DefaultZone = "Europe/Saratov"

// LoadZone resolves a timezone name into a location.
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

// ResolveDue combines an optional civil date and an optional civil time into
// a single instant localized to loc.
//
//   - date and time → that date at that time
//   - date only     → midnight of that date
//   - time only     → today (evaluated in loc at now) at that time
//   - neither       → nil, no error
//
// A malformed component yields a ValidationError.
func ResolveDue(dueDate, dueTime string, now time.Time, loc *time.Location) (*time.Time, error) {
	switch {
	case dueDate != "" && dueTime != "":
		t, err := time.ParseInLocation(dateTimeLayout, dueDate+" "+dueTime, loc)
		if err != nil {
			return nil, entities.NewValidationError(
				fmt.Sprintf("invalid due date/time %q %q: expected %s %s", dueDate, dueTime, DateLayout, TimeLayout))
		}
		return &t, nil

	case dueDate != "":
		t, err := time.ParseInLocation(DateLayout, dueDate, loc)
		if err != nil {
			return nil, entities.NewValidationError(
				fmt.Sprintf("invalid due date %q: expected %s", dueDate, DateLayout))
		}
		return &t, nil

	case dueTime != "":
		clock, err := time.Parse(TimeLayout, dueTime)
		if err != nil {
			return nil, entities.NewValidationError(
				fmt.Sprintf("invalid due time %q: expected %s", dueTime, TimeLayout))
		}
		today := now.In(loc)
		t := time.Date(today.Year(), today.Month(), today.Day(),
			clock.Hour(), clock.Minute(), 0, 0, loc)
		return &t, nil

	default:
		return nil, nil
	}
}

// NormalizeISO converts an ISO-8601 timestamp, possibly Z-suffixed or carrying
// an explicit offset, into the equivalent instant in loc. A timestamp without
// any offset is assumed to be UTC before conversion. Malformed input yields a
// ValidationError.
func NormalizeISO(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), nil
	}
	if t, err := time.ParseInLocation(naiveLayout, value, time.UTC); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, entities.NewValidationError(
		fmt.Sprintf("invalid ISO-8601 timestamp %q", value))
}

// NormalizeDate validates an all-day event date and returns it unchanged.
// All-day dates have no time component, so there is nothing to shift.
func NormalizeDate(value string) (string, error) {
	if _, err := time.Parse(DateLayout, value); err != nil {
		return "", entities.NewValidationError(
			fmt.Sprintf("invalid date %q: expected %s", value, DateLayout))
	}
	return value, nil
}
