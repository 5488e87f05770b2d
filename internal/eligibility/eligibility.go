// Package eligibility holds the business rules a cleaning-quote request must
// pass before a decision link is issued.
package eligibility

import (
	"errors"
	"regexp"
	"time"
)

// MinLeadTime is the advance notice required before midnight of the service date.
const MinLeadTime = 72 * time.Hour

var (
	ErrRegionRejected       = errors.New("region not supported")
	ErrInvalidApartmentID   = errors.New("invalid apartment id")
	ErrInsufficientLeadTime = errors.New("insufficient lead time")
)

var (
	apartmentIDPattern = regexp.MustCompile(`^[A-Za-z0-9]{4,5}$`)
	datePattern        = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// CheckRegion accepts only an exact match of the supported region.
func CheckRegion(region, supported string) error {
	if region != supported {
		return ErrRegionRejected
	}
	return nil
}

// CheckApartmentID accepts 4 to 5 ASCII letters or digits.
func CheckApartmentID(id string) error {
	if !apartmentIDPattern.MatchString(id) {
		return ErrInvalidApartmentID
	}
	return nil
}

// CheckLeadTime accepts dateISO when midnight at the start of that date in loc
// is at least MinLeadTime after now. Malformed and past dates are rejected.
func CheckLeadTime(dateISO string, now time.Time, loc *time.Location) error {
	if !datePattern.MatchString(dateISO) {
		return ErrInsufficientLeadTime
	}
	if loc == nil {
		loc = time.Local
	}
	midnight, err := time.ParseInLocation(time.DateOnly, dateISO, loc)
	if err != nil {
		return ErrInsufficientLeadTime
	}
	if midnight.Sub(now) < MinLeadTime {
		return ErrInsufficientLeadTime
	}
	return nil
}

// Rules composes the checks for one supported region and reference timezone.
type Rules struct {
	Region   string
	Location *time.Location
}

// Check runs region, apartment id and lead time in that order and returns the
// first failure.
func (r Rules) Check(region, apartmentID, dateISO string, now time.Time) error {
	if err := CheckRegion(region, r.Region); err != nil {
		return err
	}
	if err := CheckApartmentID(apartmentID); err != nil {
		return err
	}
	return CheckLeadTime(dateISO, now, r.Location)
}
