package services

import (
	"time"
)

// minuteOfDay parses an "HH:MM" operating-hours bound into minutes
// since midnight.
func minuteOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// CheckWithinHours verifies that the reservation instant falls inside
// the restaurant's operating window. Only the hour:minute of day is
// compared, in the restaurant's local zone; the bounds are inclusive,
// so a reservation exactly at openTime or closeTime is accepted.
func CheckWithinHours(revDate time.Time, openTime, closeTime string, loc *time.Location) error {
	if openTime == "" || closeTime == "" {
		return Preconditionf("The opening hours are not defined")
	}

	open, err := minuteOfDay(openTime)
	if err != nil {
		return Validationf("Opening time must be in the format hh:mm")
	}
	closing, err := minuteOfDay(closeTime)
	if err != nil {
		return Validationf("Closing time must be in the format hh:mm")
	}

	local := revDate.In(loc)
	rev := local.Hour()*60 + local.Minute()

	if rev < open || rev > closing {
		return Validationf("Reservations are not available during the restaurant's closing hours")
	}
	return nil
}
