package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-reservation/models"
)

// CapacityCounter aggregates how many people are already booked at a
// restaurant on a given calendar day.
type CapacityCounter struct {
	DB *gorm.DB
}

func NewCapacityCounter(db *gorm.DB) *CapacityCounter {
	return &CapacityCounter{DB: db}
}

// DayBounds returns the [start, end) window of the calendar day that
// contains t in the given zone.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// ReservedCount sums numberOfPeople over all reservations for the
// restaurant whose revDate falls on the calendar day of `day`
// (restaurant-local). excludeID, when non-zero, removes one
// reservation from the count; callers pass the reservation being
// updated, and only when the update keeps the same calendar day.
func (cc *CapacityCounter) ReservedCount(restaurantID uint, day time.Time, loc *time.Location, excludeID uint) (int, error) {
	start, end := DayBounds(day, loc)

	q := cc.DB.Model(&models.Reservation{}).
		Where("restaurant_id = ? AND rev_date >= ? AND rev_date < ?", restaurantID, start, end)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var total int64
	if err := q.Select("COALESCE(SUM(number_of_people), 0)").Scan(&total).Error; err != nil {
		return 0, Internal("Cannot count reservations", err)
	}
	return int(total), nil
}
