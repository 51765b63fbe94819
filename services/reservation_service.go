package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

const (
	// Non-admin users may hold at most this many reservations on one
	// calendar day, across all restaurants.
	maxReservationsPerDay = 3

	// Minimum spacing between a user's reservations. The window is
	// open: exactly one hour apart is allowed.
	minReservationGap = time.Hour

	// Non-admin users cannot edit or delete a reservation this close
	// to its scheduled time.
	editLockWindow = time.Hour

	// Layout matching the date wording of capacity/quota rejections.
	dateStringLayout = "Mon Jan 02 2006"
)

// ReservationUpdate carries the requested changes of an update; nil
// fields keep the existing value.
type ReservationUpdate struct {
	RevDate        *time.Time
	NumberOfPeople *int
}

// ReservationService is the admission controller for reservation
// create/update/delete requests: capacity, opening hours, per-user
// daily cap and minimum-gap rules, plus the reminder hand-off.
type ReservationService struct {
	DB        *gorm.DB
	Clock     utils.Clock
	Reminders *ReminderService
	Audit     AdminLogger
}

func NewReservationService(db *gorm.DB, clock utils.Clock) *ReservationService {
	return &ReservationService{
		DB:        db,
		Clock:     clock,
		Reminders: NewReminderService(db, clock),
		Audit:     NewAdminLogger(db, clock),
	}
}

func (s *ReservationService) loadRestaurant(id uint) (*models.Restaurant, error) {
	var rest models.Restaurant
	if err := s.DB.First(&rest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("No restaurant with the id of %d", id)
		}
		return nil, Internal("Cannot find restaurant", err)
	}
	return &rest, nil
}

// AdmitCreate runs the full admission pipeline and, on success,
// persists the reservation and schedules its reminder.
func (s *ReservationService) AdmitCreate(userID uint, role string, restaurantID uint, revDate time.Time, people int) (*models.Reservation, error) {
	rest, err := s.loadRestaurant(restaurantID)
	if err != nil {
		return nil, err
	}
	if !rest.Verified {
		return nil, Preconditionf("Restaurant %s is not verified to accept reservations", rest.Name)
	}

	if people < 1 {
		return nil, Validationf("At least one person is required for a reservation")
	}
	now := s.Clock.Now()
	if revDate.Before(now) {
		return nil, Validationf("Reservation date cannot be in the past")
	}

	loc := rest.Location()
	if err := CheckWithinHours(revDate, rest.OpenTime, rest.CloseTime, loc); err != nil {
		return nil, err
	}

	var created models.Reservation
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		// The capacity/quota/gap reads and the insert share one
		// transaction; concurrent admissions against the same
		// restaurant/day still race on engines that do not lock the
		// aggregated rows. A SELECT ... FOR UPDATE on the restaurant
		// row would serialize them fully.
		if err := s.checkCapacity(tx, rest, revDate, loc, people, 0); err != nil {
			return err
		}
		if err := s.checkDailyQuota(tx, userID, role, revDate, loc, 0); err != nil {
			return err
		}
		if err := s.checkGap(tx, userID, revDate, 0); err != nil {
			return err
		}

		created = models.Reservation{
			RevDate:        revDate.UTC(),
			UserID:         userID,
			RestaurantID:   rest.ID,
			NumberOfPeople: people,
			CreatedAt:      now,
		}
		if err := tx.Create(&created).Error; err != nil {
			return Internal("Cannot create Reservation", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, AsServiceError(txErr)
	}

	if err := s.Reminders.ScheduleReminder(&created, rest); err != nil {
		return nil, err
	}
	if role == models.RoleAdmin {
		s.Audit.Log(userID, "Create", "Reservation", created.ID)
	}
	return &created, nil
}

// AdmitUpdate re-validates the reservation with the requested changes
// merged over the existing fields, then persists and reschedules the
// reminder.
func (s *ReservationService) AdmitUpdate(reservationID uint, changes ReservationUpdate, userID uint, role string) (*models.Reservation, error) {
	var rev models.Reservation
	if err := s.DB.First(&rev, reservationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("No reservation with the id of %d", reservationID)
		}
		return nil, Internal("Cannot find reservation", err)
	}

	rest, err := s.loadRestaurant(rev.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !rest.Verified {
		return nil, Preconditionf("Restaurant %s is not verified to accept reservations", rest.Name)
	}

	newDate := rev.RevDate
	if changes.RevDate != nil {
		newDate = changes.RevDate.UTC()
	}
	newPeople := rev.NumberOfPeople
	if changes.NumberOfPeople != nil {
		newPeople = *changes.NumberOfPeople
	}
	if newPeople < 1 {
		return nil, Validationf("At least one person is required for a reservation")
	}

	loc := rest.Location()
	if err := CheckWithinHours(newDate, rest.OpenTime, rest.CloseTime, loc); err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		// Exclude this reservation from the capacity sum only when it
		// stays on the same calendar day; a moved reservation frees
		// the old day and competes fresh on the new one.
		excludeID := uint(0)
		oldStart, _ := DayBounds(rev.RevDate, loc)
		newStart, _ := DayBounds(newDate, loc)
		if oldStart.Equal(newStart) {
			excludeID = rev.ID
		}
		if err := s.checkCapacity(tx, rest, newDate, loc, newPeople, excludeID); err != nil {
			return err
		}
		if err := s.checkDailyQuota(tx, userID, role, newDate, loc, rev.ID); err != nil {
			return err
		}
		if err := s.checkGap(tx, userID, newDate, rev.ID); err != nil {
			return err
		}

		if rev.UserID != userID && role != models.RoleAdmin {
			return Authorizationf("User %d is not authorized to update this reservation", userID)
		}
		// The lock window is measured against the currently scheduled
		// time, not the requested one.
		if role != models.RoleAdmin && rev.RevDate.Sub(now) <= editLockWindow {
			return TooLatef("You cannot update the reservation within 1 hour of the scheduled time")
		}

		rev.RevDate = newDate
		rev.NumberOfPeople = newPeople
		if err := tx.Save(&rev).Error; err != nil {
			return Internal("Cannot update the reservation", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, AsServiceError(txErr)
	}

	if err := s.Reminders.RescheduleReminder(&rev, rest); err != nil {
		return nil, err
	}
	if role == models.RoleAdmin {
		s.Audit.Log(userID, "Update", "Reservation", rev.ID)
	}
	return &rev, nil
}

// Delete removes a reservation along with every notification targeted
// at it.
func (s *ReservationService) Delete(reservationID uint, userID uint, role string) error {
	var rev models.Reservation
	if err := s.DB.First(&rev, reservationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundf("No reservation with the id of %d", reservationID)
		}
		return Internal("Cannot find reservation", err)
	}

	now := s.Clock.Now()
	if role != models.RoleAdmin && rev.RevDate.Sub(now) <= editLockWindow {
		return TooLatef("You cannot delete the reservation within 1 hour of the scheduled time")
	}
	if rev.UserID != userID && role != models.RoleAdmin {
		return Authorizationf("User %d is not authorized to delete this reservation", userID)
	}

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		reminders := NewReminderService(tx, s.Clock)
		if err := reminders.CancelReminders(rev.ID); err != nil {
			return err
		}
		if err := tx.Delete(&models.Reservation{}, rev.ID).Error; err != nil {
			return Internal("Cannot delete the reservation", err)
		}
		return nil
	})
	if txErr != nil {
		return AsServiceError(txErr)
	}

	if role == models.RoleAdmin {
		s.Audit.Log(userID, "Delete", "Reservation", rev.ID)
	}
	return nil
}

func (s *ReservationService) checkCapacity(tx *gorm.DB, rest *models.Restaurant, revDate time.Time, loc *time.Location, people int, excludeID uint) error {
	counter := NewCapacityCounter(tx)
	reserved, err := counter.ReservedCount(rest.ID, revDate, loc, excludeID)
	if err != nil {
		return err
	}
	if reserved+people > rest.MaxReservation {
		return Capacityf("Not enough reservation slots available. Only %d slots left for %s",
			rest.MaxReservation-reserved, revDate.In(loc).Format(dateStringLayout))
	}
	return nil
}

func (s *ReservationService) checkDailyQuota(tx *gorm.DB, userID uint, role string, revDate time.Time, loc *time.Location, excludeID uint) error {
	if role == models.RoleAdmin {
		return nil
	}

	start, end := DayBounds(revDate, loc)
	q := tx.Model(&models.Reservation{}).
		Where("user_id = ? AND rev_date >= ? AND rev_date < ?", userID, start, end)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return Internal("Cannot count reservations", err)
	}
	if count >= maxReservationsPerDay {
		return Quotaf("The user with id %d has already made %d reservations on %s",
			userID, maxReservationsPerDay, revDate.In(loc).Format(dateStringLayout))
	}
	return nil
}

// checkGap enforces the spacing rule against every reservation the
// user holds, at any restaurant. The conflict window around each
// existing reservation is open, so exactly one hour apart passes.
func (s *ReservationService) checkGap(tx *gorm.DB, userID uint, revDate time.Time, excludeID uint) error {
	var existing []models.Reservation
	if err := tx.Where("user_id = ?", userID).Find(&existing).Error; err != nil {
		return Internal("Cannot find reservations", err)
	}

	for _, r := range existing {
		if r.ID == excludeID {
			continue
		}
		diff := revDate.Sub(r.RevDate)
		if diff < 0 {
			diff = -diff
		}
		if diff < minReservationGap {
			return Conflictf("Please ensure there is at least 1 hour gap between reservations.")
		}
	}
	return nil
}
