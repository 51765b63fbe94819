package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

// reminderLead is how long before the reservation the reminder becomes
// visible.
const reminderLead = 24 * time.Hour

// ReminderService manages the system notifications tied to the
// reservation lifecycle: a reminder scheduled 24h before the
// reservation, rescheduled on update, removed on delete, and bulk
// cancellation notices when a restaurant goes away.
type ReminderService struct {
	DB    *gorm.DB
	Clock utils.Clock
}

func NewReminderService(db *gorm.DB, clock utils.Clock) *ReminderService {
	return &ReminderService{DB: db, Clock: clock}
}

// publishAtFor clamps revDate-24h to now so reminders for near-term
// reservations publish immediately instead of in the past.
func (s *ReminderService) publishAtFor(revDate time.Time) time.Time {
	publishAt := revDate.Add(-reminderLead)
	if now := s.Clock.Now(); publishAt.Before(now) {
		return now
	}
	return publishAt
}

func reminderMessage(rev *models.Reservation, rest *models.Restaurant) string {
	return fmt.Sprintf("Reminder: your reservation at %s for %d people is scheduled for %s.",
		rest.Name, rev.NumberOfPeople, rev.RevDate.UTC().Format("Mon, 02 Jan 2006 15:04 MST"))
}

// ScheduleReminder creates the reservation's reminder notification,
// targeted at the reservation identity.
func (s *ReminderService) ScheduleReminder(rev *models.Reservation, rest *models.Restaurant) error {
	notif := models.Notification{
		Title:          "Reservation reminder",
		Message:        reminderMessage(rev, rest),
		CreatedBy:      models.CreatedBySystem,
		RestaurantID:   &rest.ID,
		TargetAudience: models.AudienceForReservation(rev.ID),
		PublishAt:      s.publishAtFor(rev.RevDate),
		CreatedAt:      s.Clock.Now(),
	}
	if err := s.DB.Create(&notif).Error; err != nil {
		return Internal("Cannot schedule the reservation reminder", err)
	}
	return nil
}

// RescheduleReminder recomputes the reminder after a reservation
// update. Idempotent: an existing reminder is overwritten, never
// duplicated; a missing one is created.
func (s *ReminderService) RescheduleReminder(rev *models.Reservation, rest *models.Restaurant) error {
	var existing models.Notification
	err := s.DB.
		Where("target_audience = ?", models.AudienceForReservation(rev.ID).String()).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.ScheduleReminder(rev, rest)
	}
	if err != nil {
		return Internal("Cannot look up the reservation reminder", err)
	}

	updates := map[string]interface{}{
		"message":    reminderMessage(rev, rest),
		"publish_at": s.publishAtFor(rev.RevDate),
	}
	if err := s.DB.Model(&existing).Updates(updates).Error; err != nil {
		return Internal("Cannot reschedule the reservation reminder", err)
	}
	return nil
}

// CancelReminders removes every notification targeted at the
// reservation. Called before the reservation itself is deleted.
func (s *ReminderService) CancelReminders(reservationID uint) error {
	err := s.DB.
		Where("target_audience = ?", models.AudienceForReservation(reservationID).String()).
		Delete(&models.Notification{}).Error
	if err != nil {
		return Internal("Cannot delete the reservation notifications", err)
	}
	return nil
}

// CancelForRestaurant handles a restaurant removal: the linked
// reminders are dropped and each affected reservation gets a
// cancellation notice publishing immediately. The notices survive the
// reservation cascade so the store keeps a record of who was notified.
func (s *ReminderService) CancelForRestaurant(rest *models.Restaurant, affected []models.Reservation) error {
	if len(affected) == 0 {
		return nil
	}

	targets := make([]string, 0, len(affected))
	for _, rev := range affected {
		targets = append(targets, models.AudienceForReservation(rev.ID).String())
	}
	if err := s.DB.Where("target_audience IN ?", targets).Delete(&models.Notification{}).Error; err != nil {
		return Internal("Cannot delete the reservation notifications", err)
	}

	now := s.Clock.Now()
	notices := make([]models.Notification, 0, len(affected))
	for _, rev := range affected {
		notices = append(notices, models.Notification{
			Title: "Reservation cancelled",
			Message: fmt.Sprintf("Your reservation at %s on %s has been cancelled because the restaurant was removed.",
				rest.Name, rev.RevDate.UTC().Format("Mon, 02 Jan 2006 15:04 MST")),
			CreatedBy:      models.CreatedBySystem,
			TargetAudience: models.AudienceForReservation(rev.ID),
			PublishAt:      now,
			CreatedAt:      now,
		})
	}
	if err := s.DB.CreateInBatches(&notices, 100).Error; err != nil {
		return Internal("Cannot create the cancellation notices", err)
	}

	utils.InfoLogger.Printf("Cancelled %d reservations for restaurant %d", len(affected), rest.ID)
	return nil
}
