package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Notification creator kinds. System notifications (reservation
// reminders, cancellation notices) have no creator.
const (
	CreatedByAdmin   = "admin"
	CreatedByManager = "restaurantManager"
	CreatedBySystem  = "system"
)

// Broadcast audience literals.
const (
	audienceCustomers = "Customers"
	audienceManagers  = "RestaurantManagers"
	audienceAll       = "All"
)

// Audience is the notification target: either one of the broadcast
// literals (Customers, RestaurantManagers, All) or the identity of a
// single reservation for personal reminders. The shape is fixed at
// construction; it is stored as a single varchar column.
type Audience struct {
	broadcast     string
	reservationID uint
}

var (
	AudienceCustomers = Audience{broadcast: audienceCustomers}
	AudienceManagers  = Audience{broadcast: audienceManagers}
	AudienceAll       = Audience{broadcast: audienceAll}
)

// AudienceForReservation builds a reservation-targeted audience.
func AudienceForReservation(reservationID uint) Audience {
	return Audience{reservationID: reservationID}
}

// ParseAudience accepts one of the three broadcast literals or a
// numeric reservation identity. Anything else is rejected.
func ParseAudience(s string) (Audience, error) {
	switch s {
	case audienceCustomers:
		return AudienceCustomers, nil
	case audienceManagers:
		return AudienceManagers, nil
	case audienceAll:
		return AudienceAll, nil
	}
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return Audience{}, fmt.Errorf("invalid targetAudience %q", s)
	}
	return AudienceForReservation(uint(id)), nil
}

// IsBroadcast reports whether the audience is one of the role-based
// literals rather than a reservation target.
func (a Audience) IsBroadcast() bool { return a.broadcast != "" }

// ReservationID returns the targeted reservation identity, if any.
func (a Audience) ReservationID() (uint, bool) {
	if a.reservationID == 0 {
		return 0, false
	}
	return a.reservationID, true
}

func (a Audience) String() string {
	if a.broadcast != "" {
		return a.broadcast
	}
	return strconv.FormatUint(uint64(a.reservationID), 10)
}

// Value implements driver.Valuer.
func (a Audience) Value() (driver.Value, error) {
	if a.broadcast == "" && a.reservationID == 0 {
		return nil, fmt.Errorf("audience is not set")
	}
	return a.String(), nil
}

// Scan implements sql.Scanner.
func (a *Audience) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Audience", src)
	}
	parsed, err := ParseAudience(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (a Audience) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Audience) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAudience(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

type Notification struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Title     string `gorm:"type:varchar(100);not null" json:"title"`
	Message   string `gorm:"type:text;not null" json:"message"`
	CreatorID *uint  `gorm:"index" json:"creator_id,omitempty"`
	CreatedBy string `gorm:"type:varchar(32);not null" json:"created_by"`

	// Set when the notification was created by a restaurant manager;
	// used to populate the restaurant preview on listing.
	RestaurantID *uint       `gorm:"index" json:"restaurant_id,omitempty"`
	Restaurant   *Restaurant `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`

	TargetAudience Audience `gorm:"type:varchar(64);not null;index" json:"target_audience"`

	// PublishAt gates visibility: the notification is hidden from its
	// audience until this instant.
	PublishAt time.Time `gorm:"not null;index" json:"publish_at"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
