package models

import (
	"time"
)

type Restaurant struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(50);not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	FoodType    string `gorm:"type:varchar(50);not null" json:"food_type"`
	Address     string `gorm:"type:varchar(255);not null" json:"address"`
	Province    string `gorm:"type:varchar(100);not null" json:"province"`
	District    string `gorm:"type:varchar(100);not null" json:"district"`
	PostalCode  string `gorm:"type:varchar(5);not null" json:"postalcode"`
	Tel         string `gorm:"type:varchar(15);not null" json:"tel"`

	// Operating hours as "HH:MM" strings, closeTime strictly after
	// openTime. Reservations compare against these in the restaurant's
	// local timezone.
	OpenTime  string `gorm:"type:varchar(5);not null" json:"open_time"`
	CloseTime string `gorm:"type:varchar(5);not null" json:"close_time"`
	Timezone  string `gorm:"type:varchar(64)" json:"timezone,omitempty"`

	// MaxReservation caps the total number of people across all
	// reservations sharing one calendar day.
	MaxReservation int `gorm:"not null;default:0" json:"max_reservation"`

	Verified    bool      `gorm:"not null;default:false" json:"verified"`
	Rating      float64   `gorm:"not null;default:0" json:"rating"`
	ReviewCount int       `gorm:"not null;default:0" json:"review_count"`
	ImgPath     string    `gorm:"type:varchar(255)" json:"img_path,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// DefaultTimezone is used when a restaurant has no explicit zone.
const DefaultTimezone = "Asia/Bangkok"

// Location resolves the restaurant's timezone, falling back to the
// platform default and finally UTC if the zone cannot be loaded.
func (r *Restaurant) Location() *time.Location {
	name := r.Timezone
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
