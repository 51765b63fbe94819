package models

import "time"

type Reservation struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	RevDate        time.Time  `gorm:"not null;index" json:"rev_date"`
	UserID         uint       `gorm:"not null;index" json:"user_id"`
	User           User       `gorm:"foreignKey:UserID" json:"-"`
	RestaurantID   uint       `gorm:"not null;index" json:"restaurant_id"`
	Restaurant     Restaurant `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`
	NumberOfPeople int        `gorm:"not null;default:1" json:"number_of_people"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
}
