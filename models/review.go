package models

import "time"

type Review struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	User         User       `gorm:"foreignKey:UserID" json:"-"`
	RestaurantID uint       `gorm:"not null;index" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID" json:"-"`
	Rating       float64    `gorm:"not null" json:"rating"`
	Comment      string     `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
}
