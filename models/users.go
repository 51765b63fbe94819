package models

import "time"

// User roles. Restaurant managers carry a verified flag and the
// restaurant they manage; both stay nil for regular users and admins.
const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleManager = "restaurantManager"
)

type User struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Name         string      `gorm:"type:varchar(255);not null" json:"name"`
	Tel          string      `gorm:"type:varchar(15);not null" json:"tel"`
	Email        string      `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password     string      `gorm:"type:varchar(255);not null" json:"-"`
	Role         string      `gorm:"type:varchar(32);not null;default:'user'" json:"role"`
	Verified     *bool       `json:"verified,omitempty"`
	RestaurantID *uint       `gorm:"index" json:"restaurant_id,omitempty"`
	Restaurant   *Restaurant `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`
	CreatedAt    time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"not null" json:"updated_at"`
}

// IsVerifiedManager reports whether the user is a restaurant manager
// that passed admin verification.
func (u *User) IsVerifiedManager() bool {
	return u.Role == RoleManager && u.Verified != nil && *u.Verified
}
