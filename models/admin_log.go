package models

import "time"

// AdminLog is an append-only audit record of admin actions. The
// application writes these but never reads them back.
type AdminLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AdminID    uint      `gorm:"not null;index" json:"admin_id"`
	Action     string    `gorm:"type:varchar(32);not null" json:"action"`
	Resource   string    `gorm:"type:varchar(32);not null" json:"resource"`
	ResourceID uint      `gorm:"not null" json:"resource_id"`
	Timestamp  time.Time `gorm:"not null" json:"timestamp"`
}
