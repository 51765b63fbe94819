package services

import (
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

// AdminLogger records admin actions for auditing. Logging is
// best-effort: a failure here must never fail the primary operation.
type AdminLogger interface {
	Log(adminID uint, action, resource string, resourceID uint)
}

type dbAdminLogger struct {
	db    *gorm.DB
	clock utils.Clock
}

func NewAdminLogger(db *gorm.DB, clock utils.Clock) AdminLogger {
	return &dbAdminLogger{db: db, clock: clock}
}

func (l *dbAdminLogger) Log(adminID uint, action, resource string, resourceID uint) {
	entry := models.AdminLog{
		AdminID:    adminID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Timestamp:  l.clock.Now(),
	}
	if err := l.db.Create(&entry).Error; err != nil {
		utils.ErrorLogger.Printf("Failed to log admin action: %v", err)
	}
}
