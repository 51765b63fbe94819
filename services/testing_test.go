package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

// fakeClock pins "now" for deterministic cutoff and publish checks.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

var testDBSeq atomic.Int64

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	// A uniquely named shared in-memory database: every pooled
	// connection sees the same tables, and tests stay isolated.
	dsn := fmt.Sprintf("file:svc%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.Reservation{},
		&models.Review{},
		&models.Notification{},
		&models.AdminLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedRestaurant(t *testing.T, db *gorm.DB, maxReservation int) *models.Restaurant {
	t.Helper()
	rest := models.Restaurant{
		Name:           "Test Bistro",
		FoodType:       "Thai",
		Address:        "1 Main Rd",
		Province:       "Bangkok",
		District:       "Pathumwan",
		PostalCode:     "10330",
		Tel:            "02-123-4567",
		OpenTime:       "10:00",
		CloseTime:      "22:00",
		Timezone:       "UTC",
		MaxReservation: maxReservation,
		Verified:       true,
	}
	if err := db.Create(&rest).Error; err != nil {
		t.Fatalf("failed to seed restaurant: %v", err)
	}
	return &rest
}

func seedUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	user := models.User{
		Name:     "Test User",
		Tel:      "081-000-0000",
		Email:    role + "-" + time.Now().Format("150405.000000000") + "@example.com",
		Password: "secretsecret",
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return &user
}

func seedReservation(t *testing.T, db *gorm.DB, userID, restaurantID uint, revDate time.Time, people int) *models.Reservation {
	t.Helper()
	rev := models.Reservation{
		RevDate:        revDate,
		UserID:         userID,
		RestaurantID:   restaurantID,
		NumberOfPeople: people,
	}
	if err := db.Create(&rev).Error; err != nil {
		t.Fatalf("failed to seed reservation: %v", err)
	}
	return &rev
}
