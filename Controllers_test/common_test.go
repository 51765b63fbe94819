package Controllers_test

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

// testClock pins "now" so the admission windows in these tests are
// deterministic.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

var ctrlNow = time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)

func newTestClock() utils.Clock { return &testClock{now: ctrlNow} }

var testDBSeq atomic.Int64

func openTestDB() *gorm.DB {
	utils.InitLogger()
	// A uniquely named shared in-memory database: every pooled
	// connection sees the same tables, and tests stay isolated.
	dsn := fmt.Sprintf("file:ctrl%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
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
		panic(err)
	}
	return db
}

// authAs stands in for the JWT middleware: it injects the user identity
// the way middlewares.AuthMiddleware does after parsing a token.
func authAs(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("role", role)
		c.Next()
	}
}

func createTestRestaurant(db *gorm.DB, maxReservation int) models.Restaurant {
	rest := models.Restaurant{
		Name:           "Somtum House",
		FoodType:       "Thai",
		Address:        "99 Sukhumvit Rd",
		Province:       "Bangkok",
		District:       "Watthana",
		PostalCode:     "10110",
		Tel:            "02-555-0199",
		OpenTime:       "10:00",
		CloseTime:      "22:00",
		Timezone:       "UTC",
		MaxReservation: maxReservation,
		Verified:       true,
	}
	if err := db.Create(&rest).Error; err != nil {
		panic(err)
	}
	return rest
}

func createTestUser(db *gorm.DB, email, role string) models.User {
	user := models.User{
		Name:     "Test User",
		Tel:      "081-000-0000",
		Email:    email,
		Password: "hashed-not-used",
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		panic(err)
	}
	return user
}

func createTestManager(db *gorm.DB, email string, restaurantID uint) models.User {
	manager := createTestUser(db, email, models.RoleManager)
	verified := true
	manager.Verified = &verified
	manager.RestaurantID = &restaurantID
	if err := db.Save(&manager).Error; err != nil {
		panic(err)
	}
	return manager
}
