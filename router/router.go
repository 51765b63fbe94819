package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-reservation/controllers"
	"github.com/yeremiapane/restaurant-reservation/middlewares"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	clock := utils.SystemClock()
	reservationSvc := services.NewReservationService(db, clock)
	notificationSvc := services.NewNotificationService(db, clock)

	userCtrl := controllers.NewUserController(db)
	restaurantCtrl := controllers.NewRestaurantController(db, reservationSvc.Reminders, reservationSvc.Audit)
	reservationCtrl := controllers.NewReservationController(db, reservationSvc)
	reviewCtrl := controllers.NewReviewController(db)
	notificationCtrl := controllers.NewNotificationController(db, notificationSvc)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	v1 := r.Group("/api/v1")

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	auth := v1.Group("/auth")
	auth.Use(middlewares.NewStrictRateLimiter())
	{
		auth.POST("/register", userCtrl.Register)
		auth.POST("/login", userCtrl.Login)
	}

	v1.GET("/restaurants", restaurantCtrl.GetAllRestaurants)
	v1.GET("/restaurants/:restaurant_id", restaurantCtrl.GetRestaurantByID)
	v1.GET("/restaurants/:restaurant_id/reviews", reviewCtrl.GetReviewsByRestaurant)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	authed := v1.Group("/")
	authed.Use(middlewares.AuthMiddleware())
	{
		authed.GET("/auth/me", userCtrl.GetProfile)
		authed.GET("/auth/logout", userCtrl.Logout)

		// RESERVATIONS
		authed.GET("/reservations", reservationCtrl.GetAllReservations)
		authed.GET("/reservations/:reservation_id", reservationCtrl.GetReservationByID)
		authed.PUT("/reservations/:reservation_id", reservationCtrl.UpdateReservation)
		authed.DELETE("/reservations/:reservation_id", reservationCtrl.DeleteReservation)
		authed.POST("/restaurants/:restaurant_id/reservations", reservationCtrl.AddReservation)

		// REVIEWS
		authed.POST("/restaurants/:restaurant_id/reviews", reviewCtrl.CreateReview)

		// NOTIFICATIONS
		authed.GET("/notifications", notificationCtrl.GetNotifications)
		authed.POST("/notifications", notificationCtrl.CreateNotification)
		authed.DELETE("/notifications/:notif_id", notificationCtrl.DeleteNotification)

		// ADMIN
		admin := authed.Group("/")
		admin.Use(middlewares.RequireRoles(models.RoleAdmin))
		{
			admin.POST("/restaurants", restaurantCtrl.CreateRestaurant)
			admin.PUT("/restaurants/:restaurant_id", restaurantCtrl.UpdateRestaurant)
			admin.DELETE("/restaurants/:restaurant_id", restaurantCtrl.DeleteRestaurant)
			admin.PATCH("/users/:user_id/verify", userCtrl.VerifyManager)
		}
	}

	return r
}
