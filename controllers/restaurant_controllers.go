package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

type RestaurantController struct {
	DB        *gorm.DB
	Reminders *services.ReminderService
	Audit     services.AdminLogger
}

func NewRestaurantController(db *gorm.DB, reminders *services.ReminderService, audit services.AdminLogger) *RestaurantController {
	return &RestaurantController{DB: db, Reminders: reminders, Audit: audit}
}

// GetAllRestaurants -> paginated public listing; only admins see
// unverified restaurants
func (rc *RestaurantController) GetAllRestaurants(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 25
	}

	query := rc.DB.Model(&models.Restaurant{})
	if c.GetString("role") != models.RoleAdmin {
		query = query.Where("verified = ?", true)
	}
	if province := c.Query("province"); province != "" {
		query = query.Where("province = ?", province)
	}
	if foodType := c.Query("food_type"); foodType != "" {
		query = query.Where("food_type = ?", foodType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var restaurants []models.Restaurant
	err := query.Order("created_at desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&restaurants).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondPaged(c, http.StatusOK, "List of restaurants",
		len(restaurants), total, utils.BuildPagination(page, limit, total), restaurants)
}

// GetRestaurantByID
func (rc *RestaurantController) GetRestaurantByID(c *gin.Context) {
	id, ok := parseUintParam(c, "restaurant_id")
	if !ok {
		return
	}

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, id).Error; err != nil {
		respondServiceError(c, services.NotFoundf("No restaurant with the id of %d", id))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Restaurant detail", restaurant)
}

// CreateRestaurant -> admin only
func (rc *RestaurantController) CreateRestaurant(c *gin.Context) {
	var restaurant models.Restaurant
	if err := c.ShouldBindJSON(&restaurant); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := validateHoursConfig(restaurant.OpenTime, restaurant.CloseTime); err != nil {
		respondServiceError(c, err)
		return
	}

	if err := rc.DB.Create(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	rc.Audit.Log(c.GetUint("userID"), "Create", "Restaurant", restaurant.ID)
	utils.RespondJSON(c, http.StatusCreated, "Restaurant created", restaurant)
}

// UpdateRestaurant -> admin only
func (rc *RestaurantController) UpdateRestaurant(c *gin.Context) {
	id, ok := parseUintParam(c, "restaurant_id")
	if !ok {
		return
	}

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, id).Error; err != nil {
		respondServiceError(c, services.NotFoundf("No restaurant with the id of %d", id))
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	// Derived fields are never written directly
	delete(updates, "id")
	delete(updates, "rating")
	delete(updates, "review_count")

	open := restaurant.OpenTime
	closing := restaurant.CloseTime
	if v, ok := updates["open_time"].(string); ok {
		open = v
	}
	if v, ok := updates["close_time"].(string); ok {
		closing = v
	}
	if err := validateHoursConfig(open, closing); err != nil {
		respondServiceError(c, err)
		return
	}

	if err := rc.DB.Model(&restaurant).Updates(updates).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	rc.Audit.Log(c.GetUint("userID"), "Update", "Restaurant", restaurant.ID)
	utils.RespondJSON(c, http.StatusOK, "Restaurant updated", restaurant)
}

// DeleteRestaurant -> admin only; notifies affected users, then
// cascades over reservations, reviews, manager notifications and the
// manager account
func (rc *RestaurantController) DeleteRestaurant(c *gin.Context) {
	id, ok := parseUintParam(c, "restaurant_id")
	if !ok {
		return
	}

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, id).Error; err != nil {
		respondServiceError(c, services.NotFoundf("Restaurant not found with id of %d", id))
		return
	}

	var affected []models.Reservation
	if err := rc.DB.Where("restaurant_id = ?", id).Find(&affected).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := rc.Reminders.CancelForRestaurant(&restaurant, affected); err != nil {
		respondServiceError(c, err)
		return
	}

	err := rc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("restaurant_id = ?", id).Delete(&models.Reservation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("restaurant_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}

		// Manager-created notifications go away with the restaurant
		var managers []models.User
		if err := tx.Where("role = ? AND restaurant_id = ?", models.RoleManager, id).Find(&managers).Error; err != nil {
			return err
		}
		for _, m := range managers {
			if err := tx.Where("creator_id = ? AND created_by = ?", m.ID, models.CreatedByManager).
				Delete(&models.Notification{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("role = ? AND restaurant_id = ?", models.RoleManager, id).Delete(&models.User{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Restaurant{}, id).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	rc.Audit.Log(c.GetUint("userID"), "Delete", "Restaurant", id)
	utils.RespondJSON(c, http.StatusOK, "Restaurant deleted", gin.H{"restaurant_id": id})
}

// validateHoursConfig rejects malformed operating hours at write time
// so admission control can rely on them later.
func validateHoursConfig(openTime, closeTime string) error {
	if openTime == "" || closeTime == "" {
		return services.Validationf("Please add opening and closing times")
	}
	if len(openTime) != 5 || len(closeTime) != 5 || openTime[2] != ':' || closeTime[2] != ':' {
		return services.Validationf("Opening hours must be in the format hh:mm")
	}
	open, errOpen := strconv.Atoi(openTime[:2] + openTime[3:])
	closing, errClose := strconv.Atoi(closeTime[:2] + closeTime[3:])
	if errOpen != nil || errClose != nil {
		return services.Validationf("Opening hours must be in the format hh:mm")
	}
	if closing <= open {
		return services.Validationf("Closing time must be after opening time")
	}
	return nil
}
