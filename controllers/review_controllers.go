package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

type ReviewController struct {
	DB *gorm.DB
}

func NewReviewController(db *gorm.DB) *ReviewController {
	return &ReviewController{DB: db}
}

// GetReviewsByRestaurant
func (rc *ReviewController) GetReviewsByRestaurant(c *gin.Context) {
	restaurantID, ok := parseUintParam(c, "restaurant_id")
	if !ok {
		return
	}

	var reviews []models.Review
	err := rc.DB.Where("restaurant_id = ?", restaurantID).
		Order("created_at desc").
		Find(&reviews).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of reviews", reviews)
}

// CreateReview -> stores the review and refreshes the restaurant's
// rating aggregate
func (rc *ReviewController) CreateReview(c *gin.Context) {
	restaurantID, ok := parseUintParam(c, "restaurant_id")
	if !ok {
		return
	}

	type reqBody struct {
		Rating  float64 `json:"rating" binding:"required,min=0,max=5"`
		Comment string  `json:"comment"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, restaurantID).Error; err != nil {
		respondServiceError(c, services.NotFoundf("No restaurant with the id of %d", restaurantID))
		return
	}

	review := models.Review{
		UserID:       c.GetUint("userID"),
		RestaurantID: restaurantID,
		Rating:       body.Rating,
		Comment:      body.Comment,
	}

	err := rc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		type aggregate struct {
			Avg   float64
			Count int64
		}
		var agg aggregate
		err := tx.Model(&models.Review{}).
			Where("restaurant_id = ?", restaurantID).
			Select("AVG(rating) as avg, COUNT(*) as count").
			Scan(&agg).Error
		if err != nil {
			return err
		}

		return tx.Model(&restaurant).Updates(map[string]interface{}{
			"rating":       agg.Avg,
			"review_count": agg.Count,
		}).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Review created", review)
}
