package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

type ReservationController struct {
	DB  *gorm.DB
	Svc *services.ReservationService
}

func NewReservationController(db *gorm.DB, svc *services.ReservationService) *ReservationController {
	return &ReservationController{DB: db, Svc: svc}
}

func restaurantPreview(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "province", "tel", "img_path")
}

// GetAllReservations -> regular users see their own; admin sees all,
// optionally scoped to one restaurant
func (rc *ReservationController) GetAllReservations(c *gin.Context) {
	role := c.GetString("role")
	userID := c.GetUint("userID")

	query := rc.DB.Model(&models.Reservation{}).Preload("Restaurant", restaurantPreview)
	if role != models.RoleAdmin {
		query = query.Where("user_id = ?", userID)
	} else if restaurantID := c.Query("restaurant_id"); restaurantID != "" {
		query = query.Where("restaurant_id = ?", restaurantID)
	}

	var reservations []models.Reservation
	if err := query.Order("rev_date asc").Find(&reservations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", reservations)
}

// GetReservationByID
func (rc *ReservationController) GetReservationByID(c *gin.Context) {
	id, ok := parseUintParam(c, "reservation_id")
	if !ok {
		return
	}

	var reservation models.Reservation
	err := rc.DB.Preload("Restaurant", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "province", "tel", "img_path",
			"max_reservation", "open_time", "close_time", "rating", "address", "district", "postal_code")
	}).First(&reservation, id).Error
	if err != nil {
		respondServiceError(c, services.NotFoundf("No reservation with the id of %d", id))
		return
	}

	role := c.GetString("role")
	if role != models.RoleAdmin && reservation.UserID != c.GetUint("userID") {
		respondServiceError(c, services.Authorizationf("User %d is not authorized to view this reservation", c.GetUint("userID")))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Reservation detail", reservation)
}

// AddReservation -> admission-controlled create under a restaurant
func (rc *ReservationController) AddReservation(c *gin.Context) {
	restaurantID, ok := parseUintParam(c, "restaurant_id")
	if !ok {
		return
	}

	type reqBody struct {
		RevDate        time.Time `json:"rev_date" binding:"required"`
		NumberOfPeople int       `json:"number_of_people" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Svc.AdmitCreate(c.GetUint("userID"), c.GetString("role"),
		restaurantID, body.RevDate, body.NumberOfPeople)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Reservation created", reservation)
}

// UpdateReservation -> re-validated against the merged fields
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	id, ok := parseUintParam(c, "reservation_id")
	if !ok {
		return
	}

	type reqBody struct {
		RevDate        *time.Time `json:"rev_date"`
		NumberOfPeople *int       `json:"number_of_people"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	changes := services.ReservationUpdate{
		RevDate:        body.RevDate,
		NumberOfPeople: body.NumberOfPeople,
	}
	reservation, err := rc.Svc.AdmitUpdate(id, changes, c.GetUint("userID"), c.GetString("role"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Reservation updated", reservation)
}

// DeleteReservation -> removes the reservation and its reminders
func (rc *ReservationController) DeleteReservation(c *gin.Context) {
	id, ok := parseUintParam(c, "reservation_id")
	if !ok {
		return
	}

	if err := rc.Svc.Delete(id, c.GetUint("userID"), c.GetString("role")); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Reservation deleted", gin.H{"reservation_id": id})
}
