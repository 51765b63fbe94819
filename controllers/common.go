package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

var ErrNoPermission = errors.New("you don't have permission to access this resource")

// respondServiceError maps a service failure to its HTTP status.
// Internal causes are logged, never sent to the caller.
func respondServiceError(c *gin.Context, err error) {
	se := services.AsServiceError(err)
	if se.Kind == services.KindInternal && se.Err != nil {
		utils.ErrorLogger.Printf("%s: %v", se.Message, se.Err)
	}
	utils.RespondError(c, se.HTTPStatus(), se)
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid "+name))
		return 0, false
	}
	return uint(id), true
}

// currentUser loads the authenticated user set by the auth middleware.
func currentUser(c *gin.Context, db *gorm.DB) (*models.User, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return nil, false
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user no longer exists"))
		return nil, false
	}
	return &user, true
}

// parseListQuery reads the select/sort/page/limit query params shared
// by the listing endpoints.
func parseListQuery(c *gin.Context) services.ListQuery {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return services.ListQuery{
		Select: c.Query("select"),
		Sort:   c.Query("sort"),
		Page:   page,
		Limit:  limit,
	}
}
