package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

type NotificationController struct {
	DB  *gorm.DB
	Svc *services.NotificationService
}

func NewNotificationController(db *gorm.DB, svc *services.NotificationService) *NotificationController {
	return &NotificationController{DB: db, Svc: svc}
}

// GetNotifications -> the audience-resolved, paginated listing
func (nc *NotificationController) GetNotifications(c *gin.Context) {
	user, ok := currentUser(c, nc.DB)
	if !ok {
		return
	}

	page, err := nc.Svc.VisibleNotifications(user, parseListQuery(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondPaged(c, http.StatusOK, "List of notifications",
		page.Count, page.Total, page.Pagination, page.Items)
}

// CreateNotification -> admin broadcast or manager customer post
func (nc *NotificationController) CreateNotification(c *gin.Context) {
	user, ok := currentUser(c, nc.DB)
	if !ok {
		return
	}

	type reqBody struct {
		Title          string     `json:"title" binding:"required"`
		Message        string     `json:"message" binding:"required"`
		TargetAudience string     `json:"target_audience"`
		PublishAt      *time.Time `json:"publish_at"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	notif, err := nc.Svc.Create(user, services.NotificationInput{
		Title:          body.Title,
		Message:        body.Message,
		TargetAudience: body.TargetAudience,
		PublishAt:      body.PublishAt,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Notification created: %v", notif.Title)
	utils.RespondJSON(c, http.StatusCreated, "Notification created", notif)
}

// DeleteNotification -> creator or admin only
func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	user, ok := currentUser(c, nc.DB)
	if !ok {
		return
	}

	id, ok := parseUintParam(c, "notif_id")
	if !ok {
		return
	}

	if err := nc.Svc.Delete(id, user); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notification deleted", gin.H{"notif_id": id})
}
