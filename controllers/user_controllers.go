package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// Register -> create a user account (customer or restaurant manager)
func (uc *UserController) Register(c *gin.Context) {
	type reqBody struct {
		Name         string `json:"name" binding:"required"`
		Tel          string `json:"tel" binding:"required"`
		Email        string `json:"email" binding:"required,email"`
		Password     string `json:"password" binding:"required,min=8"`
		Role         string `json:"role"`
		RestaurantID *uint  `json:"restaurant_id"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	role := body.Role
	if role == "" {
		role = models.RoleUser
	}
	// Admins are seeded, never self-registered
	if role != models.RoleUser && role != models.RoleManager {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid role"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Name:     body.Name,
		Tel:      body.Tel,
		Email:    strings.ToLower(body.Email),
		Password: string(hashed),
		Role:     role,
	}
	if role == models.RoleManager {
		// Managers start unverified and cannot publish until an admin
		// flips the flag.
		unverified := false
		user.Verified = &unverified
		user.RestaurantID = body.RestaurantID
	}

	if err := uc.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "User registered", gin.H{
		"user":  user,
		"token": token,
	})
}

// Login -> verify credentials, issue a JWT
func (uc *UserController) Login(c *gin.Context) {
	type reqBody struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("email = ?", strings.ToLower(body.Email)).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"user":  user,
		"token": token,
	})
}

// GetProfile -> the authenticated user's own record
func (uc *UserController) GetProfile(c *gin.Context) {
	user, ok := currentUser(c, uc.DB)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User profile", user)
}

// Logout -> blacklist the presented token until it expires
func (uc *UserController) Logout(c *gin.Context) {
	tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if tokenString != "" {
		utils.BlacklistToken(tokenString)
	}
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// VerifyManager -> admin marks a restaurant manager as verified
func (uc *UserController) VerifyManager(c *gin.Context) {
	userID, ok := parseUintParam(c, "user_id")
	if !ok {
		return
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if user.Role != models.RoleManager {
		utils.RespondError(c, http.StatusBadRequest, errors.New("user is not a restaurant manager"))
		return
	}

	verified := true
	user.Verified = &verified
	if err := uc.DB.Save(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Manager verified", user)
}
