package controllers

import (
	"net/http"
	"time"

	"timesheet-planning-api/config"
	"timesheet-planning-api/models"
	"timesheet-planning-api/utils"

	"github.com/gin-gonic/gin"
)

// CreateUser onboards a user into the caller's organization (admin only)
func CreateUser(c *gin.Context) {
	type request struct {
		UserFname string `json:"user_fname" binding:"required"`
		UserLname string `json:"user_lname" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required"`
		RoleID    int    `json:"role_id" binding:"required"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if ok, msg := utils.ValidatePassword(req.Password); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	if req.RoleID != models.RoleMember && req.RoleID != models.RoleManager && req.RoleID != models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role_id"})
		return
	}

	var existing models.User
	if err := config.DB.Where("email = ? AND delete_at IS NULL", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	now := time.Now()
	user := models.User{
		OrganizationID: callerOrganizationID(c),
		UserFname:      utils.SanitizeInput(req.UserFname),
		UserLname:      utils.SanitizeInput(req.UserLname),
		Email:          req.Email,
		Password:       hashed,
		RoleID:         req.RoleID,
		CreateAt:       &now,
		UpdateAt:       &now,
	}

	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    user,
	})
}

// GetUsers lists users in the caller's organization
func GetUsers(c *gin.Context) {
	var users []models.User
	query := config.DB.Preload("Role").
		Where("organization_id = ? AND delete_at IS NULL", callerOrganizationID(c))

	if roleID := c.Query("role_id"); roleID != "" {
		query = query.Where("role_id = ?", roleID)
	}

	if err := query.Order("user_lname ASC, user_fname ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   users,
		"total":   len(users),
	})
}
