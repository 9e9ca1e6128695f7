package controllers

import (
	"strings"
	"time"

	"github.com/anjha1/Fluenzy-AI-sub001/config"
	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"github.com/anjha1/Fluenzy-AI-sub001/utils"
	"github.com/gin-gonic/gin"
)

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginUser authenticates a user and returns a JWT token
func LoginUser(c *gin.Context) {
	utils.LogInfo("LoginUser called")

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid login request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		utils.LogError("Login attempt for unknown email: %s", req.Email)
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		utils.LogError("Invalid password for user ID: %d", user.ID)
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	if user.IsDisabled {
		utils.LogError("Disabled user attempted login: %d", user.ID)
		utils.Forbidden(c, "Account is disabled")
		return
	}

	if !user.IsVerified {
		utils.LogError("Unverified user attempted login: %d", user.ID)
		utils.Forbidden(c, "Please verify your email first")
		return
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		utils.LogError("Failed to generate token for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}

	config.DB.Model(&user).UpdateColumn("last_login_at", time.Now())
	utils.LogInfo("User %d logged in successfully", user.ID)

	utils.Success(c, "Login successful", gin.H{
		"token": token,
		"user": gin.H{
			"id":           user.ID,
			"username":     user.Username,
			"email":        user.Email,
			"first_name":   user.FirstName,
			"last_name":    user.LastName,
			"plan":         user.Plan,
			"role":         user.Role,
			"renewal_date": user.RenewalDate,
		},
	})
}

// GetProfile returns the authenticated user's profile
func GetProfile(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	utils.Success(c, "Profile retrieved successfully", gin.H{
		"id":           user.ID,
		"username":     user.Username,
		"email":        user.Email,
		"first_name":   user.FirstName,
		"last_name":    user.LastName,
		"phone":        user.Phone,
		"plan":         user.Plan,
		"role":         user.Role,
		"renewal_date": user.RenewalDate,
		"created_at":   user.CreatedAt,
	})
}
