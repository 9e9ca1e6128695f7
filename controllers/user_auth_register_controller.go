package controllers

import (
	"strings"
	"time"

	"github.com/anjha1/Fluenzy-AI-sub001/config"
	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"github.com/anjha1/Fluenzy-AI-sub001/utils"
	"github.com/gin-gonic/gin"
)

// RegisterRequest represents the request body for user registration
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// RegisterUser creates a new unverified account and emails a verification OTP
func RegisterUser(c *gin.Context) {
	utils.LogInfo("RegisterUser called")

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid registration request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.User
	if err := config.DB.Where("email = ? OR username = ?", req.Email, req.Username).First(&existing).Error; err == nil {
		utils.LogError("Registration with existing email/username: %s", req.Email)
		utils.Conflict(c, "An account with this email or username already exists", nil)
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.LogError("Failed to hash password: %v", err)
		utils.InternalServerError(c, "Failed to create account", nil)
		return
	}

	otp := utils.GenerateOTP()
	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		Password:     hashedPassword,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         "USER",
		Plan:         utils.PlanFree,
		OTP:          otp,
		OTPExpiresAt: time.Now().Add(10 * time.Minute),
	}

	if err := config.DB.Create(&user).Error; err != nil {
		utils.LogError("Failed to create user %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to create account", nil)
		return
	}
	utils.LogInfo("Created user ID: %d for email: %s", user.ID, user.Email)

	if err := utils.SendOTP(user.Email, otp); err != nil {
		utils.LogError("Failed to send OTP email to %s: %v", user.Email, err)
	}

	utils.Created(c, "Account created. Check your email for the verification code.", gin.H{
		"user_id": user.ID,
		"email":   user.Email,
	})
}

// VerifyOTPRequest represents the request body for OTP verification
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

// VerifyOTP verifies the registration OTP and activates the account
func VerifyOTP(c *gin.Context) {
	utils.LogInfo("VerifyOTP called")

	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid OTP request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		utils.LogError("OTP verification for unknown email: %s", req.Email)
		utils.NotFound(c, "Account not found")
		return
	}

	if user.IsVerified {
		utils.Success(c, "Account already verified", nil)
		return
	}

	if user.OTP != req.OTP || time.Now().After(user.OTPExpiresAt) {
		utils.LogError("Invalid or expired OTP for user ID: %d", user.ID)
		utils.BadRequest(c, "Invalid or expired verification code", nil)
		return
	}

	if err := config.DB.Model(&user).Updates(map[string]interface{}{
		"is_verified": true,
		"otp":         "",
	}).Error; err != nil {
		utils.LogError("Failed to verify user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to verify account", nil)
		return
	}
	utils.LogInfo("Verified user ID: %d", user.ID)

	token, err := utils.GenerateToken(&user)
	if err != nil {
		utils.LogError("Failed to generate token for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}

	utils.Success(c, "Account verified successfully", gin.H{"token": token})
}

// ResendOTP generates and emails a fresh verification code
func ResendOTP(c *gin.Context) {
	utils.LogInfo("ResendOTP called")

	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		utils.NotFound(c, "Account not found")
		return
	}
	if user.IsVerified {
		utils.BadRequest(c, "Account already verified", nil)
		return
	}

	otp := utils.GenerateOTP()
	if err := config.DB.Model(&user).Updates(map[string]interface{}{
		"otp":            otp,
		"otp_expires_at": time.Now().Add(10 * time.Minute),
	}).Error; err != nil {
		utils.LogError("Failed to refresh OTP for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to resend verification code", nil)
		return
	}

	if err := utils.SendOTP(user.Email, otp); err != nil {
		utils.LogError("Failed to send OTP email to %s: %v", user.Email, err)
		utils.InternalServerError(c, "Failed to send verification email", nil)
		return
	}

	utils.Success(c, "Verification code sent", nil)
}
