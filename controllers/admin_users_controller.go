package controllers

import (
	"fmt"
	"strconv"

	"github.com/anjha1/Fluenzy-AI-sub001/config"
	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"github.com/anjha1/Fluenzy-AI-sub001/utils"
	"github.com/gin-gonic/gin"
)

// UserListRequest represents the query parameters for user listing
type UserListRequest struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	SortBy string `form:"sort_by"`
	Order  string `form:"order"`
	Search string `form:"search"`
	Plan   string `form:"plan"`
}

// GetUsers handles the admin user listing with search, sort and pagination
func GetUsers(c *gin.Context) {
	utils.LogInfo("GetUsers called")

	var req UserListRequest
	req.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	req.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	req.SortBy = c.DefaultQuery("sort_by", "created_at")
	req.Order = c.DefaultQuery("order", "desc")
	req.Search = c.Query("search")
	req.Plan = c.Query("plan")

	if req.Page == 0 {
		req.Page = 1
	}
	if req.Limit == 0 {
		req.Limit = 10
	}
	if req.Order != "asc" {
		req.Order = "desc"
	}
	utils.LogDebug("Query parameters set - Page: %d, Limit: %d, SortBy: %s, Order: %s", req.Page, req.Limit, req.SortBy, req.Order)

	query := config.DB.Model(&models.User{})

	if req.Search != "" {
		searchTerm := "%" + req.Search + "%"
		utils.LogDebug("Applying search with term: %s", req.Search)
		query = query.Where(
			"email ILIKE ? OR username ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?",
			searchTerm, searchTerm, searchTerm, searchTerm,
		)
	}
	if req.Plan != "" {
		if !utils.IsValidPlan(req.Plan) {
			utils.BadRequest(c, "Invalid plan filter", nil)
			return
		}
		query = query.Where("plan = ?", req.Plan)
	}

	switch req.SortBy {
	case "email":
		query = query.Order(fmt.Sprintf("email %s", req.Order))
	case "username":
		query = query.Order(fmt.Sprintf("username %s", req.Order))
	case "plan":
		query = query.Order(fmt.Sprintf("plan %s", req.Order))
	default:
		query = query.Order(fmt.Sprintf("created_at %s", req.Order))
	}

	var total int64
	query.Count(&total)

	offset := (req.Page - 1) * req.Limit
	var users []models.User
	if err := query.Offset(offset).Limit(req.Limit).Find(&users).Error; err != nil {
		utils.LogError("Failed to fetch users: %v", err)
		utils.InternalServerError(c, "Failed to fetch users", err.Error())
		return
	}

	// Response without sensitive fields
	cleanUsers := make([]gin.H, len(users))
	for i, user := range users {
		cleanUsers[i] = gin.H{
			"id":           user.ID,
			"username":     user.Username,
			"email":        user.Email,
			"role":         user.Role,
			"plan":         user.Plan,
			"renewal_date": user.RenewalDate,
			"is_disabled":  user.IsDisabled,
			"is_verified":  user.IsVerified,
			"created_at":   user.CreatedAt,
			"last_login":   user.LastLoginAt,
		}
	}

	utils.LogInfo("Successfully retrieved %d users", len(users))
	utils.Success(c, "Users retrieved successfully", gin.H{
		"users": cleanUsers,
		"pagination": gin.H{
			"total":       total,
			"page":        req.Page,
			"limit":       req.Limit,
			"total_pages": (total + int64(req.Limit) - 1) / int64(req.Limit),
		},
		"search": gin.H{
			"term": req.Search,
		},
	})
}

// ToggleUserDisabled flips a user's disabled flag. Disabled users cannot log
// in or use existing tokens.
func ToggleUserDisabled(c *gin.Context) {
	utils.LogInfo("ToggleUserDisabled called")

	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.LogError("Invalid user ID format: %v", err)
		utils.BadRequest(c, "Invalid user ID", nil)
		return
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		utils.LogError("User not found for ID: %d", userID)
		utils.NotFound(c, "User not found")
		return
	}

	if user.Role == "SUPER_ADMIN" {
		utils.LogError("Attempt to disable super admin ID: %d", userID)
		utils.Forbidden(c, "Cannot disable a super admin")
		return
	}

	newStatus := !user.IsDisabled
	if err := config.DB.Model(&user).Update("is_disabled", newStatus).Error; err != nil {
		utils.LogError("Failed to update user ID: %d: %v", userID, err)
		utils.InternalServerError(c, "Failed to update user", err.Error())
		return
	}

	action := "enabled"
	if newStatus {
		action = "disabled"
	}
	utils.LogInfo("User ID: %d %s", userID, action)
	utils.Success(c, "User "+action+" successfully", gin.H{
		"user": gin.H{
			"id":          user.ID,
			"email":       user.Email,
			"is_disabled": newStatus,
		},
	})
}

// UpdateUserRole promotes or demotes a user between USER and SUPER_ADMIN
func UpdateUserRole(c *gin.Context) {
	utils.LogInfo("UpdateUserRole called")

	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid user ID", nil)
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request. role is required", err.Error())
		return
	}
	if req.Role != "USER" && req.Role != "SUPER_ADMIN" {
		utils.BadRequest(c, "Role must be USER or SUPER_ADMIN", nil)
		return
	}

	adminVal, _ := c.Get("user")
	admin := adminVal.(models.User)
	if admin.ID == uint(userID) {
		utils.LogError("Admin ID: %d attempted to change own role", admin.ID)
		utils.BadRequest(c, "Cannot change your own role", nil)
		return
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	if err := config.DB.Model(&user).Update("role", req.Role).Error; err != nil {
		utils.LogError("Failed to update role for user ID: %d: %v", userID, err)
		utils.InternalServerError(c, "Failed to update role", err.Error())
		return
	}

	utils.LogInfo("Updated role to %s for user ID: %d", req.Role, userID)
	utils.Success(c, "Role updated successfully", gin.H{
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"role":  req.Role,
		},
	})
}
