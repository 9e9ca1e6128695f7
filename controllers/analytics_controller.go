package controllers

import (
	"github.com/anjha1/Fluenzy-AI-sub001/config"
	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"github.com/anjha1/Fluenzy-AI-sub001/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetAnalytics returns the user's full performance analytics payload.
// Pure read: the aggregation never mutates session data.
func GetAnalytics(c *gin.Context) {
	utils.LogInfo("GetAnalytics called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var sessions []models.Session
	if err := config.DB.Preload("Transcripts", func(db *gorm.DB) *gorm.DB {
		return db.Order("turn_number ASC")
	}).Where("user_id = ?", user.ID).
		Order("started_at ASC").
		Find(&sessions).Error; err != nil {
		utils.LogError("Failed to load sessions for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load analytics", nil)
		return
	}

	payload := utils.BuildAnalytics(sessions)
	utils.LogInfo("Built analytics for user ID: %d over %d sessions", user.ID, payload.TotalSessions)

	utils.Success(c, "Analytics retrieved successfully", payload)
}
