package controllers

import (
	"github.com/anjha1/Fluenzy-AI-sub001/config"
	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"github.com/anjha1/Fluenzy-AI-sub001/utils"
	"github.com/gin-gonic/gin"
)

// UpdatePlanPricingRequest represents a pricing update for one plan
type UpdatePlanPricingRequest struct {
	Plan         string   `json:"plan" binding:"required"`
	MonthlyPrice *float64 `json:"monthly_price"`
	Currency     string   `json:"currency"`
}

// UpdatePlanSettingsRequest represents a quota update for one plan
type UpdatePlanSettingsRequest struct {
	Plan         string `json:"plan" binding:"required"`
	MonthlyLimit *int   `json:"monthly_limit"`
	IsUnlimited  *bool  `json:"is_unlimited"`
}

// ListPlanSettings returns pricing and quota settings for every plan
func ListPlanSettings(c *gin.Context) {
	utils.LogInfo("ListPlanSettings called")

	var pricing []models.PlanPricing
	if err := config.DB.Order("monthly_price ASC").Find(&pricing).Error; err != nil {
		utils.LogError("Failed to fetch plan pricing: %v", err)
		utils.InternalServerError(c, "Failed to fetch plan settings", err.Error())
		return
	}

	var settings []models.GlobalPlanSettings
	if err := config.DB.Find(&settings).Error; err != nil {
		utils.LogError("Failed to fetch plan settings: %v", err)
		utils.InternalServerError(c, "Failed to fetch plan settings", err.Error())
		return
	}

	utils.Success(c, "Plan settings retrieved successfully", gin.H{
		"pricing":  pricing,
		"settings": settings,
	})
}

// UpdatePlanPricing updates the monthly price for a plan. Open orders keep
// the amounts quoted when they were created.
func UpdatePlanPricing(c *gin.Context) {
	utils.LogInfo("UpdatePlanPricing called")

	var req UpdatePlanPricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request. plan is required", err.Error())
		return
	}

	if !utils.IsValidPlan(req.Plan) {
		utils.BadRequest(c, "Invalid plan", nil)
		return
	}
	if req.MonthlyPrice != nil && *req.MonthlyPrice < 0 {
		utils.BadRequest(c, "Monthly price cannot be negative", nil)
		return
	}

	var pricing models.PlanPricing
	if err := config.DB.Where("plan = ?", req.Plan).First(&pricing).Error; err != nil {
		utils.LogError("Plan pricing not found for plan: %s", req.Plan)
		utils.NotFound(c, "Plan pricing not found")
		return
	}

	updates := map[string]interface{}{}
	if req.MonthlyPrice != nil {
		updates["monthly_price"] = *req.MonthlyPrice
	}
	if req.Currency != "" {
		updates["currency"] = req.Currency
	}
	if len(updates) == 0 {
		utils.BadRequest(c, "Nothing to update", nil)
		return
	}

	if err := config.DB.Model(&pricing).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update pricing for plan %s: %v", req.Plan, err)
		utils.InternalServerError(c, "Failed to update plan pricing", err.Error())
		return
	}

	utils.LogInfo("Updated pricing for plan %s", req.Plan)
	utils.Success(c, "Plan pricing updated successfully", pricing)
}

// UpdatePlanSettings updates the monthly session quota for a plan
func UpdatePlanSettings(c *gin.Context) {
	utils.LogInfo("UpdatePlanSettings called")

	var req UpdatePlanSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request. plan is required", err.Error())
		return
	}

	if !utils.IsValidPlan(req.Plan) {
		utils.BadRequest(c, "Invalid plan", nil)
		return
	}
	if req.MonthlyLimit != nil && *req.MonthlyLimit < 0 {
		utils.BadRequest(c, "Monthly limit cannot be negative", nil)
		return
	}

	var settings models.GlobalPlanSettings
	if err := config.DB.Where("plan = ?", req.Plan).First(&settings).Error; err != nil {
		utils.LogError("Plan settings not found for plan: %s", req.Plan)
		utils.NotFound(c, "Plan settings not found")
		return
	}

	updates := map[string]interface{}{}
	if req.MonthlyLimit != nil {
		updates["monthly_limit"] = *req.MonthlyLimit
	}
	if req.IsUnlimited != nil {
		updates["is_unlimited"] = *req.IsUnlimited
	}
	if len(updates) == 0 {
		utils.BadRequest(c, "Nothing to update", nil)
		return
	}

	if err := config.DB.Model(&settings).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update settings for plan %s: %v", req.Plan, err)
		utils.InternalServerError(c, "Failed to update plan settings", err.Error())
		return
	}

	utils.LogInfo("Updated settings for plan %s", req.Plan)
	utils.Success(c, "Plan settings updated successfully", settings)
}

// ResetAllUsageCounters zeros every user's module counters and stamps the
// reset time on each plan. Run at the start of a billing period.
func ResetAllUsageCounters(c *gin.Context) {
	utils.LogInfo("ResetAllUsageCounters called")

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction: %v", tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	if err := utils.ResetAllUsage(tx); err != nil {
		tx.Rollback()
		utils.LogError("Failed to reset usage counters: %v", err)
		utils.InternalServerError(c, "Failed to reset usage counters", err.Error())
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit usage reset: %v", err)
		utils.InternalServerError(c, "Failed to commit transaction", err.Error())
		return
	}

	utils.LogInfo("Successfully reset all usage counters")
	utils.Success(c, "All usage counters reset successfully", nil)
}
