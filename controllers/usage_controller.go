package controllers

import (
	"github.com/anjha1/Fluenzy-AI-sub001/config"
	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"github.com/anjha1/Fluenzy-AI-sub001/utils"
	"github.com/gin-gonic/gin"
)

// GetUsage returns the user's usage state for every training module
func GetUsage(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	results, err := utils.GetAllUsage(config.DB, &user)
	if err != nil {
		utils.LogError("Failed to load usage for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load usage", nil)
		return
	}

	utils.Success(c, "Usage retrieved successfully", gin.H{
		"plan":    user.Plan,
		"modules": results,
	})
}

// ConsumeUsageRequest represents the request body for consuming usage
type ConsumeUsageRequest struct {
	Module string `json:"module" binding:"required"`
}

// ConsumeUsage checks the user's entitlement for a module and, when allowed,
// consumes exactly one unit. Rejected calls never mutate the counter.
func ConsumeUsage(c *gin.Context) {
	utils.LogInfo("ConsumeUsage called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req ConsumeUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if !utils.IsValidModule(req.Module) {
		utils.BadRequest(c, "Unknown training module", nil)
		return
	}

	result, err := utils.ConsumeUsage(config.DB, &user, req.Module)
	if err != nil {
		utils.LogError("Failed to consume usage for user ID: %d, module: %s: %v", user.ID, req.Module, err)
		utils.InternalServerError(c, "Failed to update usage", nil)
		return
	}

	if !result.Allowed {
		utils.LogInfo("Usage limit reached for user ID: %d, module: %s", user.ID, req.Module)
		utils.AppErrorResponse(c, utils.ForbiddenError("Usage limit reached for this module", nil))
		return
	}

	utils.Success(c, "Usage recorded", result)
}

// CheckUsage reports whether the user may start one more session in a module
// without consuming anything
func CheckUsage(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	module := c.Query("module")
	if !utils.IsValidModule(module) {
		utils.BadRequest(c, "Unknown training module", nil)
		return
	}

	result, err := utils.CheckUsage(config.DB, &user, module)
	if err != nil {
		utils.LogError("Failed to check usage for user ID: %d, module: %s: %v", user.ID, module, err)
		utils.InternalServerError(c, "Failed to check usage", nil)
		return
	}

	utils.Success(c, "Usage checked", result)
}
