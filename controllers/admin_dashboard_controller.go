package controllers

import (
	"time"

	"github.com/anjha1/Fluenzy-AI-sub001/config"
	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"github.com/anjha1/Fluenzy-AI-sub001/utils"
	"github.com/gin-gonic/gin"
)

// DashboardOverview represents the admin dashboard overview data
type DashboardOverview struct {
	TotalUsers       int64              `json:"total_users"`
	TotalSessions    int64              `json:"total_sessions"`
	TotalRevenue     float64            `json:"total_revenue"`
	RevenueThisMonth float64            `json:"revenue_this_month"`
	PlanDistribution []PlanDistribution `json:"plan_distribution"`
	RecentPayments   []PaymentOverview  `json:"recent_payments"`
	ModuleActivity   []ModuleActivity   `json:"module_activity"`
}

// PlanDistribution represents user counts per subscription plan
type PlanDistribution struct {
	Plan  string `json:"plan"`
	Count int64  `json:"count"`
}

// PaymentOverview represents simplified payment data for the dashboard
type PaymentOverview struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"user_id"`
	Provider   string    `json:"provider"`
	Plan       string    `json:"plan"`
	FinalPrice float64   `json:"final_price"`
	CreatedAt  time.Time `json:"created_at"`
}

// ModuleActivity represents session counts per practice module
type ModuleActivity struct {
	Module string `json:"module"`
	Count  int64  `json:"count"`
}

// GetDashboardOverview returns overview data for the admin dashboard
func GetDashboardOverview(c *gin.Context) {
	utils.LogInfo("GetDashboardOverview called")

	db := config.DB
	var overview DashboardOverview

	if err := db.Model(&models.User{}).Where("role = ?", "USER").Count(&overview.TotalUsers).Error; err != nil {
		utils.LogError("Failed to count users: %v", err)
		utils.InternalServerError(c, "Failed to load dashboard", err.Error())
		return
	}

	if err := db.Model(&models.Session{}).Count(&overview.TotalSessions).Error; err != nil {
		utils.LogError("Failed to count sessions: %v", err)
		utils.InternalServerError(c, "Failed to load dashboard", err.Error())
		return
	}

	// Revenue only counts settled payments
	if err := db.Model(&models.PaymentHistory{}).
		Where("status = ?", "completed").
		Select("COALESCE(SUM(final_price), 0)").
		Scan(&overview.TotalRevenue).Error; err != nil {
		utils.LogError("Failed to sum revenue: %v", err)
		utils.InternalServerError(c, "Failed to load dashboard", err.Error())
		return
	}

	monthStart := time.Date(time.Now().Year(), time.Now().Month(), 1, 0, 0, 0, 0, time.Now().Location())
	if err := db.Model(&models.PaymentHistory{}).
		Where("status = ? AND created_at >= ?", "completed", monthStart).
		Select("COALESCE(SUM(final_price), 0)").
		Scan(&overview.RevenueThisMonth).Error; err != nil {
		utils.LogError("Failed to sum monthly revenue: %v", err)
		utils.InternalServerError(c, "Failed to load dashboard", err.Error())
		return
	}

	if err := db.Model(&models.User{}).
		Where("role = ?", "USER").
		Select("plan, COUNT(*) as count").
		Group("plan").
		Scan(&overview.PlanDistribution).Error; err != nil {
		utils.LogError("Failed to load plan distribution: %v", err)
		utils.InternalServerError(c, "Failed to load dashboard", err.Error())
		return
	}

	if err := db.Model(&models.PaymentHistory{}).
		Where("status = ?", "completed").
		Order("created_at DESC").
		Limit(10).
		Select("id, user_id, provider, plan, final_price, created_at").
		Scan(&overview.RecentPayments).Error; err != nil {
		utils.LogError("Failed to load recent payments: %v", err)
		utils.InternalServerError(c, "Failed to load dashboard", err.Error())
		return
	}

	if err := db.Model(&models.Session{}).
		Select("module, COUNT(*) as count").
		Group("module").
		Order("count DESC").
		Scan(&overview.ModuleActivity).Error; err != nil {
		utils.LogError("Failed to load module activity: %v", err)
		utils.InternalServerError(c, "Failed to load dashboard", err.Error())
		return
	}

	utils.LogInfo("Dashboard overview assembled: %d users, %d sessions", overview.TotalUsers, overview.TotalSessions)
	utils.Success(c, "Dashboard overview retrieved successfully", overview)
}
