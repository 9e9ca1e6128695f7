package routes

import (
	"github.com/anjha1/Fluenzy-AI-sub001/controllers"
	"github.com/anjha1/Fluenzy-AI-sub001/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes all admin-related routes
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.SuperAdminMiddleware())
	{
		// Dashboard
		admin.GET("/dashboard", controllers.GetDashboardOverview)

		// User management
		admin.GET("/users", controllers.GetUsers)
		admin.PATCH("/users/:id/toggle-disabled", controllers.ToggleUserDisabled)
		admin.PATCH("/users/:id/role", controllers.UpdateUserRole)

		// Coupon management
		admin.POST("/coupons", controllers.CreateCoupon)
		admin.GET("/coupons", controllers.ListCoupons)
		admin.PUT("/coupons/:id", controllers.UpdateCoupon)
		admin.DELETE("/coupons/:id", controllers.DeleteCoupon)
		admin.GET("/coupons/:id/usage", controllers.GetCouponUsage)

		// Plan pricing and quotas
		admin.GET("/plans", controllers.ListPlanSettings)
		admin.PUT("/plans/pricing", controllers.UpdatePlanPricing)
		admin.PUT("/plans/settings", controllers.UpdatePlanSettings)
		admin.POST("/usage/reset", controllers.ResetAllUsageCounters)

		// Reports
		admin.GET("/reports/payments/excel", controllers.DownloadPaymentsReportExcel)
	}
}
