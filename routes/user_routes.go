package routes

import (
	"github.com/anjha1/Fluenzy-AI-sub001/controllers"
	"github.com/anjha1/Fluenzy-AI-sub001/middleware"
	"github.com/gin-gonic/gin"
)

// initUserRoutes initializes all user-related routes
func initUserRoutes(router *gin.RouterGroup) {
	// Public routes (no authentication required)
	router.POST("/register", controllers.RegisterUser)
	router.POST("/login", controllers.LoginUser)
	router.POST("/verify-otp", controllers.VerifyOTP)
	router.POST("/resend-otp", controllers.ResendOTP)
	router.GET("/plans", controllers.GetPlans)

	// Protected routes (require authentication)
	protected := router.Group("/user")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/profile", controllers.GetProfile)

		// Practice sessions
		protected.POST("/sessions", controllers.StartSession)
		protected.POST("/sessions/:id/submit", controllers.SubmitSession)
		protected.GET("/sessions", controllers.ListSessions)
		protected.GET("/sessions/:id", controllers.GetSessionDetails)

		// Analytics
		protected.GET("/analytics", controllers.GetAnalytics)

		// Usage quota
		protected.GET("/usage", controllers.GetUsage)
		protected.GET("/usage/check", controllers.CheckUsage)
		protected.POST("/usage/consume", controllers.ConsumeUsage)

		// Checkout
		protected.POST("/checkout/quote", controllers.QuoteCheckout)
		protected.POST("/checkout/free", controllers.ConfirmFreeCheckout)
		protected.POST("/checkout/payment/initiate", controllers.InitiateRazorpayPayment)
		protected.POST("/checkout/payment/verify", controllers.VerifyRazorpayPayment)
		protected.POST("/checkout/payfront/subscribe", controllers.SubscribePayFront)

		// Payments and receipts
		protected.GET("/payments", controllers.ListPaymentHistory)
		protected.GET("/receipts/:id/download", controllers.DownloadReceipt)
	}
}
