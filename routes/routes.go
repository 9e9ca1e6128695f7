package routes

import (
	"os"

	"github.com/anjha1/Fluenzy-AI-sub001/controllers"
	"github.com/anjha1/Fluenzy-AI-sub001/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter() *gin.Engine {
	router := gin.New()
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())

	// Session middleware backs the OAuth state handshake
	sessionKey := os.Getenv("SESSION_SECRET")
	if sessionKey == "" {
		sessionKey = "fluenzy-dev-session-key"
	}
	store := cookie.NewStore([]byte(sessionKey))
	store.Options(sessions.Options{
		MaxAge:   60 * 60 * 24, // 1 day
		Path:     "/",
		Secure:   false, // Set to true in production with HTTPS
		HttpOnly: true,
	})
	router.Use(sessions.Sessions("fluenzy", store))

	// Auth routes (for OAuth)
	auth := router.Group("/auth")
	{
		auth.GET("/google/login", controllers.GoogleLogin)
		auth.GET("/google/callback", controllers.GoogleCallback)
	}

	// Payment provider webhooks are authenticated by signature, not JWT
	webhooks := router.Group("/webhooks")
	{
		webhooks.POST("/razorpay", controllers.RazorpayWebhook)
		webhooks.POST("/payfront", controllers.PayFrontWebhook)
	}

	// API version group
	api := router.Group("/v1")
	{
		initUserRoutes(api)
		initAdminRoutes(api)
	}

	return router
}
