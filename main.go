package main

import (
	"log"
	"os"

	"github.com/anjha1/Fluenzy-AI-sub001/config"
	"github.com/anjha1/Fluenzy-AI-sub001/controllers"
	"github.com/anjha1/Fluenzy-AI-sub001/routes"
	"github.com/anjha1/Fluenzy-AI-sub001/utils"
)

func main() {
	// Initialize logger
	if err := utils.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// Load environment variables
	_, err := config.LoadConfig()
	if err != nil {
		utils.LogError("Error loading config: %v", err)
		log.Fatal("Error loading config:", err)
	}

	// Initialize database
	config.InitDB()

	// Seed plan pricing and quota reference data
	if err := config.SeedReferenceData(); err != nil {
		utils.LogError("Failed to seed reference data: %v", err)
		log.Fatal("Failed to seed reference data:", err)
	}

	// Create super admin account if missing
	if err := controllers.EnsureSuperAdmin(); err != nil {
		utils.LogError("Failed to create super admin: %v", err)
		log.Fatal("Failed to create super admin:", err)
	}

	// Initialize Google OAuth
	config.InitGoogleOAuth()

	// Set up router
	router := routes.SetupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	utils.LogInfo("Server starting on port %s", port)
	// Start server
	if err := router.Run(":" + port); err != nil {
		utils.LogError("Error starting server: %v", err)
		log.Fatal("Error starting server:", err)
	}
}
