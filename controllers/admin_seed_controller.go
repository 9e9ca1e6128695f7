package controllers

import (
	"os"

	"github.com/anjha1/Fluenzy-AI-sub001/config"
	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"github.com/anjha1/Fluenzy-AI-sub001/utils"
)

// EnsureSuperAdmin creates the super admin account from env on first boot
func EnsureSuperAdmin() error {
	utils.LogInfo("EnsureSuperAdmin called")

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		utils.LogInfo("ADMIN_EMAIL not set, skipping super admin seed")
		return nil
	}

	hashedPassword, err := utils.HashPassword(os.Getenv("ADMIN_PASSWORD"))
	if err != nil {
		utils.LogError("Failed to hash admin password: %v", err)
		return err
	}

	admin := models.User{
		Username:   "superadmin",
		Email:      email,
		Password:   hashedPassword,
		Role:       "SUPER_ADMIN",
		Plan:       utils.PlanPro,
		IsVerified: true,
	}

	if err := config.DB.FirstOrCreate(&admin, models.User{Email: email}).Error; err != nil {
		utils.LogError("Failed to create super admin: %v", err)
		return err
	}
	utils.LogInfo("Super admin ready: %s", email)
	return nil
}
