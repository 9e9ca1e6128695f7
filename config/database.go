package config

import (
	"fmt"
	"time"

	"github.com/anjha1/Fluenzy-AI-sub001/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection
func InitDB() {
	config, err := LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	DB = db

	err = DB.AutoMigrate(
		&models.User{},
		&models.ModuleUsage{},
		&models.Session{},
		&models.Transcript{},
		&models.Coupon{},
		&models.CouponUsage{},
		&models.PaymentHistory{},
		&models.Receipt{},
		&models.PlanPricing{},
		&models.GlobalPlanSettings{},
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to migrate database: %v", err))
	}

	// Case-insensitive uniqueness for coupon codes
	if err := DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_coupons_code_ci ON coupons (LOWER(code)) WHERE deleted_at IS NULL`).Error; err != nil {
		panic(fmt.Sprintf("Failed to create coupon code index: %v", err))
	}
}

// SeedReferenceData creates default plan pricing and plan settings rows when
// none exist. Prices and limits can be edited later from the admin console.
func SeedReferenceData() error {
	defaultPricing := []models.PlanPricing{
		{Plan: "free", MonthlyPrice: 0, Currency: "INR"},
		{Plan: "standard", MonthlyPrice: 499, Currency: "INR"},
		{Plan: "pro", MonthlyPrice: 999, Currency: "INR"},
	}
	for _, p := range defaultPricing {
		var existing models.PlanPricing
		if err := DB.Where("plan = ?", p.Plan).First(&existing).Error; err != nil {
			if err := DB.Create(&p).Error; err != nil {
				return fmt.Errorf("failed to seed plan pricing for %s: %v", p.Plan, err)
			}
		}
	}

	now := time.Now()
	defaultSettings := []models.GlobalPlanSettings{
		{Plan: "free", MonthlyLimit: 3, IsUnlimited: false, LastUsageReset: &now},
		{Plan: "standard", MonthlyLimit: 100, IsUnlimited: false, LastUsageReset: &now},
		{Plan: "pro", MonthlyLimit: 0, IsUnlimited: true, LastUsageReset: &now},
	}
	for _, s := range defaultSettings {
		var existing models.GlobalPlanSettings
		if err := DB.Where("plan = ?", s.Plan).First(&existing).Error; err != nil {
			if err := DB.Create(&s).Error; err != nil {
				return fmt.Errorf("failed to seed plan settings for %s: %v", s.Plan, err)
			}
		}
	}

	return nil
}
