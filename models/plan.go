package models

import (
	"time"
)

// PlanPricing is admin-controlled reference data: the monthly price for a
// plan. Annual pricing is derived from it at quote time.
type PlanPricing struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Plan         string    `json:"plan" gorm:"uniqueIndex;not null"`
	MonthlyPrice float64   `json:"monthly_price"`
	Currency     string    `json:"currency" gorm:"default:'INR'"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GlobalPlanSettings maps a plan to its monthly per-module session quota.
// Unlimited plans bypass the quota check entirely. LastUsageReset records
// when the monthly global usage reset last ran.
type GlobalPlanSettings struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	Plan           string     `json:"plan" gorm:"uniqueIndex;not null"`
	MonthlyLimit   int        `json:"monthly_limit"`
	IsUnlimited    bool       `json:"is_unlimited" gorm:"default:false"`
	LastUsageReset *time.Time `json:"last_usage_reset"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
