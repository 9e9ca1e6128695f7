package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon codes are stored upper-cased and looked up case-insensitively.
// ApplicablePlans is a comma-separated allowlist; empty means all plans.
type Coupon struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Code            string         `gorm:"uniqueIndex:idx_coupons_code_lower" json:"code"`
	DiscountType    string         `json:"discount_type"` // PERCENTAGE or FLAT (compared case-insensitively)
	DiscountValue   float64        `json:"discount_value"`
	Status          string         `json:"status" gorm:"default:'active'"` // active or inactive
	StartDate       *time.Time     `json:"start_date"`
	ExpiryDate      *time.Time     `json:"expiry_date"`
	ApplicablePlans string         `json:"applicable_plans"`
	MaxUsage        int            `json:"max_usage"`      // 0 = no global cap
	PerUserLimit    int            `json:"per_user_limit"` // 0 treated as 1
	UsedCount       int            `json:"used_count"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// CouponUsage is one redemption record with the pricing snapshot captured
// at redemption time. Written only inside the payment transaction.
type CouponUsage struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CouponID       uint      `json:"coupon_id" gorm:"not null;index"`
	UserID         uint      `json:"user_id" gorm:"not null;index"`
	Plan           string    `json:"plan"`
	OriginalPrice  float64   `json:"original_price"`
	DiscountAmount float64   `json:"discount_amount"`
	FinalPrice     float64   `json:"final_price"`
	UsedAt         time.Time `json:"used_at"`
}
