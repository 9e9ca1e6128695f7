package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account in the system. Role distinguishes regular
// users from the super admin console.
type User struct {
	gorm.Model
	Username     string     `gorm:"uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	Password     string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Phone        string     `json:"phone"`
	Role         string     `json:"role" gorm:"default:'USER'"` // USER or SUPER_ADMIN
	Plan         string     `json:"plan" gorm:"default:'free'"` // free, standard, pro
	RenewalDate  *time.Time `json:"renewal_date"`
	IsDisabled   bool       `json:"is_disabled" gorm:"default:false"`
	IsVerified   bool       `json:"is_verified" gorm:"default:false"`
	OTP          string     `json:"-"`
	OTPExpiresAt time.Time  `json:"-"`
	LastLoginAt  time.Time  `json:"last_login_at"`
	GoogleID     string     `gorm:"unique;default:null" json:"google_id"`

	ModuleUsages []ModuleUsage `json:"module_usages,omitempty" gorm:"foreignKey:UserID"`
}

// ModuleUsage tracks how many sessions a user has consumed in one practice
// module during the current billing period. The (user, module) pair is unique
// so the entitlement engine can run a single conditional increment against it.
type ModuleUsage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_module_usage_user_module"`
	Module    string    `json:"module" gorm:"not null;uniqueIndex:idx_module_usage_user_module"`
	Count     int       `json:"count" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
