package models

import (
	"time"
)

// PaymentHistory is the immutable audit record of a checkout. A row is
// created as "pending" when a provider order/session is opened with the
// quoted amounts, and flipped to "completed" exactly once; the provider
// payment id carries a unique index so duplicate webhooks converge.
type PaymentHistory struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	UserID            uint      `json:"user_id" gorm:"not null;index"`
	Provider          string    `json:"provider"` // RAZORPAY, PAYFRONT, COUPON
	ProviderOrderID   string    `json:"provider_order_id" gorm:"index"`
	ProviderPaymentID string    `json:"provider_payment_id" gorm:"uniqueIndex;default:null"`
	Plan              string    `json:"plan"`
	BillingCycle      string    `json:"billing_cycle"` // monthly or annual
	BasePrice         float64   `json:"base_price"`
	DiscountAmount    float64   `json:"discount_amount"`
	FinalPrice        float64   `json:"final_price"`
	Currency          string    `json:"currency" gorm:"default:'INR'"`
	CouponCode        string    `json:"coupon_code"`
	PaymentMethod     string    `json:"payment_method"` // best-effort, "unknown" when the provider lookup fails
	Status            string    `json:"status"`         // pending, completed, failed
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Receipt is the denormalized snapshot issued alongside a completed payment.
// Never mutated after creation.
type Receipt struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	ReceiptNumber    string    `json:"receipt_number" gorm:"uniqueIndex"`
	PaymentHistoryID uint      `json:"payment_history_id" gorm:"not null;index"`
	UserID           uint      `json:"user_id" gorm:"not null;index"`
	UserEmail        string    `json:"user_email"`
	UserName         string    `json:"user_name"`
	Plan             string    `json:"plan"`
	BillingCycle     string    `json:"billing_cycle"`
	BasePrice        float64   `json:"base_price"`
	DiscountAmount   float64   `json:"discount_amount"`
	FinalPrice       float64   `json:"final_price"`
	Currency         string    `json:"currency"`
	CouponCode       string    `json:"coupon_code"`
	PaymentMethod    string    `json:"payment_method"`
	IssuedAt         time.Time `json:"issued_at"`
}
