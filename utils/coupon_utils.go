package utils

import (
	"math"
	"strings"
	"time"

	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"gorm.io/gorm"
)

// PricingQuote is the priced outcome of a checkout request. Callers must
// charge the quoted values, not re-read pricing at confirmation time, and
// persist them into the payment/receipt snapshot.
type PricingQuote struct {
	Plan           string  `json:"plan"`
	BillingCycle   string  `json:"billing_cycle"`
	BasePrice      float64 `json:"base_price"`
	DiscountAmount float64 `json:"discount_amount"`
	FinalPrice     float64 `json:"final_price"`
	Currency       string  `json:"currency"`
	CouponCode     string  `json:"coupon_code,omitempty"`
	CouponID       uint    `json:"-"`
	FreeViaCoupon  bool    `json:"free_via_coupon"`
}

// PlanBasePrice computes the price for a plan and billing cycle. Annual
// billing carries a uniform 20% discount over twelve monthly payments; the
// same formula applies in both checkout flows.
func PlanBasePrice(monthlyPrice float64, cycle string) float64 {
	if cycle == CycleAnnual {
		return math.Round(monthlyPrice * 12 * AnnualDiscountFactor)
	}
	return monthlyPrice
}

// ValidateCouponRules evaluates the coupon rule chain in strict order; the
// first failing rule wins and its reason is returned. State-free: all counts
// are passed in by the caller.
func ValidateCouponRules(coupon *models.Coupon, now time.Time, plan string, totalUsed, userUsed int64) *AppError {
	if !strings.EqualFold(coupon.Status, "active") {
		return BadRequestError("Coupon is inactive", nil)
	}
	if coupon.StartDate != nil && now.Before(*coupon.StartDate) {
		return BadRequestError("Coupon is not active yet", nil)
	}
	if coupon.ExpiryDate != nil && now.After(*coupon.ExpiryDate) {
		return BadRequestError("Coupon has expired", nil)
	}
	if !couponAppliesToPlan(coupon, plan) {
		return BadRequestError("Coupon is not valid for this plan", nil)
	}
	if coupon.MaxUsage > 0 && totalUsed >= int64(coupon.MaxUsage) {
		return BadRequestError("Coupon usage limit reached", nil)
	}
	perUserLimit := coupon.PerUserLimit
	if perUserLimit <= 0 {
		perUserLimit = 1
	}
	if userUsed >= int64(perUserLimit) {
		return BadRequestError("You have already used this coupon", nil)
	}
	return nil
}

// CouponDiscount computes the discount amount for a base price. The discount
// type comparison is case-insensitive: anything that is not PERCENTAGE is
// treated as FLAT.
func CouponDiscount(coupon *models.Coupon, basePrice float64) float64 {
	var discount float64
	if strings.EqualFold(coupon.DiscountType, DiscountPercentage) {
		discount = basePrice * coupon.DiscountValue / 100
	} else {
		discount = coupon.DiscountValue
	}
	if discount > basePrice {
		discount = basePrice
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

func couponAppliesToPlan(coupon *models.Coupon, plan string) bool {
	allowlist := strings.TrimSpace(coupon.ApplicablePlans)
	if allowlist == "" {
		return true
	}
	for _, allowed := range strings.Split(allowlist, ",") {
		if strings.EqualFold(strings.TrimSpace(allowed), plan) {
			return true
		}
	}
	return false
}

// QuotePlanPrice runs the full coupon & pricing rule chain for a checkout
// request. No side effects: redemption is recorded separately, inside the
// payment transaction, via RecordCouponRedemption.
func QuotePlanPrice(db *gorm.DB, plan, cycle, couponCode string, userID uint) (*PricingQuote, *AppError) {
	var pricing models.PlanPricing
	if err := db.Where("plan = ?", plan).First(&pricing).Error; err != nil {
		return nil, BadRequestError("No pricing configured for this plan", err)
	}

	if cycle != CycleAnnual {
		cycle = CycleMonthly
	}
	basePrice := PlanBasePrice(pricing.MonthlyPrice, cycle)

	quote := &PricingQuote{
		Plan:         plan,
		BillingCycle: cycle,
		BasePrice:    basePrice,
		FinalPrice:   basePrice,
		Currency:     pricing.Currency,
	}

	couponCode = strings.TrimSpace(couponCode)
	if couponCode == "" {
		return quote, nil
	}

	var coupon models.Coupon
	if err := db.Where("LOWER(code) = LOWER(?)", couponCode).First(&coupon).Error; err != nil {
		return nil, NotFoundError("Invalid coupon", err)
	}

	var userUsed int64
	if err := db.Model(&models.CouponUsage{}).
		Where("coupon_id = ? AND user_id = ?", coupon.ID, userID).
		Count(&userUsed).Error; err != nil {
		return nil, InternalError("Failed to check coupon usage", err)
	}

	if appErr := ValidateCouponRules(&coupon, time.Now(), plan, int64(coupon.UsedCount), userUsed); appErr != nil {
		return nil, appErr
	}

	discount := CouponDiscount(&coupon, basePrice)
	quote.DiscountAmount = discount
	quote.FinalPrice = basePrice - discount
	if quote.FinalPrice < 0 {
		quote.FinalPrice = 0
	}
	quote.CouponCode = coupon.Code
	quote.CouponID = coupon.ID
	quote.FreeViaCoupon = basePrice > 0 && quote.FinalPrice == 0

	return quote, nil
}

// RecordCouponRedemption writes the CouponUsage row and increments the
// coupon's used count. Both writes happen on the caller's transaction so a
// coupon can never be spent without a matching usage record. The increment
// is guarded by the global cap with a rows-affected check, and the per-user
// limit is re-checked after the increment while the coupon row lock is
// held. Both close the race where two redemptions passed quote-time
// validation together.
func RecordCouponRedemption(tx *gorm.DB, quote *PricingQuote, userID uint) *AppError {
	if quote.CouponID == 0 {
		return nil
	}

	usage := models.CouponUsage{
		CouponID:       quote.CouponID,
		UserID:         userID,
		Plan:           quote.Plan,
		OriginalPrice:  quote.BasePrice,
		DiscountAmount: quote.DiscountAmount,
		FinalPrice:     quote.FinalPrice,
		UsedAt:         time.Now(),
	}
	if err := tx.Create(&usage).Error; err != nil {
		return InternalError("Failed to record coupon usage", err)
	}

	res := tx.Model(&models.Coupon{}).
		Where("id = ? AND (max_usage = 0 OR used_count < max_usage)", quote.CouponID).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return InternalError("Failed to update coupon usage count", res.Error)
	}
	if res.RowsAffected == 0 {
		return BadRequestError("Coupon usage limit reached", nil)
	}

	// The guarded increment serializes concurrent redemptions on the coupon
	// row, so this count sees every earlier redemption of the same coupon.
	var coupon models.Coupon
	if err := tx.First(&coupon, quote.CouponID).Error; err != nil {
		return InternalError("Failed to load coupon", err)
	}
	perUserLimit := int64(coupon.PerUserLimit)
	if perUserLimit <= 0 {
		perUserLimit = 1
	}
	var userUsed int64
	if err := tx.Model(&models.CouponUsage{}).
		Where("coupon_id = ? AND user_id = ?", quote.CouponID, userID).
		Count(&userUsed).Error; err != nil {
		return InternalError("Failed to check coupon usage", err)
	}
	if userUsed > perUserLimit {
		return BadRequestError("You have already used this coupon", nil)
	}
	return nil
}
