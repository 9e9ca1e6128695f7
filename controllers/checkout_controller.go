package controllers

import (
	"net/http"
	"time"

	"github.com/anjha1/Fluenzy-AI-sub001/config"
	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"github.com/anjha1/Fluenzy-AI-sub001/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// errPaymentSettled reports that a payment was already finalized by another
// request. Settlement paths treat it as a successful no-op.
var errPaymentSettled = utils.NewAppError(http.StatusConflict, "Payment already processed", nil)

// CheckoutRequest represents a checkout/quote request
type CheckoutRequest struct {
	Plan         string `json:"plan" binding:"required"`
	BillingCycle string `json:"billing_cycle"`
	CouponCode   string `json:"coupon_code"`
}

// GetPlans returns the plan catalogue with pricing and quotas
func GetPlans(c *gin.Context) {
	var pricing []models.PlanPricing
	if err := config.DB.Order("monthly_price ASC").Find(&pricing).Error; err != nil {
		utils.LogError("Failed to fetch plan pricing: %v", err)
		utils.InternalServerError(c, "Failed to fetch plans", nil)
		return
	}

	var settings []models.GlobalPlanSettings
	if err := config.DB.Find(&settings).Error; err != nil {
		utils.LogError("Failed to fetch plan settings: %v", err)
		utils.InternalServerError(c, "Failed to fetch plans", nil)
		return
	}
	settingsByPlan := make(map[string]models.GlobalPlanSettings, len(settings))
	for _, s := range settings {
		settingsByPlan[s.Plan] = s
	}

	plans := make([]gin.H, 0, len(pricing))
	for _, p := range pricing {
		s := settingsByPlan[p.Plan]
		plans = append(plans, gin.H{
			"plan":          p.Plan,
			"monthly_price": p.MonthlyPrice,
			"annual_price":  utils.PlanBasePrice(p.MonthlyPrice, utils.CycleAnnual),
			"currency":      p.Currency,
			"monthly_limit": s.MonthlyLimit,
			"is_unlimited":  s.IsUnlimited,
		})
	}

	utils.Success(c, "Plans retrieved successfully", plans)
}

// QuoteCheckout prices a plan change, optionally applying a coupon.
// Pure preview: no side effects, the coupon is not redeemed.
func QuoteCheckout(c *gin.Context) {
	utils.LogInfo("QuoteCheckout called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid quote request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if !utils.IsValidPlan(req.Plan) || req.Plan == utils.PlanFree {
		utils.BadRequest(c, "Invalid target plan", nil)
		return
	}

	quote, appErr := utils.QuotePlanPrice(config.DB, req.Plan, req.BillingCycle, req.CouponCode, user.ID)
	if appErr != nil {
		utils.LogError("Quote failed for user ID: %d: %v", user.ID, appErr)
		utils.AppErrorResponse(c, appErr)
		return
	}

	utils.LogInfo("Quoted plan %s (%s) for user ID: %d, final price: %.2f", quote.Plan, quote.BillingCycle, user.ID, quote.FinalPrice)
	utils.Success(c, "Quote computed successfully", quote)
}

// ConfirmFreeCheckout completes a 100%-discounted checkout without touching
// any payment gateway. The coupon redemption, plan change and audit rows are
// written in one transaction.
func ConfirmFreeCheckout(c *gin.Context) {
	utils.LogInfo("ConfirmFreeCheckout called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if !utils.IsValidPlan(req.Plan) || req.Plan == utils.PlanFree {
		utils.BadRequest(c, "Invalid target plan", nil)
		return
	}

	quote, appErr := utils.QuotePlanPrice(config.DB, req.Plan, req.BillingCycle, req.CouponCode, user.ID)
	if appErr != nil {
		utils.AppErrorResponse(c, appErr)
		return
	}

	if !quote.FreeViaCoupon {
		utils.LogError("Free checkout attempted with non-free quote for user ID: %d", user.ID)
		utils.BadRequest(c, "Coupon does not cover the full price; use the payment flow", nil)
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction for user ID: %d: %v", user.ID, tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	// zero-amount audit row keeps the payment history symmetric with paid
	// upgrades
	payment := models.PaymentHistory{
		UserID:            user.ID,
		Provider:          utils.ProviderCoupon,
		ProviderPaymentID: "coupon_" + uuid.New().String(),
		Plan:              quote.Plan,
		BillingCycle:      quote.BillingCycle,
		BasePrice:         quote.BasePrice,
		DiscountAmount:    quote.DiscountAmount,
		FinalPrice:        0,
		Currency:          quote.Currency,
		CouponCode:        quote.CouponCode,
		PaymentMethod:     "coupon",
		Status:            "pending",
	}
	if err := tx.Create(&payment).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to create payment record for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to record payment", nil)
		return
	}

	receipt, appErr := completePayment(tx, &user, &payment, payment.ProviderPaymentID, "coupon")
	if appErr != nil {
		tx.Rollback()
		utils.LogError("Failed to complete free checkout for user ID: %d: %v", user.ID, appErr)
		utils.AppErrorResponse(c, appErr)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit transaction for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to commit transaction", nil)
		return
	}

	utils.LogInfo("Completed free-via-coupon upgrade to %s for user ID: %d", quote.Plan, user.ID)
	sendReceiptMail(user.Email, receipt)

	utils.Success(c, "Plan upgraded via coupon", gin.H{
		"plan":           quote.Plan,
		"billing_cycle":  quote.BillingCycle,
		"final_price":    0,
		"receipt_number": receipt.ReceiptNumber,
	})
}

// completePayment flips a pending payment to completed and applies the plan
// change. Runs on the caller's transaction so the payment row, plan flip,
// usage reset, receipt and coupon redemption commit or roll back together.
// The amounts on the payment row are the values quoted when the order was
// opened; pricing is never re-read here.
func completePayment(tx *gorm.DB, user *models.User, payment *models.PaymentHistory, providerPaymentID, method string) (*models.Receipt, *utils.AppError) {
	if method == "" {
		method = "unknown"
	}

	// The flip is conditional on the row still being pending. A concurrent
	// settlement of the same payment (client verify racing the webhook)
	// loses here with zero rows affected instead of finalizing twice.
	res := tx.Model(&models.PaymentHistory{}).
		Where("id = ? AND status = ?", payment.ID, "pending").
		Updates(map[string]interface{}{
			"status":              "completed",
			"provider_payment_id": providerPaymentID,
			"payment_method":      method,
		})
	if res.Error != nil {
		return nil, utils.InternalError("Failed to update payment record", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errPaymentSettled
	}

	renewal := time.Now().AddDate(0, 0, 30)
	if payment.BillingCycle == utils.CycleAnnual {
		renewal = time.Now().AddDate(1, 0, 0)
	}
	if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"plan":         payment.Plan,
		"renewal_date": renewal,
	}).Error; err != nil {
		return nil, utils.InternalError("Failed to update user plan", err)
	}

	// plan change resets every module counter
	if err := utils.ResetUserUsage(tx, user.ID); err != nil {
		return nil, utils.InternalError("Failed to reset usage counters", err)
	}

	if payment.CouponCode != "" {
		var coupon models.Coupon
		if err := tx.Where("LOWER(code) = LOWER(?)", payment.CouponCode).First(&coupon).Error; err != nil {
			return nil, utils.InternalError("Failed to load coupon for redemption", err)
		}
		redemption := &utils.PricingQuote{
			Plan:           payment.Plan,
			BillingCycle:   payment.BillingCycle,
			BasePrice:      payment.BasePrice,
			DiscountAmount: payment.DiscountAmount,
			FinalPrice:     payment.FinalPrice,
			CouponCode:     coupon.Code,
			CouponID:       coupon.ID,
		}
		if appErr := utils.RecordCouponRedemption(tx, redemption, user.ID); appErr != nil {
			return nil, appErr
		}
	}

	receipt := models.Receipt{
		ReceiptNumber:    "rcpt_" + uuid.New().String(),
		PaymentHistoryID: payment.ID,
		UserID:           user.ID,
		UserEmail:        user.Email,
		UserName:         user.Username,
		Plan:             payment.Plan,
		BillingCycle:     payment.BillingCycle,
		BasePrice:        payment.BasePrice,
		DiscountAmount:   payment.DiscountAmount,
		FinalPrice:       payment.FinalPrice,
		Currency:         payment.Currency,
		CouponCode:       payment.CouponCode,
		PaymentMethod:    method,
		IssuedAt:         time.Now(),
	}
	if err := tx.Create(&receipt).Error; err != nil {
		return nil, utils.InternalError("Failed to create receipt", err)
	}

	return &receipt, nil
}

// sendReceiptMail is best effort; a mail failure never fails the payment
func sendReceiptMail(email string, receipt *models.Receipt) {
	if receipt == nil {
		return
	}
	if err := utils.SendReceiptEmail(email, receipt.Plan, receipt.ReceiptNumber, receipt.FinalPrice, receipt.Currency); err != nil {
		utils.LogError("Failed to send receipt email to %s: %v", email, err)
	}
}
