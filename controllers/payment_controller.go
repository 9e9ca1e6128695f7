package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/anjha1/Fluenzy-AI-sub001/config"
	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"github.com/anjha1/Fluenzy-AI-sub001/utils"
	"github.com/gin-gonic/gin"
	razorpay "github.com/razorpay/razorpay-go"
)

// POST /user/checkout/payment/initiate
func InitiateRazorpayPayment(c *gin.Context) {
	utils.LogInfo("InitiateRazorpayPayment called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)
	userID := user.ID
	utils.LogInfo("Processing payment initiation for user ID: %d", userID)

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request for user ID: %d: %v", userID, err)
		utils.BadRequest(c, "Invalid request. plan is required", err.Error())
		return
	}

	if !utils.IsValidPlan(req.Plan) || req.Plan == utils.PlanFree {
		utils.BadRequest(c, "Invalid target plan", nil)
		return
	}

	quote, appErr := utils.QuotePlanPrice(config.DB, req.Plan, req.BillingCycle, req.CouponCode, userID)
	if appErr != nil {
		utils.LogError("Quote failed for user ID: %d: %v", userID, appErr)
		utils.AppErrorResponse(c, appErr)
		return
	}

	if quote.FreeViaCoupon {
		utils.LogError("Gateway payment attempted for a fully discounted quote, user ID: %d", userID)
		utils.BadRequest(c, "Amount is fully covered by the coupon; use the free checkout", nil)
		return
	}

	// Razorpay expects amount in paise
	amountPaise := int(quote.FinalPrice * 100)
	utils.LogInfo("Processing payment amount: %d paise for user ID: %d", amountPaise, userID)

	client := razorpay.NewClient(os.Getenv("RAZORPAY_KEY"), os.Getenv("RAZORPAY_SECRET"))
	orderData := map[string]interface{}{
		"amount":          amountPaise,
		"currency":        quote.Currency,
		"receipt":         "sub_rcptid_" + strconv.FormatUint(uint64(userID), 10),
		"payment_capture": 1,
	}
	rzOrder, err := client.Order.Create(orderData, nil)
	if err != nil {
		utils.LogError("Failed to create Razorpay order for user ID: %d: %v", userID, err)
		utils.InternalServerError(c, "Failed to create Razorpay order", err.Error())
		return
	}
	rzOrderID := fmt.Sprintf("%v", rzOrder["id"])
	utils.LogInfo("Successfully created Razorpay order %s for user ID: %d", rzOrderID, userID)

	// Pending row pins the quoted amounts; verification never re-prices
	payment := models.PaymentHistory{
		UserID:          userID,
		Provider:        utils.ProviderRazorpay,
		ProviderOrderID: rzOrderID,
		Plan:            quote.Plan,
		BillingCycle:    quote.BillingCycle,
		BasePrice:       quote.BasePrice,
		DiscountAmount:  quote.DiscountAmount,
		FinalPrice:      quote.FinalPrice,
		Currency:        quote.Currency,
		CouponCode:      quote.CouponCode,
		Status:          "pending",
	}
	if err := config.DB.Create(&payment).Error; err != nil {
		utils.LogError("Failed to record pending payment for user ID: %d: %v", userID, err)
		utils.InternalServerError(c, "Failed to record payment", err.Error())
		return
	}

	utils.Success(c, "Payment initiated successfully", gin.H{
		"order": gin.H{
			"id":                payment.ID,
			"razorpay_order_id": rzOrderID,
			"plan":              quote.Plan,
			"billing_cycle":     quote.BillingCycle,
			"amount":            fmt.Sprintf("%.2f", quote.FinalPrice),
			"amount_display":    fmt.Sprintf("₹%.2f", quote.FinalPrice),
		},
		"key": os.Getenv("RAZORPAY_KEY"),
		"user": gin.H{
			"name":  user.Username,
			"email": user.Email,
		},
	})
}

// POST /user/checkout/payment/verify
func VerifyRazorpayPayment(c *gin.Context) {
	utils.LogInfo("VerifyRazorpayPayment called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)
	userID := user.ID
	utils.LogInfo("Processing payment verification for user ID: %d", userID)

	var req struct {
		RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
		RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
		RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request for user ID: %d: %v", userID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	// Verify signature
	keySecret := os.Getenv("RAZORPAY_SECRET")
	data := req.RazorpayOrderID + "|" + req.RazorpayPaymentID
	h := hmac.New(sha256.New, []byte(keySecret))
	h.Write([]byte(data))
	generatedSignature := hex.EncodeToString(h.Sum(nil))
	if generatedSignature != req.RazorpaySignature {
		utils.LogError("Payment verification failed for order %s, user ID: %d", req.RazorpayOrderID, userID)
		utils.BadRequest(c, "Payment verification failed", gin.H{"retry": true})
		return
	}
	utils.LogInfo("Payment signature verified for order %s", req.RazorpayOrderID)

	settleRazorpayPayment(c, userID, req.RazorpayOrderID, req.RazorpayPaymentID)
}

// RazorpayWebhook handles the payment.captured event. Converges on the same
// settlement path as client-side verification, so whichever arrives first
// wins and the other becomes a no-op.
func RazorpayWebhook(c *gin.Context) {
	utils.LogInfo("RazorpayWebhook called")

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.LogError("Failed to read webhook body: %v", err)
		utils.BadRequest(c, "Invalid payload", nil)
		return
	}

	secret := os.Getenv("RAZORPAY_WEBHOOK_SECRET")
	if secret == "" {
		secret = os.Getenv("RAZORPAY_SECRET")
	}
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	expected := hex.EncodeToString(h.Sum(nil))
	if expected != c.GetHeader("X-Razorpay-Signature") {
		utils.LogError("Webhook signature mismatch")
		utils.BadRequest(c, "Invalid signature", nil)
		return
	}

	var event struct {
		Event   string `json:"event"`
		Payload struct {
			Payment struct {
				Entity struct {
					ID      string `json:"id"`
					OrderID string `json:"order_id"`
					Method  string `json:"method"`
				} `json:"entity"`
			} `json:"payment"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		utils.LogError("Failed to parse webhook payload: %v", err)
		utils.BadRequest(c, "Invalid payload", nil)
		return
	}

	if event.Event != "payment.captured" {
		utils.LogInfo("Ignoring webhook event: %s", event.Event)
		utils.Success(c, "Event ignored", nil)
		return
	}

	var payment models.PaymentHistory
	if err := config.DB.Where("provider_order_id = ?", event.Payload.Payment.Entity.OrderID).First(&payment).Error; err != nil {
		utils.LogError("Payment record not found for order %s", event.Payload.Payment.Entity.OrderID)
		utils.NotFound(c, "Payment record not found")
		return
	}

	settleRazorpayPayment(c, payment.UserID, event.Payload.Payment.Entity.OrderID, event.Payload.Payment.Entity.ID)
}

// settleRazorpayPayment finalizes the pending payment row for a verified
// Razorpay order. Safe to call more than once for the same payment.
func settleRazorpayPayment(c *gin.Context, userID uint, rzOrderID, rzPaymentID string) {
	db := config.DB

	// Idempotency: a payment id settles at most once
	var done models.PaymentHistory
	if err := db.Where("provider_payment_id = ? AND status = ?", rzPaymentID, "completed").First(&done).Error; err == nil {
		utils.LogInfo("Payment %s already settled, returning stored result", rzPaymentID)
		utils.Success(c, "Payment already processed", gin.H{
			"plan":          done.Plan,
			"billing_cycle": done.BillingCycle,
			"final_price":   fmt.Sprintf("%.2f", done.FinalPrice),
		})
		return
	}

	var payment models.PaymentHistory
	if err := db.Where("provider_order_id = ? AND user_id = ? AND status = ?", rzOrderID, userID, "pending").First(&payment).Error; err != nil {
		utils.LogError("Pending payment not found for order %s, user ID: %d: %v", rzOrderID, userID, err)
		utils.NotFound(c, "Pending payment not found")
		return
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		utils.LogError("User not found for ID: %d: %v", userID, err)
		utils.NotFound(c, "User not found")
		return
	}

	// Best effort; defaults to "unknown" when the provider lookup fails
	method := fetchRazorpayMethod(rzPaymentID)

	tx := db.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction for payment ID: %d: %v", payment.ID, tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	receipt, appErr := completePayment(tx, &user, &payment, rzPaymentID, method)
	if appErr != nil {
		tx.Rollback()
		if appErr == errPaymentSettled {
			utils.LogInfo("Payment %s settled by a concurrent request", rzPaymentID)
			utils.Success(c, "Payment already processed", nil)
			return
		}
		utils.LogError("Failed to complete payment ID: %d: %v", payment.ID, appErr)
		utils.AppErrorResponse(c, appErr)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit transaction for payment ID: %d: %v", payment.ID, err)
		utils.InternalServerError(c, "Failed to commit transaction", err.Error())
		return
	}
	utils.LogInfo("Successfully settled payment %s for user ID: %d, plan: %s", rzPaymentID, userID, payment.Plan)

	sendReceiptMail(user.Email, receipt)

	utils.Success(c, "Thank you for your payment! Your plan has been upgraded.", gin.H{
		"plan":           payment.Plan,
		"billing_cycle":  payment.BillingCycle,
		"final_price":    fmt.Sprintf("%.2f", payment.FinalPrice),
		"receipt_number": receipt.ReceiptNumber,
	})
}

func fetchRazorpayMethod(rzPaymentID string) string {
	client := razorpay.NewClient(os.Getenv("RAZORPAY_KEY"), os.Getenv("RAZORPAY_SECRET"))
	paymentData, err := client.Payment.Fetch(rzPaymentID, nil, nil)
	if err != nil {
		utils.LogError("Failed to fetch payment method for %s: %v", rzPaymentID, err)
		return "unknown"
	}
	if m, ok := paymentData["method"].(string); ok && m != "" {
		return m
	}
	return "unknown"
}
