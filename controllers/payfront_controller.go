package controllers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/anjha1/Fluenzy-AI-sub001/config"
	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"github.com/anjha1/Fluenzy-AI-sub001/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var payfrontHTTPClient = &http.Client{Timeout: 15 * time.Second}

// POST /user/checkout/payfront/subscribe
//
// Subscription-style flow: the gateway hosts the payment page, we only open
// a checkout session and wait for the webhook. Amounts are pinned on the
// pending payment row at open time.
func SubscribePayFront(c *gin.Context) {
	utils.LogInfo("SubscribePayFront called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)
	userID := user.ID
	utils.LogInfo("Processing PayFront subscription for user ID: %d", userID)

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
		utils.BadRequest(c, "Amount is fully covered by the coupon; use the free checkout", nil)
		return
	}

	sessionID := "pf_" + uuid.New().String()
	checkoutURL, err := openPayFrontSession(sessionID, user.Email, quote)
	if err != nil {
		utils.LogError("Failed to open PayFront session for user ID: %d: %v", userID, err)
		utils.InternalServerError(c, "Failed to open checkout session", err.Error())
		return
	}
	utils.LogInfo("Opened PayFront session %s for user ID: %d", sessionID, userID)

	payment := models.PaymentHistory{
		UserID:          userID,
		Provider:        utils.ProviderPayFront,
		ProviderOrderID: sessionID,
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

	utils.Success(c, "Checkout session created successfully", gin.H{
		"session_id":    sessionID,
		"checkout_url":  checkoutURL,
		"plan":          quote.Plan,
		"billing_cycle": quote.BillingCycle,
		"amount":        fmt.Sprintf("%.2f", quote.FinalPrice),
	})
}

// openPayFrontSession creates a hosted checkout session with the gateway
// and returns the URL the client should be redirected to.
func openPayFrontSession(sessionID, email string, quote *utils.PricingQuote) (string, error) {
	payload := map[string]interface{}{
		"session_id":  sessionID,
		"customer":    email,
		"amount":      quote.FinalPrice,
		"currency":    quote.Currency,
		"description": fmt.Sprintf("%s plan (%s)", quote.Plan, quote.BillingCycle),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, os.Getenv("PAYFRONT_BASE_URL")+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+os.Getenv("PAYFRONT_API_KEY"))

	resp, err := payfrontHTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("payfront returned %d: %s", resp.StatusCode, string(raw))
	}

	var out struct {
		CheckoutURL string `json:"checkout_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.CheckoutURL, nil
}

// PayFrontWebhook handles session.completed events. The signature covers the
// raw request body with the shared webhook secret.
func PayFrontWebhook(c *gin.Context) {
	utils.LogInfo("PayFrontWebhook called")

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.LogError("Failed to read webhook body: %v", err)
		utils.BadRequest(c, "Invalid payload", nil)
		return
	}

	h := hmac.New(sha256.New, []byte(os.Getenv("PAYFRONT_SECRET")))
	h.Write(body)
	expected := hex.EncodeToString(h.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(c.GetHeader("X-PayFront-Signature"))) {
		utils.LogError("Webhook signature mismatch")
		utils.BadRequest(c, "Invalid signature", nil)
		return
	}

	var event struct {
		Event     string `json:"event"`
		SessionID string `json:"session_id"`
		PaymentID string `json:"payment_id"`
		Method    string `json:"method"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		utils.LogError("Failed to parse webhook payload: %v", err)
		utils.BadRequest(c, "Invalid payload", nil)
		return
	}

	if event.Event != "session.completed" {
		utils.LogInfo("Ignoring webhook event: %s", event.Event)
		utils.Success(c, "Event ignored", nil)
		return
	}

	db := config.DB

	// Idempotency: the gateway retries webhooks, a payment id settles once
	var done models.PaymentHistory
	if err := db.Where("provider_payment_id = ? AND status = ?", event.PaymentID, "completed").First(&done).Error; err == nil {
		utils.LogInfo("Payment %s already settled, acknowledging retry", event.PaymentID)
		utils.Success(c, "Payment already processed", nil)
		return
	}

	var payment models.PaymentHistory
	if err := db.Where("provider_order_id = ? AND status = ?", event.SessionID, "pending").First(&payment).Error; err != nil {
		utils.LogError("Pending payment not found for session %s: %v", event.SessionID, err)
		utils.NotFound(c, "Pending payment not found")
		return
	}

	var user models.User
	if err := db.First(&user, payment.UserID).Error; err != nil {
		utils.LogError("User not found for ID: %d: %v", payment.UserID, err)
		utils.NotFound(c, "User not found")
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction for payment ID: %d: %v", payment.ID, tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	receipt, appErr := completePayment(tx, &user, &payment, event.PaymentID, event.Method)
	if appErr != nil {
		tx.Rollback()
		if appErr == errPaymentSettled {
			utils.LogInfo("Payment %s settled by a concurrent request", event.PaymentID)
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
	utils.LogInfo("Successfully settled PayFront payment %s for user ID: %d, plan: %s", event.PaymentID, payment.UserID, payment.Plan)

	sendReceiptMail(user.Email, receipt)

	utils.Success(c, "Payment processed successfully", gin.H{
		"plan":           payment.Plan,
		"receipt_number": receipt.ReceiptNumber,
	})
}
