package controllers

import (
	"strings"
	"time"

	"github.com/anjha1/Fluenzy-AI-sub001/config"
	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"github.com/anjha1/Fluenzy-AI-sub001/utils"
	"github.com/gin-gonic/gin"
)

// CreateCouponRequest represents the request body for creating a new coupon
type CreateCouponRequest struct {
	Code            string     `json:"code" binding:"required"`
	DiscountType    string     `json:"discount_type" binding:"required"`
	DiscountValue   float64    `json:"discount_value" binding:"required,gt=0"`
	StartDate       *time.Time `json:"start_date"`
	ExpiryDate      *time.Time `json:"expiry_date"`
	ApplicablePlans []string   `json:"applicable_plans"`
	MaxUsage        int        `json:"max_usage" binding:"min=0"`
	PerUserLimit    int        `json:"per_user_limit" binding:"min=0"`
}

func validateCouponRequest(discountType string, value float64, plans []string) (string, string, *utils.AppError) {
	// discount type is canonicalized to upper case at rest; comparisons
	// elsewhere stay case-insensitive
	var canonical string
	switch {
	case strings.EqualFold(discountType, utils.DiscountPercentage):
		canonical = utils.DiscountPercentage
		if value > 100 {
			return "", "", utils.BadRequestError("Percentage discount cannot exceed 100", nil)
		}
	case strings.EqualFold(discountType, utils.DiscountFlat):
		canonical = utils.DiscountFlat
	default:
		return "", "", utils.BadRequestError("Discount type must be PERCENTAGE or FLAT", nil)
	}

	normalized := make([]string, 0, len(plans))
	for _, plan := range plans {
		plan = strings.ToLower(strings.TrimSpace(plan))
		if plan == "" {
			continue
		}
		if !utils.IsValidPlan(plan) {
			return "", "", utils.BadRequestError("Unknown plan in applicable plans: "+plan, nil)
		}
		normalized = append(normalized, plan)
	}

	return canonical, strings.Join(normalized, ","), nil
}

// CreateCoupon creates a new coupon
func CreateCoupon(c *gin.Context) {
	utils.LogInfo("CreateCoupon called")

	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	utils.LogInfo("Processing coupon creation with code: %s", req.Code)

	discountType, applicablePlans, appErr := validateCouponRequest(req.DiscountType, req.DiscountValue, req.ApplicablePlans)
	if appErr != nil {
		utils.LogError("Invalid coupon request for code %s: %v", req.Code, appErr)
		utils.AppErrorResponse(c, appErr)
		return
	}

	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))

	if req.ExpiryDate != nil && req.ExpiryDate.Before(time.Now()) {
		utils.LogError("Invalid expiry date for coupon code %s: date is in the past", req.Code)
		utils.BadRequest(c, "Expiry date must be in the future", nil)
		return
	}
	if req.StartDate != nil && req.ExpiryDate != nil && req.ExpiryDate.Before(*req.StartDate) {
		utils.BadRequest(c, "Expiry date must be after the start date", nil)
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction: %v", tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	// Check if coupon code already exists (case-insensitive)
	var existingCoupon models.Coupon
	if err := tx.Where("LOWER(code) = LOWER(?)", req.Code).First(&existingCoupon).Error; err == nil {
		tx.Rollback()
		utils.LogError("Coupon code already exists: %s", req.Code)
		utils.BadRequest(c, "Coupon code already exists", nil)
		return
	}

	coupon := models.Coupon{
		Code:            req.Code,
		DiscountType:    discountType,
		DiscountValue:   req.DiscountValue,
		Status:          "active",
		StartDate:       req.StartDate,
		ExpiryDate:      req.ExpiryDate,
		ApplicablePlans: applicablePlans,
		MaxUsage:        req.MaxUsage,
		PerUserLimit:    req.PerUserLimit,
	}

	if err := tx.Create(&coupon).Error; err != nil {
		tx.Rollback()
		if strings.Contains(err.Error(), "idx_coupons_code") {
			utils.LogError("Duplicate coupon code: %s", req.Code)
			utils.BadRequest(c, "Coupon code already exists", nil)
			return
		}
		utils.LogError("Failed to create coupon: %v", err)
		utils.InternalServerError(c, "Failed to create coupon", err.Error())
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit transaction: %v", err)
		utils.InternalServerError(c, "Failed to commit transaction", nil)
		return
	}

	utils.LogInfo("Successfully created coupon with code: %s, ID: %d", coupon.Code, coupon.ID)
	utils.Created(c, "Coupon created successfully", couponResponse(coupon))
}

// couponResponse is the admin-facing shape of a coupon
func couponResponse(coupon models.Coupon) gin.H {
	isExpired := coupon.ExpiryDate != nil && time.Now().After(*coupon.ExpiryDate)
	return gin.H{
		"id":               coupon.ID,
		"code":             coupon.Code,
		"discount_type":    coupon.DiscountType,
		"discount_value":   coupon.DiscountValue,
		"status":           coupon.Status,
		"start_date":       coupon.StartDate,
		"expiry_date":      coupon.ExpiryDate,
		"applicable_plans": coupon.ApplicablePlans,
		"max_usage":        coupon.MaxUsage,
		"per_user_limit":   coupon.PerUserLimit,
		"used_count":       coupon.UsedCount,
		"is_expired":       isExpired,
		"created_at":       coupon.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
