package controllers

import (
	"strconv"
	"strings"
	"time"

	"github.com/anjha1/Fluenzy-AI-sub001/config"
	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"github.com/anjha1/Fluenzy-AI-sub001/utils"
	"github.com/gin-gonic/gin"
)

// UpdateCouponRequest represents the request body for updating a coupon.
// All fields are optional; only supplied fields change.
type UpdateCouponRequest struct {
	DiscountType    *string    `json:"discount_type"`
	DiscountValue   *float64   `json:"discount_value"`
	Status          *string    `json:"status"`
	StartDate       *time.Time `json:"start_date"`
	ExpiryDate      *time.Time `json:"expiry_date"`
	ApplicablePlans *[]string  `json:"applicable_plans"`
	MaxUsage        *int       `json:"max_usage"`
	PerUserLimit    *int       `json:"per_user_limit"`
}

// UpdateCoupon updates an existing coupon. The code itself is immutable once
// the coupon has redemptions, since changing it would break the audit trail.
func UpdateCoupon(c *gin.Context) {
	utils.LogInfo("UpdateCoupon called")

	couponID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid coupon ID", nil)
		return
	}

	var req UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var coupon models.Coupon
	if err := config.DB.First(&coupon, couponID).Error; err != nil {
		utils.LogError("Coupon not found: %d", couponID)
		utils.NotFound(c, "Coupon not found")
		return
	}

	updates := map[string]interface{}{}

	if req.DiscountType != nil || req.DiscountValue != nil {
		discountType := coupon.DiscountType
		if req.DiscountType != nil {
			discountType = *req.DiscountType
		}
		value := coupon.DiscountValue
		if req.DiscountValue != nil {
			value = *req.DiscountValue
		}
		canonical, _, appErr := validateCouponRequest(discountType, value, nil)
		if appErr != nil {
			utils.AppErrorResponse(c, appErr)
			return
		}
		updates["discount_type"] = canonical
		updates["discount_value"] = value
	}

	if req.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*req.Status))
		if status != "active" && status != "inactive" {
			utils.BadRequest(c, "Status must be active or inactive", nil)
			return
		}
		updates["status"] = status
	}

	if req.StartDate != nil {
		updates["start_date"] = req.StartDate
	}
	if req.ExpiryDate != nil {
		updates["expiry_date"] = req.ExpiryDate
	}
	if req.ApplicablePlans != nil {
		_, plans, appErr := validateCouponRequest(coupon.DiscountType, coupon.DiscountValue, *req.ApplicablePlans)
		if appErr != nil {
			utils.AppErrorResponse(c, appErr)
			return
		}
		updates["applicable_plans"] = plans
	}
	if req.MaxUsage != nil {
		if *req.MaxUsage < 0 {
			utils.BadRequest(c, "Max usage cannot be negative", nil)
			return
		}
		updates["max_usage"] = *req.MaxUsage
	}
	if req.PerUserLimit != nil {
		if *req.PerUserLimit < 0 {
			utils.BadRequest(c, "Per-user limit cannot be negative", nil)
			return
		}
		updates["per_user_limit"] = *req.PerUserLimit
	}

	if len(updates) == 0 {
		utils.BadRequest(c, "No fields to update", nil)
		return
	}

	if err := config.DB.Model(&coupon).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update coupon %d: %v", coupon.ID, err)
		utils.InternalServerError(c, "Failed to update coupon", nil)
		return
	}

	if err := config.DB.First(&coupon, coupon.ID).Error; err != nil {
		utils.InternalServerError(c, "Failed to reload coupon", nil)
		return
	}

	utils.LogInfo("Successfully updated coupon ID: %d", coupon.ID)
	utils.Success(c, "Coupon updated successfully", couponResponse(coupon))
}
