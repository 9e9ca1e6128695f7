package controllers

import (
	"strconv"

	"github.com/anjha1/Fluenzy-AI-sub001/config"
	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"github.com/anjha1/Fluenzy-AI-sub001/utils"
	"github.com/gin-gonic/gin"
)

// DeleteCoupon soft deletes a coupon. Redemption records are kept for audit.
func DeleteCoupon(c *gin.Context) {
	utils.LogInfo("DeleteCoupon called")

	couponID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid coupon ID", nil)
		return
	}

	var coupon models.Coupon
	if err := config.DB.First(&coupon, couponID).Error; err != nil {
		utils.LogError("Coupon not found: %d", couponID)
		utils.NotFound(c, "Coupon not found")
		return
	}

	if err := config.DB.Delete(&coupon).Error; err != nil {
		utils.LogError("Failed to delete coupon %d: %v", coupon.ID, err)
		utils.InternalServerError(c, "Failed to delete coupon", nil)
		return
	}

	utils.LogInfo("Deleted coupon ID: %d, code: %s", coupon.ID, coupon.Code)
	utils.Success(c, "Coupon deleted successfully", gin.H{"id": coupon.ID})
}

// ListCoupons returns all coupons with usage stats, newest first
func ListCoupons(c *gin.Context) {
	utils.LogInfo("ListCoupons called")

	pagination := utils.NewPagination(c)

	var total int64
	if err := config.DB.Model(&models.Coupon{}).Count(&total).Error; err != nil {
		utils.LogError("Failed to count coupons: %v", err)
		utils.InternalServerError(c, "Failed to fetch coupons", nil)
		return
	}
	pagination.SetTotal(total)

	var coupons []models.Coupon
	if err := config.DB.Order("created_at DESC").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&coupons).Error; err != nil {
		utils.LogError("Failed to fetch coupons: %v", err)
		utils.InternalServerError(c, "Failed to fetch coupons", nil)
		return
	}

	items := make([]gin.H, 0, len(coupons))
	for _, coupon := range coupons {
		items = append(items, couponResponse(coupon))
	}

	utils.SuccessWithPagination(c, "Coupons retrieved successfully", items, pagination)
}

// GetCouponUsage returns the redemption records for one coupon
func GetCouponUsage(c *gin.Context) {
	couponID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid coupon ID", nil)
		return
	}

	var coupon models.Coupon
	if err := config.DB.First(&coupon, couponID).Error; err != nil {
		utils.NotFound(c, "Coupon not found")
		return
	}

	var usages []models.CouponUsage
	if err := config.DB.Where("coupon_id = ?", coupon.ID).Order("used_at DESC").Find(&usages).Error; err != nil {
		utils.LogError("Failed to fetch coupon usage for coupon %d: %v", coupon.ID, err)
		utils.InternalServerError(c, "Failed to fetch coupon usage", nil)
		return
	}

	utils.Success(c, "Coupon usage retrieved successfully", gin.H{
		"coupon":     couponResponse(coupon),
		"usages":     usages,
		"used_count": coupon.UsedCount,
	})
}
