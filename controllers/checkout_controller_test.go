package controllers

import (
	"fmt"
	"testing"

	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"github.com/anjha1/Fluenzy-AI-sub001/utils"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:checkout_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.ModuleUsage{},
		&models.Coupon{},
		&models.CouponUsage{},
		&models.PaymentHistory{},
		&models.Receipt{},
	))
	return db
}

func TestCompletePaymentSettlesOnlyOnce(t *testing.T) {
	db := newCheckoutTestDB(t)

	user := models.User{
		Username: "asha",
		Email:    "asha@example.com",
		Plan:     utils.PlanFree,
	}
	require.NoError(t, db.Create(&user).Error)

	coupon := models.Coupon{
		Code:          "WELCOME50",
		DiscountType:  utils.DiscountPercentage,
		DiscountValue: 50,
		Status:        "active",
		PerUserLimit:  1,
	}
	require.NoError(t, db.Create(&coupon).Error)

	payment := models.PaymentHistory{
		UserID:          user.ID,
		Provider:        utils.ProviderRazorpay,
		ProviderOrderID: "order_dup_check",
		Plan:            utils.PlanStandard,
		BillingCycle:    utils.CycleMonthly,
		BasePrice:       499,
		DiscountAmount:  249.5,
		FinalPrice:      249.5,
		Currency:        "INR",
		CouponCode:      coupon.Code,
		Status:          "pending",
	}
	require.NoError(t, db.Create(&payment).Error)

	tx := db.Begin()
	require.NoError(t, tx.Error)
	receipt, appErr := completePayment(tx, &user, &payment, "pay_first", "card")
	require.Nil(t, appErr)
	require.NoError(t, tx.Commit().Error)
	require.NotNil(t, receipt)

	// a client verify racing the webhook reaches completePayment for the
	// same row; the conditional flip must reject it instead of finalizing
	// twice
	tx = db.Begin()
	require.NoError(t, tx.Error)
	_, appErr = completePayment(tx, &user, &payment, "pay_second", "card")
	tx.Rollback()
	require.NotNil(t, appErr)
	assert.Equal(t, errPaymentSettled, appErr)

	var stored models.PaymentHistory
	require.NoError(t, db.First(&stored, payment.ID).Error)
	assert.Equal(t, "completed", stored.Status)
	assert.Equal(t, "pay_first", stored.ProviderPaymentID)

	var usageCount, receiptCount int64
	require.NoError(t, db.Model(&models.CouponUsage{}).Count(&usageCount).Error)
	require.NoError(t, db.Model(&models.Receipt{}).Count(&receiptCount).Error)
	assert.EqualValues(t, 1, usageCount)
	assert.EqualValues(t, 1, receiptCount)

	var storedCoupon models.Coupon
	require.NoError(t, db.First(&storedCoupon, coupon.ID).Error)
	assert.Equal(t, 1, storedCoupon.UsedCount)

	var upgraded models.User
	require.NoError(t, db.First(&upgraded, user.ID).Error)
	assert.Equal(t, utils.PlanStandard, upgraded.Plan)
	require.NotNil(t, upgraded.RenewalDate)
}
