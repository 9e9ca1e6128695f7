package utils

import (
	"fmt"
	"testing"
	"time"

	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func activeCoupon() *models.Coupon {
	return &models.Coupon{
		Code:          "WELCOME10",
		DiscountType:  DiscountPercentage,
		DiscountValue: 10,
		Status:        "active",
	}
}

func TestPlanBasePrice(t *testing.T) {
	assert.Equal(t, 499.0, PlanBasePrice(499, CycleMonthly))
	// annual carries the uniform 20% discount: 499 * 12 * 0.8 = 4790.4 -> 4790
	assert.Equal(t, 4790.0, PlanBasePrice(499, CycleAnnual))
	assert.Equal(t, 9590.0, PlanBasePrice(999, CycleAnnual))
	assert.Equal(t, 0.0, PlanBasePrice(0, CycleAnnual))
}

func TestValidateCouponRulesOrder(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	t.Run("inactive status wins over every other rule", func(t *testing.T) {
		coupon := activeCoupon()
		coupon.Status = "disabled"
		coupon.ExpiryDate = &past // also expired
		appErr := ValidateCouponRules(coupon, now, PlanStandard, 0, 0)
		require.NotNil(t, appErr)
		assert.Equal(t, "Coupon is inactive", appErr.Message)
	})

	t.Run("status comparison is case-insensitive", func(t *testing.T) {
		coupon := activeCoupon()
		coupon.Status = "ACTIVE"
		assert.Nil(t, ValidateCouponRules(coupon, now, PlanStandard, 0, 0))
	})

	t.Run("not started yet", func(t *testing.T) {
		coupon := activeCoupon()
		coupon.StartDate = &future
		appErr := ValidateCouponRules(coupon, now, PlanStandard, 0, 0)
		require.NotNil(t, appErr)
		assert.Equal(t, "Coupon is not active yet", appErr.Message)
	})

	t.Run("expired", func(t *testing.T) {
		coupon := activeCoupon()
		coupon.ExpiryDate = &past
		appErr := ValidateCouponRules(coupon, now, PlanStandard, 0, 0)
		require.NotNil(t, appErr)
		assert.Equal(t, "Coupon has expired", appErr.Message)
	})

	t.Run("plan allowlist", func(t *testing.T) {
		coupon := activeCoupon()
		coupon.ApplicablePlans = "pro, standard"
		assert.Nil(t, ValidateCouponRules(coupon, now, PlanStandard, 0, 0))

		appErr := ValidateCouponRules(coupon, now, PlanFree, 0, 0)
		require.NotNil(t, appErr)
		assert.Equal(t, "Coupon is not valid for this plan", appErr.Message)
	})

	t.Run("empty allowlist applies to all plans", func(t *testing.T) {
		coupon := activeCoupon()
		assert.Nil(t, ValidateCouponRules(coupon, now, PlanPro, 0, 0))
	})

	t.Run("global usage cap", func(t *testing.T) {
		coupon := activeCoupon()
		coupon.MaxUsage = 5
		assert.Nil(t, ValidateCouponRules(coupon, now, PlanStandard, 4, 0))

		appErr := ValidateCouponRules(coupon, now, PlanStandard, 5, 0)
		require.NotNil(t, appErr)
		assert.Equal(t, "Coupon usage limit reached", appErr.Message)
	})

	t.Run("zero max usage means no global cap", func(t *testing.T) {
		coupon := activeCoupon()
		coupon.MaxUsage = 0
		assert.Nil(t, ValidateCouponRules(coupon, now, PlanStandard, 100000, 0))
	})

	t.Run("per-user limit defaults to one", func(t *testing.T) {
		coupon := activeCoupon()
		coupon.PerUserLimit = 0
		appErr := ValidateCouponRules(coupon, now, PlanStandard, 0, 1)
		require.NotNil(t, appErr)
		assert.Equal(t, "You have already used this coupon", appErr.Message)
	})

	t.Run("per-user limit above one", func(t *testing.T) {
		coupon := activeCoupon()
		coupon.PerUserLimit = 3
		assert.Nil(t, ValidateCouponRules(coupon, now, PlanStandard, 0, 2))
		assert.NotNil(t, ValidateCouponRules(coupon, now, PlanStandard, 0, 3))
	})
}

func TestCouponDiscount(t *testing.T) {
	t.Run("percentage", func(t *testing.T) {
		coupon := activeCoupon()
		coupon.DiscountType = "percentage" // case-insensitive
		coupon.DiscountValue = 25
		assert.Equal(t, 124.75, CouponDiscount(coupon, 499))
	})

	t.Run("hundred percent covers the full price", func(t *testing.T) {
		coupon := activeCoupon()
		coupon.DiscountValue = 100
		assert.Equal(t, 499.0, CouponDiscount(coupon, 499))
	})

	t.Run("flat", func(t *testing.T) {
		coupon := activeCoupon()
		coupon.DiscountType = DiscountFlat
		coupon.DiscountValue = 200
		assert.Equal(t, 200.0, CouponDiscount(coupon, 499))
	})

	t.Run("flat discount capped at base price", func(t *testing.T) {
		coupon := activeCoupon()
		coupon.DiscountType = DiscountFlat
		coupon.DiscountValue = 700
		assert.Equal(t, 499.0, CouponDiscount(coupon, 499))
	})

	t.Run("unknown type treated as flat", func(t *testing.T) {
		coupon := activeCoupon()
		coupon.DiscountType = "fixed"
		coupon.DiscountValue = 50
		assert.Equal(t, 50.0, CouponDiscount(coupon, 499))
	})

	t.Run("negative value clamped to zero", func(t *testing.T) {
		coupon := activeCoupon()
		coupon.DiscountType = DiscountFlat
		coupon.DiscountValue = -10
		assert.Equal(t, 0.0, CouponDiscount(coupon, 499))
	})
}

func TestCouponAppliesToPlanTrimsWhitespace(t *testing.T) {
	coupon := activeCoupon()
	coupon.ApplicablePlans = "  PRO ,standard  "
	assert.True(t, couponAppliesToPlan(coupon, "pro"))
	assert.True(t, couponAppliesToPlan(coupon, "standard"))
	assert.False(t, couponAppliesToPlan(coupon, "free"))
}

func newCouponTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:coupon_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Coupon{}, &models.CouponUsage{}))
	return db
}

func redeemOnce(t *testing.T, db *gorm.DB, quote *PricingQuote, userID uint) *AppError {
	t.Helper()
	tx := db.Begin()
	require.NoError(t, tx.Error)
	if appErr := RecordCouponRedemption(tx, quote, userID); appErr != nil {
		tx.Rollback()
		return appErr
	}
	require.NoError(t, tx.Commit().Error)
	return nil
}

func TestRecordCouponRedemptionEnforcesPerUserLimit(t *testing.T) {
	db := newCouponTestDB(t)

	coupon := models.Coupon{
		Code:          "ONCE10",
		DiscountType:  DiscountFlat,
		DiscountValue: 10,
		Status:        "active",
		PerUserLimit:  1,
	}
	require.NoError(t, db.Create(&coupon).Error)

	quote := &PricingQuote{
		Plan:           PlanStandard,
		BillingCycle:   CycleMonthly,
		BasePrice:      499,
		DiscountAmount: 10,
		FinalPrice:     489,
		CouponCode:     coupon.Code,
		CouponID:       coupon.ID,
	}

	require.Nil(t, redeemOnce(t, db, quote, 7))

	// a second checkout by the same user passed quote-time validation
	// before the first one committed; the in-transaction check rejects it
	appErr := redeemOnce(t, db, quote, 7)
	require.NotNil(t, appErr)
	assert.Equal(t, "You have already used this coupon", appErr.Message)

	// a different user is unaffected
	require.Nil(t, redeemOnce(t, db, quote, 8))

	var rows []models.CouponUsage
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, uint(7), rows[0].UserID)
	assert.Equal(t, uint(8), rows[1].UserID)

	var stored models.Coupon
	require.NoError(t, db.First(&stored, coupon.ID).Error)
	assert.Equal(t, 2, stored.UsedCount)
}

func TestRecordCouponRedemptionPerUserLimitZeroMeansOne(t *testing.T) {
	db := newCouponTestDB(t)

	coupon := models.Coupon{
		Code:          "DEFAULT10",
		DiscountType:  DiscountFlat,
		DiscountValue: 10,
		Status:        "active",
		PerUserLimit:  0,
	}
	require.NoError(t, db.Create(&coupon).Error)

	quote := &PricingQuote{
		Plan:           PlanStandard,
		BillingCycle:   CycleMonthly,
		BasePrice:      499,
		DiscountAmount: 10,
		FinalPrice:     489,
		CouponCode:     coupon.Code,
		CouponID:       coupon.ID,
	}

	require.Nil(t, redeemOnce(t, db, quote, 7))
	appErr := redeemOnce(t, db, quote, 7)
	require.NotNil(t, appErr)
	assert.Equal(t, "You have already used this coupon", appErr.Message)
}
