package utils

import (
	"testing"

	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateUsageMetered(t *testing.T) {
	settings := &models.GlobalPlanSettings{Plan: PlanFree, MonthlyLimit: 3}

	t.Run("under the limit", func(t *testing.T) {
		result := EvaluateUsage(settings, "english", 2)
		assert.True(t, result.Allowed)
		assert.False(t, result.Unlimited)
		assert.Equal(t, 2, result.Usage)
		assert.Equal(t, 3, result.Limit)
		assert.Equal(t, 1, result.Remaining)
	})

	t.Run("at the limit", func(t *testing.T) {
		result := EvaluateUsage(settings, "english", 3)
		assert.False(t, result.Allowed)
		assert.Equal(t, 0, result.Remaining)
	})

	t.Run("over the limit never reports negative remaining", func(t *testing.T) {
		result := EvaluateUsage(settings, "english", 7)
		assert.False(t, result.Allowed)
		assert.Equal(t, 0, result.Remaining)
	})

	t.Run("zero limit blocks immediately", func(t *testing.T) {
		blocked := &models.GlobalPlanSettings{Plan: PlanFree, MonthlyLimit: 0}
		result := EvaluateUsage(blocked, "english", 0)
		assert.False(t, result.Allowed)
	})
}

func TestEvaluateUsageUnlimited(t *testing.T) {
	settings := &models.GlobalPlanSettings{Plan: PlanPro, IsUnlimited: true, MonthlyLimit: 100}

	result := EvaluateUsage(settings, "mock", 500)
	assert.True(t, result.Allowed)
	assert.True(t, result.Unlimited)
	// counters keep recording even when unmetered
	assert.Equal(t, 500, result.Usage)
	assert.Equal(t, -1, result.Remaining)
}
