package utils

import (
	"fmt"

	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"gorm.io/gorm"
)

// UsageResult is the entitlement engine's answer for one user+module
type UsageResult struct {
	Module    string `json:"module"`
	Allowed   bool   `json:"allowed"`
	Unlimited bool   `json:"unlimited"`
	Usage     int    `json:"usage"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
}

// GetPlanSettings loads the quota settings row for a plan
func GetPlanSettings(db *gorm.DB, plan string) (*models.GlobalPlanSettings, error) {
	var settings models.GlobalPlanSettings
	if err := db.Where("plan = ?", plan).First(&settings).Error; err != nil {
		return nil, fmt.Errorf("no plan settings configured for plan %q: %w", plan, err)
	}
	return &settings, nil
}

// EvaluateUsage is the pure entitlement decision: given a plan's settings and
// a current counter value, decide whether one more session is allowed.
func EvaluateUsage(settings *models.GlobalPlanSettings, module string, usage int) UsageResult {
	if settings.IsUnlimited {
		return UsageResult{
			Module:    module,
			Allowed:   true,
			Unlimited: true,
			Usage:     usage,
			Limit:     0,
			Remaining: -1, // unmetered
		}
	}
	remaining := settings.MonthlyLimit - usage
	if remaining < 0 {
		remaining = 0
	}
	return UsageResult{
		Module:    module,
		Allowed:   usage < settings.MonthlyLimit,
		Unlimited: false,
		Usage:     usage,
		Limit:     settings.MonthlyLimit,
		Remaining: remaining,
	}
}

// CheckUsage reports whether the user may start one more session in the
// module. Read-only; never mutates the counter.
func CheckUsage(db *gorm.DB, user *models.User, module string) (UsageResult, error) {
	settings, err := GetPlanSettings(db, user.Plan)
	if err != nil {
		return UsageResult{}, err
	}
	usage, err := currentUsage(db, user.ID, module)
	if err != nil {
		return UsageResult{}, err
	}
	return EvaluateUsage(settings, module, usage), nil
}

// ConsumeUsage atomically consumes one unit of the user's quota for the
// module. The increment is a single conditional UPDATE guarded by the limit,
// so two concurrent requests for the same user+module cannot jointly push
// the counter past the cap. Unlimited plans always succeed; their counter is
// still recorded for reporting.
func ConsumeUsage(db *gorm.DB, user *models.User, module string) (UsageResult, error) {
	settings, err := GetPlanSettings(db, user.Plan)
	if err != nil {
		return UsageResult{}, err
	}

	if err := ensureUsageRow(db, user.ID, module); err != nil {
		return UsageResult{}, err
	}

	if settings.IsUnlimited {
		if err := db.Model(&models.ModuleUsage{}).
			Where("user_id = ? AND module = ?", user.ID, module).
			UpdateColumn("count", gorm.Expr("count + 1")).Error; err != nil {
			return UsageResult{}, err
		}
		usage, err := currentUsage(db, user.ID, module)
		if err != nil {
			return UsageResult{}, err
		}
		return EvaluateUsage(settings, module, usage), nil
	}

	res := db.Model(&models.ModuleUsage{}).
		Where("user_id = ? AND module = ? AND count < ?", user.ID, module, settings.MonthlyLimit).
		UpdateColumn("count", gorm.Expr("count + 1"))
	if res.Error != nil {
		return UsageResult{}, res.Error
	}

	usage, err := currentUsage(db, user.ID, module)
	if err != nil {
		return UsageResult{}, err
	}

	result := EvaluateUsage(settings, module, usage)
	if res.RowsAffected == 0 {
		// limit already reached; nothing was consumed
		result.Allowed = false
	}
	return result, nil
}

// GetAllUsage returns the usage state for every training module
func GetAllUsage(db *gorm.DB, user *models.User) ([]UsageResult, error) {
	settings, err := GetPlanSettings(db, user.Plan)
	if err != nil {
		return nil, err
	}

	var rows []models.ModuleUsage
	if err := db.Where("user_id = ?", user.ID).Find(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Module] = row.Count
	}

	results := make([]UsageResult, 0, len(TrainingModules))
	for _, module := range TrainingModules {
		results = append(results, EvaluateUsage(settings, module, counts[module]))
	}
	return results, nil
}

// ResetUserUsage zeroes all of one user's module counters. Called inside the
// plan-change transaction on upgrade/renewal.
func ResetUserUsage(tx *gorm.DB, userID uint) error {
	return tx.Model(&models.ModuleUsage{}).
		Where("user_id = ?", userID).
		UpdateColumn("count", 0).Error
}

// ResetAllUsage zeroes every counter in the system and stamps the reset time
// on all plan settings rows. Used by the admin monthly reset.
func ResetAllUsage(tx *gorm.DB) error {
	if err := tx.Model(&models.ModuleUsage{}).
		Where("count > 0").
		UpdateColumn("count", 0).Error; err != nil {
		return err
	}
	return tx.Model(&models.GlobalPlanSettings{}).
		Where("1 = 1").
		UpdateColumn("last_usage_reset", gorm.Expr("NOW()")).Error
}

func ensureUsageRow(db *gorm.DB, userID uint, module string) error {
	usage := models.ModuleUsage{UserID: userID, Module: module}
	return db.Where("user_id = ? AND module = ?", userID, module).
		FirstOrCreate(&usage).Error
}

func currentUsage(db *gorm.DB, userID uint, module string) (int, error) {
	var row models.ModuleUsage
	err := db.Where("user_id = ? AND module = ?", userID, module).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return row.Count, nil
}
