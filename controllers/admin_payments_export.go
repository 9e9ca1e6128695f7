package controllers

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/anjha1/Fluenzy-AI-sub001/config"
	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"github.com/anjha1/Fluenzy-AI-sub001/utils"
)

// Admin: Download payments report as Excel
func DownloadPaymentsReportExcel(c *gin.Context) {
	utils.LogInfo("DownloadPaymentsReportExcel called")

	period := c.DefaultQuery("period", "day")
	utils.LogDebug("Generating Excel report for period: %s", period)

	now := time.Now()
	var startDate, endDate time.Time

	switch period {
	case "day":
		startDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		endDate = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, now.Location())
	case "week":
		endDate = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, now.Location())
		startDate = endDate.AddDate(0, 0, -6)
		startDate = time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, startDate.Location())
	case "month":
		startDate = now.AddDate(0, 0, -30).Truncate(24 * time.Hour)
		endDate = now.Add(24 * time.Hour)
	default:
		utils.LogError("Invalid period specified: %s", period)
		utils.BadRequest(c, "Invalid period", "Period must be day, week, or month")
		return
	}

	var payments []models.PaymentHistory
	query := config.DB.Where("created_at >= ? AND created_at <= ? AND status = ?", startDate, endDate, "completed").
		Order("created_at DESC")
	if err := query.Find(&payments).Error; err != nil {
		utils.LogError("Failed to fetch payments: %v", err)
		utils.InternalServerError(c, "Failed to fetch payments", err.Error())
		return
	}
	utils.LogDebug("Retrieved %d payments for Excel report", len(payments))

	// --- Calculate summary ---
	var summary struct {
		TotalPayments   int
		TotalRevenue    float64
		TotalDiscounts  float64
		TotalCustomers  int
		CouponedUpgrade int
		AveragePayment  float64
	}
	customerSet := make(map[uint]bool)
	for _, payment := range payments {
		summary.TotalPayments++
		summary.TotalRevenue += payment.FinalPrice
		summary.TotalDiscounts += payment.DiscountAmount
		customerSet[payment.UserID] = true
		if payment.CouponCode != "" {
			summary.CouponedUpgrade++
		}
	}
	summary.TotalCustomers = len(customerSet)
	if summary.TotalPayments > 0 {
		summary.AveragePayment = math.Round((summary.TotalRevenue/float64(summary.TotalPayments))*100) / 100
	}
	summary.TotalRevenue = math.Round(summary.TotalRevenue*100) / 100
	summary.TotalDiscounts = math.Round(summary.TotalDiscounts*100) / 100

	// --- Excel Generation ---
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Payments Report")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", err.Error())
		return
	}
	utils.LogDebug("Created Excel sheet for payments report")

	// Company details
	companyRow := sheet.AddRow()
	companyRow.AddCell().SetString("FLUENZY AI - Payments Report")
	companyRow = sheet.AddRow()
	companyRow.AddCell().SetString("Email: support@fluenzy.ai")
	companyRow = sheet.AddRow()
	companyRow.AddCell().SetString("Period: " + strings.ToUpper(period) + " | " + startDate.Format("2006-01-02") + " to " + endDate.Format("2006-01-02"))
	sheet.AddRow() // spacing

	// Table headers
	headers := []string{"Payment ID", "User ID", "Date", "Provider", "Plan", "Billing Cycle", "Base Price", "Discount", "Amount Paid", "Coupon", "Method"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.SetString(h)
		style := xlsx.NewStyle()
		font := xlsx.DefaultFont()
		font.Bold = true
		style.Font = *font
		cell.SetStyle(style)
	}

	// Table rows
	for _, payment := range payments {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(payment.ID))
		row.AddCell().SetInt(int(payment.UserID))
		row.AddCell().SetString(payment.CreatedAt.Format("2006-01-02 15:04"))
		row.AddCell().SetString(payment.Provider)
		row.AddCell().SetString(payment.Plan)
		row.AddCell().SetString(payment.BillingCycle)
		row.AddCell().SetFloat(payment.BasePrice)
		row.AddCell().SetFloat(payment.DiscountAmount)
		row.AddCell().SetFloat(payment.FinalPrice)
		row.AddCell().SetString(payment.CouponCode)
		row.AddCell().SetString(payment.PaymentMethod)
	}

	sheet.AddRow() // spacing

	// --- Summary Section ---
	summaryRow := sheet.AddRow()
	summaryRow.AddCell().SetString("Summary")
	style := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	style.Font = *font
	summaryRow.Cells[0].SetStyle(style)

	summaryData := [][]string{
		{"Total Payments", fmt.Sprintf("%d", summary.TotalPayments)},
		{"Total Revenue", fmt.Sprintf("%.2f", summary.TotalRevenue)},
		{"Total Discounts", fmt.Sprintf("%.2f", summary.TotalDiscounts)},
		{"Total Customers", fmt.Sprintf("%d", summary.TotalCustomers)},
		{"Couponed Upgrades", fmt.Sprintf("%d", summary.CouponedUpgrade)},
		{"Avg. Payment", fmt.Sprintf("%.2f", summary.AveragePayment)},
	}
	for _, data := range summaryData {
		row := sheet.AddRow()
		row.AddCell().SetString(data[0])
		row.AddCell().SetString(data[1])
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=payments_report_%s.xlsx", period))
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		utils.InternalServerError(c, "Failed to write Excel file", err.Error())
		return
	}
	utils.LogInfo("Successfully generated Excel report for period %s", period)
}
