package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/anjha1/Fluenzy-AI-sub001/config"
	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"github.com/anjha1/Fluenzy-AI-sub001/utils"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

// ListPaymentHistory returns the user's payment history, newest first
func ListPaymentHistory(c *gin.Context) {
	utils.LogInfo("ListPaymentHistory called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	pagination := utils.NewPagination(c)

	var total int64
	query := config.DB.Model(&models.PaymentHistory{}).Where("user_id = ?", user.ID)
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count payments for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch payment history", nil)
		return
	}
	pagination.SetTotal(total)

	var payments []models.PaymentHistory
	if err := query.Order("created_at DESC").Offset(pagination.Offset).Limit(pagination.Limit).Find(&payments).Error; err != nil {
		utils.LogError("Failed to fetch payments for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch payment history", nil)
		return
	}

	utils.SuccessWithPagination(c, "Payment history retrieved successfully", gin.H{"payments": payments}, pagination)
}

// DownloadReceipt generates and returns a PDF receipt for a completed payment
func DownloadReceipt(c *gin.Context) {
	utils.LogInfo("Starting receipt download process")

	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("Unauthorized receipt download attempt - no user found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)
	utils.LogInfo("User authenticated for receipt download: %s", user.Email)

	receiptID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.LogError("Invalid receipt ID format in download request: %v", err)
		utils.BadRequest(c, "Invalid receipt ID", nil)
		return
	}

	var receipt models.Receipt
	if err := config.DB.Where("id = ? AND user_id = ?", receiptID, user.ID).First(&receipt).Error; err != nil {
		utils.LogError("Receipt not found - Receipt ID: %d, User ID: %d", receiptID, user.ID)
		utils.NotFound(c, "Receipt not found")
		return
	}
	utils.LogInfo("Found receipt %s for user ID: %d", receipt.ReceiptNumber, user.ID)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Company info
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, "Fluenzy AI")
	pdf.SetFont("Arial", "", 12)
	pdf.Ln(8)
	pdf.Cell(100, 8, "AI interview practice and English coaching")
	pdf.Ln(8)
	pdf.Cell(100, 8, "Email: support@fluenzy.ai")
	pdf.Ln(12)

	// Receipt title and metadata
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "PAYMENT RECEIPT")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(90, 8, "Receipt No: "+receipt.ReceiptNumber)
	pdf.Cell(60, 8, "Date: "+receipt.IssuedAt.Format("2006-01-02 15:04:05"))
	pdf.Ln(8)
	pdf.Cell(90, 8, "Payment Method: "+receipt.PaymentMethod)
	pdf.Ln(8)

	// Customer info
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, "Billed To:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, receipt.UserName)
	pdf.Ln(6)
	pdf.Cell(100, 8, receipt.UserEmail)
	pdf.Ln(10)

	// Line item table
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(70, 8, "Plan", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, "Billing Cycle", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, "Price", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(70, 8, receipt.Plan, "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, receipt.BillingCycle, "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", receipt.BasePrice), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	// Summary section
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(110, 8, "Subtotal:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", receipt.BasePrice), "", 1, "R", false, 0, "")
	if receipt.CouponCode != "" {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(110, 8, "Discount ("+receipt.CouponCode+"):", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(40, 8, fmt.Sprintf("-%.2f", receipt.DiscountAmount), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(110, 10, "Amount Paid:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(40, 10, fmt.Sprintf("%s %.2f", receipt.Currency, receipt.FinalPrice), "", 1, "R", false, 0, "")

	// Thank you note
	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 12)
	pdf.Cell(0, 10, "Thank you for practicing with Fluenzy AI!")

	var buf bytes.Buffer
	_ = pdf.Output(&buf)
	utils.LogInfo("PDF receipt generated successfully for receipt %s", receipt.ReceiptNumber)

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename=receipt.pdf")
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	utils.LogInfo("Receipt download completed for receipt %s", receipt.ReceiptNumber)
}
