package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

func smtpDialer() (*gomail.Dialer, string, error) {
	host := os.Getenv("SMTP_HOST")
	username := os.Getenv("SMTP_USERNAME")
	password := os.Getenv("SMTP_PASSWORD")
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = username
	}

	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port == 0 {
		port = 587
	}
	if host == "" {
		return nil, "", fmt.Errorf("SMTP not configured")
	}

	return gomail.NewDialer(host, port, username, password), from, nil
}

// SendEmail sends an HTML email via SMTP
func SendEmail(to, subject, body string) error {
	dialer, from, err := smtpDialer()
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// SendOTP sends a verification OTP via email
func SendOTP(to, otp string) error {
	body := fmt.Sprintf(`
		<h2>Verify your email</h2>
		<p>Your verification code is <strong>%s</strong>.</p>
		<p>The code expires in 10 minutes.</p>`, otp)
	return SendEmail(to, "Your verification code", body)
}

// SendReceiptEmail sends a payment confirmation mail. Best effort: callers
// log failures and never fail the payment because of mail problems.
func SendReceiptEmail(to, plan, receiptNumber string, amount float64, currency string) error {
	body := fmt.Sprintf(`
		<h2>Payment received</h2>
		<p>Thank you! Your <strong>%s</strong> plan is now active.</p>
		<p>Amount: %s %.2f</p>
		<p>Receipt number: %s</p>`, plan, currency, amount, receiptNumber)
	return SendEmail(to, "Your payment receipt", body)
}
