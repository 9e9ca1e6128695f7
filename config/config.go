package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	JWTSecret          string
	Port               string
	Env                string
	RazorpayKey        string
	RazorpaySecret     string
	PayFrontBaseURL    string
	PayFrontAPIKey     string
	PayFrontSecret     string
	SMTPHost           string
	SMTPPort           string
	SMTPUsername       string
	SMTPPassword       string
	FrontendURL        string
	GoogleClientID     string
	GoogleClientSecret string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading .env file: %v", err)
	}

	config := &Config{
		DBHost:             os.Getenv("DB_HOST"),
		DBPort:             os.Getenv("DB_PORT"),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             os.Getenv("DB_NAME"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		Port:               os.Getenv("PORT"),
		Env:                os.Getenv("ENV"),
		RazorpayKey:        os.Getenv("RAZORPAY_KEY"),
		RazorpaySecret:     os.Getenv("RAZORPAY_SECRET"),
		PayFrontBaseURL:    os.Getenv("PAYFRONT_BASE_URL"),
		PayFrontAPIKey:     os.Getenv("PAYFRONT_API_KEY"),
		PayFrontSecret:     os.Getenv("PAYFRONT_SECRET"),
		SMTPHost:           os.Getenv("SMTP_HOST"),
		SMTPPort:           os.Getenv("SMTP_PORT"),
		SMTPUsername:       os.Getenv("SMTP_USERNAME"),
		SMTPPassword:       os.Getenv("SMTP_PASSWORD"),
		FrontendURL:        os.Getenv("FRONTEND_URL"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
	}

	return config, nil
}
