package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every externally-configured value. It is built once in
// main and passed down; nothing reads the environment after startup.
type Config struct {
	Port    string
	BaseURL string

	// Twilio
	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string

	// Paystack
	PaystackSecretKey string

	// SendGrid
	SendGridAPIKey string
	EmailFrom      string
	EmailFromName  string

	// External CV analysis API (optional; heuristic fallback when empty)
	AnalysisAPIURL string

	// S3 document storage
	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string

	// Payments
	AdvancedReviewPrice int
	PaymentCurrency     string

	// Sessions
	SessionTTL time.Duration

	UseMemoryStore           bool
	DisableWebhookValidation bool
}

// Load reads configuration from the environment, loading a local .env
// first when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found - using environment variables")
	}

	cfg := &Config{
		Port:                     getEnv("PORT", "8080"),
		BaseURL:                  getEnv("BASE_URL", "http://localhost:8080"),
		TwilioAccountSID:         os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:          os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppFrom:       getEnv("TWILIO_WHATSAPP_FROM", "whatsapp:+14155238886"),
		PaystackSecretKey:        os.Getenv("PAYSTACK_SECRET_KEY"),
		SendGridAPIKey:           os.Getenv("SENDGRID_API_KEY"),
		EmailFrom:                getEnv("EMAIL_FROM", "reviews@sherlockbot.com"),
		EmailFromName:            getEnv("EMAIL_FROM_NAME", "Sherlock CV Review"),
		AnalysisAPIURL:           os.Getenv("CV_ANALYSIS_API_URL"),
		AwsAccessKey:             os.Getenv("AWS_ACCESS_KEY_ID"),
		AwsSecretKey:             os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AwsRegion:                getEnv("AWS_REGION", "us-east-1"),
		BucketName:               os.Getenv("S3_BUCKET_NAME"),
		AdvancedReviewPrice:      getEnvInt("ADVANCED_REVIEW_PRICE", 5000),
		PaymentCurrency:          getEnv("PAYMENT_CURRENCY", "NGN"),
		SessionTTL:               time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		UseMemoryStore:           os.Getenv("USE_MEMORY_STORE") == "true",
		DisableWebhookValidation: os.Getenv("DISABLE_WEBHOOK_VALIDATION") == "true",
	}

	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" {
		return nil, fmt.Errorf("missing Twilio credentials in environment variables")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid value for %s: %q, using default %d", key, value, fallback)
		return fallback
	}
	return n
}
