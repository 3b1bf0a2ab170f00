package utils

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// HTTP
	Port string `yaml:"PORT"`

	// JWT
	JWTSecret string `yaml:"JWT_SECRET"`

	// Civil timezone used to resolve "today" for every user-facing date.
	Timezone string `yaml:"TIMEZONE"`

	// Mailing configuration
	AppURL           string `yaml:"APP_URL"`
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`
	AlertEmail       string `yaml:"ALERT_EMAIL"`

	// Stripe configuration
	StripeSecretKey     string `yaml:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `yaml:"STRIPE_WEBHOOK_SECRET"`
	StripePriceID       string `yaml:"STRIPE_PRICE_ID"`
	AlertWebhookURL     string `yaml:"ALERT_WEBHOOK_URL"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	// OpenAI configuration
	OpenAIAPIKey string `yaml:"OPENAI_API_KEY"`
	OpenAIModel  string `yaml:"OPENAI_MODEL"`

	// Admin guard: bcrypt hash of the shared admin secret.
	AdminSecretHash string `yaml:"ADMIN_SECRET_HASH"`

	Plan      PlanConfig      `yaml:"plan"`
	Features  FeatureFlags    `yaml:"features"`
	Lifecycle LifecycleConfig `yaml:"lifecycle"`
}

// PlanConfig holds the free-tier limits and upgrade surface. Zero values are
// replaced by the hardcoded defaults.
type PlanConfig struct {
	FreeFoodEntriesPerDay int    `yaml:"free_food_entries_per_day"`
	FreeAiActionsPerDay   int    `yaml:"free_ai_actions_per_day"`
	FreeHistoryDays       int    `yaml:"free_history_days"`
	MonthlyPriceCents     int    `yaml:"monthly_price_cents"`
	UpgradeURL            string `yaml:"upgrade_url"`
}

// FeatureFlags replace per-call "is this table migrated yet" error sniffing:
// each optional schema capability is declared once here.
type FeatureFlags struct {
	ReferralClaims bool `yaml:"referral_claims"`
	AuditLog       bool `yaml:"audit_log"`
}

type LifecycleConfig struct {
	ArchiveAfterDays int   `yaml:"archive_after_days"`
	ArchiveMaxRows   int64 `yaml:"archive_max_rows"`
}

var config Config

func LoadConfig() {
	if err := godotenv.Load(); err == nil {
		log.Println("loaded environment from .env")
	}

	file, err := os.ReadFile("config.yaml")
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
	} else if err := yaml.Unmarshal(file, &config); err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
	}

	applyEnvOverrides()
	applyDefaults()
}

func applyEnvOverrides() {
	envOverride(&config.DBUser, "DB_USER")
	envOverride(&config.DBName, "DB_NAME")
	envOverride(&config.DBPassword, "DB_PASSWORD")
	envOverride(&config.DBPort, "DB_PORT")
	envOverride(&config.DBHost, "DB_HOST")
	envOverride(&config.Port, "PORT")
	envOverride(&config.JWTSecret, "JWT_SECRET")
	envOverride(&config.Timezone, "TIMEZONE")
	envOverride(&config.StripeSecretKey, "STRIPE_SECRET_KEY")
	envOverride(&config.StripeWebhookSecret, "STRIPE_WEBHOOK_SECRET")
	envOverride(&config.StripePriceID, "STRIPE_PRICE_ID")
	envOverride(&config.AlertWebhookURL, "ALERT_WEBHOOK_URL")
	envOverride(&config.AWSS3Bucket, "AWS_S3_BUCKET")
	envOverride(&config.AWSS3Region, "AWS_S3_REGION")
	envOverride(&config.AWSAccessKey, "AWS_ACCESS_KEY")
	envOverride(&config.AWSSecretKey, "AWS_SECRET_KEY")
	envOverride(&config.OpenAIAPIKey, "OPENAI_API_KEY")
	envOverride(&config.OpenAIModel, "OPENAI_MODEL")
	envOverride(&config.AdminSecretHash, "ADMIN_SECRET_HASH")
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func applyDefaults() {
	if config.Timezone == "" {
		config.Timezone = "America/New_York"
	}
	if config.OpenAIModel == "" {
		config.OpenAIModel = "gpt-4o-mini"
	}
	if config.Plan.FreeFoodEntriesPerDay <= 0 {
		config.Plan.FreeFoodEntriesPerDay = 5
	}
	if config.Plan.FreeAiActionsPerDay <= 0 {
		config.Plan.FreeAiActionsPerDay = 5
	}
	if config.Plan.FreeHistoryDays <= 0 {
		config.Plan.FreeHistoryDays = 20
	}
	if config.Plan.MonthlyPriceCents <= 0 {
		config.Plan.MonthlyPriceCents = 999
	}
	if config.Lifecycle.ArchiveAfterDays <= 0 {
		config.Lifecycle.ArchiveAfterDays = 365
	}
	if config.Lifecycle.ArchiveMaxRows <= 0 {
		config.Lifecycle.ArchiveMaxRows = 1000000
	}
}

func GetConfig(key string) string {
	switch key {
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "PORT":
		return config.Port
	case "JWT_SECRET":
		return config.JWTSecret
	case "TIMEZONE":
		return config.Timezone
	case "APP_URL":
		return config.AppURL
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "ALERT_EMAIL":
		return config.AlertEmail
	case "STRIPE_SECRET_KEY":
		return config.StripeSecretKey
	case "STRIPE_WEBHOOK_SECRET":
		return config.StripeWebhookSecret
	case "STRIPE_PRICE_ID":
		return config.StripePriceID
	case "ALERT_WEBHOOK_URL":
		return config.AlertWebhookURL
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	case "OPENAI_API_KEY":
		return config.OpenAIAPIKey
	case "OPENAI_MODEL":
		return config.OpenAIModel
	case "ADMIN_SECRET_HASH":
		return config.AdminSecretHash
	default:
		return ""
	}
}

func GetPlanConfig() PlanConfig {
	return config.Plan
}

func GetFeatures() FeatureFlags {
	return config.Features
}

func GetLifecycleConfig() LifecycleConfig {
	return config.Lifecycle
}
