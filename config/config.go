package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port          string
	AppEnv        string
	PublicBaseURL string

	DBDriver   string // postgres, mysql or sqlite
	DBDSN      string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	JWTKey        string
	SaltRound     int
	SessionCookie string
	UploadDir     string

	SendGridAPIKey string
	MailSender     string
	MailSenderName string

	WompiPublicKey    string
	WompiIntegrityKey string
	WompiEventsKey    string // optional, enables webhook checksum verification
	WompiPrivateKey   string // used by the reconciler for transaction lookups
	WompiAPIURL       string
	WompiCheckoutURL  string
	WompiRedirectURL  string
	WompiCurrency     string
	MinDonation       int

	ReconcileCron         string
	ReconcileAfterMinutes int

	AdminUsername string
	AdminEmail    string
	AdminDocument string
	AdminPassword string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = FromEnv()

	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if !AppConfig.GatewayConfigured() {
		log.Println("Warning: WOMPI_PUBLIC_KEY or WOMPI_INTEGRITY_KEY not set. Donations are disabled.")
	}
}

// FromEnv builds a Config from the current process environment.
func FromEnv() *Config {
	return &Config{
		Port:          getEnv("PORT", "3000"),
		AppEnv:        getEnv("APP_ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBDSN:      getEnv("DB_DSN", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "levelup"),
		DBPort:     getEnv("DB_PORT", "5432"),

		JWTKey:        getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound:     getEnvInt("SALT_ROUND", 10),
		SessionCookie: getEnv("SESSION_COOKIE", "levelup_session"),
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		MailSender:     getEnv("MAIL_SENDER", ""),
		MailSenderName: getEnv("MAIL_SENDER_NAME", "LevelUp"),

		WompiPublicKey:    getEnv("WOMPI_PUBLIC_KEY", ""),
		WompiIntegrityKey: getEnv("WOMPI_INTEGRITY_KEY", ""),
		WompiEventsKey:    getEnv("WOMPI_EVENTS_KEY", ""),
		WompiPrivateKey:   getEnv("WOMPI_PRIVATE_KEY", ""),
		WompiAPIURL:       getEnv("WOMPI_API_URL", ""),
		WompiCheckoutURL:  getEnv("WOMPI_CHECKOUT_URL", "https://checkout.wompi.co/p/"),
		WompiRedirectURL:  getEnv("WOMPI_REDIRECT_URL", ""),
		WompiCurrency:     getEnv("WOMPI_CURRENCY", "COP"),
		MinDonation:       getEnvInt("MIN_DONATION", 100),

		ReconcileCron:         getEnv("RECONCILE_CRON", ""),
		ReconcileAfterMinutes: getEnvInt("RECONCILE_AFTER_MINUTES", 30),

		AdminUsername: getEnv("ADMIN_USERNAME", ""),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminDocument: getEnv("ADMIN_DOCUMENT", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}
}

// GatewayConfigured reports whether the checkout credentials are present.
func (c *Config) GatewayConfigured() bool {
	return c.WompiPublicKey != "" && c.WompiIntegrityKey != ""
}

// PostgresDSN builds the connection string from the discrete DB_* settings
// when DB_DSN is empty.
func (c *Config) PostgresDSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
