package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port     string
	LogLevel string

	// Data files owned by this service.
	ReceiptLogPath string
	ChartPath      string
	RoleMapPath    string
	DatabasePath   string

	// Tax ID of the shop itself; receipts are classified as sales or
	// purchases by comparing their vendor/buyer tax IDs against this.
	OrgTaxID string

	JWTSecret          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	// Upper bound on a single receipt-log read. The log is the only
	// unbounded-latency dependency of a report request.
	ReceiptReadTimeout time.Duration

	ReportCacheExpiry  time.Duration
	ReportCacheCleanup time.Duration
}

var Cfg *AppConfig

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: no .env file found, relying on OS environment variables and defaults.")
	} else {
		log.Println(".env file loaded successfully.")
	}

	jwtSecret := getEnv("JWT_SECRET", "insecure-development-jwt-secret-minimum-32-bytes!")
	if jwtSecret == "insecure-development-jwt-secret-minimum-32-bytes!" {
		log.Println("WARNING: Using default insecure JWT_SECRET. Set JWT_SECRET for production.")
	}

	orgTaxID := getEnv("ORG_TAX_ID", "")
	if orgTaxID == "" {
		log.Println("WARNING: ORG_TAX_ID not set. Receipts will be classified solely by their explicit type field.")
	}

	Cfg = &AppConfig{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		ReceiptLogPath: getEnv("RECEIPT_LOG_PATH", "data/receipts.ndjson"),
		ChartPath:      getEnv("CHART_PATH", "data/accounts.json"),
		RoleMapPath:    getEnv("ROLE_MAP_PATH", "data/account-roles.json"),
		DatabasePath:   getEnv("DATABASE_PATH", "./goldbooks.db"),

		OrgTaxID: orgTaxID,

		JWTSecret:          jwtSecret,
		AccessTokenExpiry:  getEnvAsDuration("ACCESS_TOKEN_EXPIRY", 60*time.Minute),
		RefreshTokenExpiry: getEnvAsDuration("REFRESH_TOKEN_EXPIRY", 168*time.Hour),

		ReceiptReadTimeout: getEnvAsDuration("RECEIPT_READ_TIMEOUT", 10*time.Second),

		ReportCacheExpiry:  getEnvAsDuration("REPORT_CACHE_EXPIRY", 15*time.Minute),
		ReportCacheCleanup: getEnvAsDuration("REPORT_CACHE_CLEANUP", 30*time.Minute),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, ReceiptLog=%s, Chart=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.ReceiptLogPath, Cfg.ChartPath)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}
