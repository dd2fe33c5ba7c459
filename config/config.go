package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	// Ledger limits, all amounts in centavos
	MinDepositAmount    int64
	FirstDepositBonus   int64
	MinWithdrawalAmount int64
	MaxWithdrawalAmount int64
	DailyWithdrawalCap  int64
	ChestBalanceMin     int64

	// Seconds before a PROCESSING admin withdrawal is auto-approved
	AutoApproveDelay int

	// Hours a PENDING gateway deposit may stay unconfirmed before the sweeper cancels it
	PendingDepositTTL int

	GatewayBaseURL   string
	GatewayClientID  string
	GatewaySecretKey string

	NotifySinkURL string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		MinDepositAmount:    getEnvInt64("MIN_DEPOSIT_AMOUNT", 3500),
		FirstDepositBonus:   getEnvInt64("FIRST_DEPOSIT_BONUS", 1000),
		MinWithdrawalAmount: getEnvInt64("MIN_WITHDRAWAL_AMOUNT", 5000),
		MaxWithdrawalAmount: getEnvInt64("MAX_WITHDRAWAL_AMOUNT", 500000),
		DailyWithdrawalCap:  getEnvInt64("DAILY_WITHDRAWAL_CAP", 1000000),
		ChestBalanceMin:     getEnvInt64("CHEST_BALANCE_MIN", 50000),

		AutoApproveDelay:  getEnvInt("AUTO_APPROVE_DELAY_SECONDS", 3),
		PendingDepositTTL: getEnvInt("PENDING_DEPOSIT_TTL_HOURS", 24),

		GatewayBaseURL:   getEnv("GATEWAY_BASE_URL", "https://api.sandbox.pixgate.dev/v1"),
		GatewayClientID:  getEnv("GATEWAY_CLIENT_ID", "sandbox"),
		GatewaySecretKey: getEnv("GATEWAY_SECRET_KEY", "sandbox"),

		NotifySinkURL: getEnv("NOTIFY_SINK_URL", ""),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
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

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Printf("Error converting environment variable %s to int64: %v", key, err)
		return defaultValue
	}
	return intValue
}
