package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBPath    string
	BackupDir string

	JWTSecret   string
	JWTTTLHours int

	AlertScanIntervalMinutes int

	// Defaults applied to new cash-wallet groups
	DefaultValidityDays          int
	DefaultAlertDaysBeforeExpiry int

	// Seed admin account
	AdminUsername string
	AdminPassword string
}

// Load reads environment variables and returns a Config object
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using environment variables")
	}

	return &Config{
		Port: getEnv("PORT", "8080"),

		DBPath:    getEnv("DB_PATH", "data/mobile_lines.db"),
		BackupDir: getEnv("BACKUP_DIR", "data/backups"),

		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTTTLHours: getEnvInt("JWT_TTL_HOURS", 24),

		AlertScanIntervalMinutes: getEnvInt("ALERT_SCAN_INTERVAL_MINUTES", 30),

		DefaultValidityDays:          getEnvInt("DEFAULT_VALIDITY_DAYS", 60),
		DefaultAlertDaysBeforeExpiry: getEnvInt("DEFAULT_ALERT_DAYS_BEFORE_EXPIRY", 7),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
