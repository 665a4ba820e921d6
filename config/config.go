// File: /config/config.go
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	// Redis (collection change notifications between instances)
	RedisAddr string
	RedisDB   int

	// Wallet
	StartingBalance int64

	// Draft registry
	DraftTTLMinutes int

	// Email Configuration
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

func Load() *Config {
	// .env is optional; real env vars win either way
	_ = godotenv.Load()

	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "2525"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	startingBalance, _ := strconv.ParseInt(getEnv("STARTING_BALANCE", "100"), 10, 64)
	draftTTL, _ := strconv.Atoi(getEnv("DRAFT_TTL_MINUTES", "60"))

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "user:password@tcp(localhost:3306)/fiesta?charset=utf8mb4&parseTime=True&loc=Local"),
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key"),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:   redisDB,

		StartingBalance: startingBalance,
		DraftTTLMinutes: draftTTL,

		// Email settings
		SMTPHost:     getEnv("SMTP_HOST", "sandbox.smtp.mailtrap.io"),
		SMTPPort:     smtpPort,
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@fiesta.events"),
		FromName:     getEnv("FROM_NAME", "Fiesta"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
