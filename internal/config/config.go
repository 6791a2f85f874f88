package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	MongoURI    string
	DBName      string
	SkipAuth    bool
	Environment string
	AppId       string
	FSPath      string // Physical directory for attachment uploads
	FSURL       string // URL path prefix for attachment access

	// SMTP settings for fire-and-forget notification mail
	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	FromEmail string

	// Reminder job: cron schedule and how old a pending approval must be
	// (in hours) before its approver gets nudged.
	ReminderSchedule string
	PendingMaxAgeHrs int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		JWTSecret:        getEnv("JWT_SECRET", "secret"),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:           getEnv("DB_NAME", "reqdesk"),
		SkipAuth:         getEnv("SKIP_AUTH", "false") == "true",
		Environment:      getEnv("ENVIRONMENT", "development"),
		AppId:            getEnv("APP_ID", "reqdesk"),
		FSPath:           getEnv("FS_PATH", "./uploads"),
		FSURL:            getEnv("FS_URL", "/fs/uploads"),
		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         getEnvInt("SMTP_PORT", 587),
		SMTPUser:         getEnv("SMTP_USER", ""),
		SMTPPass:         getEnv("SMTP_PASS", ""),
		FromEmail:        getEnv("FROM_EMAIL", "noreply@reqdesk.local"),
		ReminderSchedule: getEnv("REMINDER_SCHEDULE", "0 8 * * *"),
		PendingMaxAgeHrs: getEnvInt("PENDING_MAX_AGE_HRS", 24),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
