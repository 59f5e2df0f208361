package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all environment-driven settings for the server.
type Config struct {
	Port        string
	MongoURI    string
	DBName      string
	JWTSecret   string
	TokenExpiry time.Duration

	OpenAIKey   string
	OpenAIModel string

	FirebaseCredentials string

	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPPassword string

	SchedulerSpec      string
	SchedulerBatchSize int64
}

// LoadConfig reads configuration from the environment, with .env as a fallback.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, relying on environment variables")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("DB_NAME", "lifequest"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		TokenExpiry: getDurationEnv("TOKEN_EXPIRY", 24*time.Hour),

		OpenAIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIModel: getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", "firebase-credentials.json"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPSender:   getEnv("SMTP_SENDER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		// One scheduler pass per minute, the finest schedulable granularity.
		SchedulerSpec:      getEnv("SCHEDULER_SPEC", "* * * * *"),
		SchedulerBatchSize: getInt64Env("SCHEDULER_BATCH_SIZE", 50),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		logrus.Warnf("Invalid duration for %s, using default", key)
	}
	return fallback
}

func getInt64Env(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
		logrus.Warnf("Invalid integer for %s, using default", key)
	}
	return fallback
}
