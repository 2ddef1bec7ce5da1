package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Configuration values loaded from the environment (.env in development)
var (
	Port string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	RedisAddr     string
	RedisPassword string

	JWTSecret       string
	DefaultPassword string
	ClientUrl       string

	JudgeAPIKey  string
	JudgeAPIBase string
	JudgeModel   string
)

// Load reads the .env file if present and populates the configuration values
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	Port = getEnv("PORT", "8080")

	PostgresHost = getEnv("POSTGRES_HOST", "localhost")
	PostgresPort = getEnv("POSTGRES_PORT", "5432")
	PostgresUser = getEnv("POSTGRES_USER", "postgres")
	PostgresPassword = os.Getenv("POSTGRES_PASSWORD")
	PostgresDB = getEnv("POSTGRES_DB", "greenloop")

	RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	RedisPassword = os.Getenv("REDIS_PASSWORD")

	JWTSecret = os.Getenv("JWT_SECRET")
	DefaultPassword = os.Getenv("DEFAULT_ADMIN_PASSWORD")
	ClientUrl = getEnv("CLIENT_URL", "http://localhost:3000")

	JudgeAPIKey = os.Getenv("JUDGE_API_KEY")
	JudgeAPIBase = os.Getenv("JUDGE_API_BASE")
	JudgeModel = getEnv("JUDGE_MODEL", "gpt-4o-mini")

	if JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
