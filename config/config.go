package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Hall deletion policies. "block" refuses to delete a hall that still has
// active future bookings; "cascade" hard-deletes them in the same transaction.
const (
	DeletePolicyBlock   = "block"
	DeletePolicyCascade = "cascade"
)

type Config struct {
	ServerPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RabbitURL string
	RedisAddr string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	StoreTimeout time.Duration

	HallDeletePolicy            string
	AllowCompletePartialPayment bool

	Environment string
}

func Load() *Config {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "hall_reservation_db"),

		RabbitURL: getEnv("RABBITMQ_URL", ""),
		RedisAddr: getEnv("REDIS_ADDR", ""),

		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "halls"),

		StoreTimeout: getDuration("STORE_TIMEOUT", 5*time.Second),

		HallDeletePolicy:            getEnv("HALL_DELETE_POLICY", DeletePolicyBlock),
		AllowCompletePartialPayment: getEnv("ALLOW_COMPLETE_PARTIAL_PAYMENT", "false") == "true",

		Environment: getEnv("ENVIRONMENT", "development"),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
