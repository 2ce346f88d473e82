package config

import (
	"os"
	"strconv"
	"strings"
)

// DefaultMaxUploadBytes is the upload size limit when MAX_UPLOAD_BYTES is unset.
const DefaultMaxUploadBytes = 5 << 20

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort     string
	DBDriver       string
	DatabaseURL    string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	UploadDir      string
	MaxUploadBytes int64
	ProfileID      uint
	CORSOrigins    []string
	RateLimitRPS   float64
	LogLevel       string
	LogFormat      string
	AutoMigrate    bool
	ResetDB        bool
	SeedProfile    bool
	SwaggerHost    string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:     getEnv("PORT", getEnv("SERVER_PORT", "3000")),
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DatabaseURL:    getEnv("DATABASE_URL", getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/recipes?charset=utf8mb4&parseTime=True&loc=Local")),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		RedisPass:      os.Getenv("REDIS_PASSWORD"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes)),
		ProfileID:      uint(getEnvInt("PROFILE_ID", 1)),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 0),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		AutoMigrate:    getEnvBool("AUTO_MIGRATE", true),
		ResetDB:        getEnvBool("RESET_DB", false),
		SeedProfile:    getEnvBool("SEED_PROFILE", true),
		SwaggerHost:    os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
