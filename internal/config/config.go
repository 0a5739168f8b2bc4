package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	DBDriver           string
	MySQLDSN           string
	SQLitePath         string
	ResetDB            bool
	RedisAddr          string
	RedisDB            int
	RedisPass          string
	BcryptCost         int
	MembersLimit       int
	LogLevel           string
	LogFile            string
	SwaggerHost        string
}

// Load builds Config from environment with sensible defaults.
// Values from a .env file in the working directory are applied first
// without overriding variables that are already set.
func Load() *Config {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}

	return &Config{
		ServerPort:         getEnv("SERVER_PORT", getEnv("PORT", "8080")),
		ServerReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		ServerWriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
		DBDriver:           strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		MySQLDSN:           getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/quizfit?charset=utf8mb4&parseTime=True&loc=Local"),
		SQLitePath:         getEnv("SQLITE_PATH", "quizfit.db"),
		ResetDB:            getEnvBool("RESET_DB", false),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		RedisPass:          os.Getenv("REDIS_PASSWORD"),
		BcryptCost:         getEnvInt("BCRYPT_COST", 10),
		MembersLimit:       getEnvInt("MEMBERS_LIMIT", 20),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFile:            os.Getenv("LOG_FILE"),
		SwaggerHost:        os.Getenv("SWAGGER_HOST"),
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
		if parsed, err := strconv.Atoi(v); err == nil {
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

// getEnvDuration accepts Go duration strings such as "30s"; bad or non-positive values fall back to def.
func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}
