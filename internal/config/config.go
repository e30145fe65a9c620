package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DBDriver           string
	DBUrl              string
	CORSAllowedOrigins []string
	RateLimit          float64
	RateBurst          int
	LogLevel           string
	LogPretty          bool
	Session            SessionConfig
	Images             ImageConfig
}

// SessionConfig controls how login sessions are issued and kept.
type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	Store        string // "memory" or "sql"
	CookieSecure bool
}

// ImageConfig points vehicle image keys at an S3-compatible bucket.
// An empty Bucket disables presigning and images are served as stored.
type ImageConfig struct {
	Bucket          string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	URLTTL          time.Duration
}

func LoadConfig() (Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found, using environment and defaults")
	}

	cfg := Config{
		Port:      getEnv("PORT", "8080"),
		DBDriver:  getEnv("DB_DRIVER", "mysql"),
		DBUrl:     getEnv("DB_URL", "root:@tcp(localhost:3306)/rentexpress"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		Session: SessionConfig{
			Secret: os.Getenv("SESSION_SECRET"),
			Store:  getEnv("SESSION_STORE", "sql"),
		},
		Images: ImageConfig{
			Bucket:          os.Getenv("IMAGE_BUCKET"),
			Endpoint:        os.Getenv("IMAGE_ENDPOINT"),
			Region:          getEnv("IMAGE_REGION", "auto"),
			AccessKeyID:     os.Getenv("IMAGE_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("IMAGE_SECRET_ACCESS_KEY"),
		},
	}

	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5500"))

	if cfg.RateLimit, err = getEnvFloat("RATE_LIMIT", 10); err != nil {
		return Config{}, err
	}
	if cfg.RateBurst, err = getEnvInt("RATE_BURST", 20); err != nil {
		return Config{}, err
	}
	if cfg.LogPretty, err = getEnvBool("LOG_PRETTY", true); err != nil {
		return Config{}, err
	}
	if cfg.Session.CookieSecure, err = getEnvBool("COOKIE_SECURE", false); err != nil {
		return Config{}, err
	}
	if cfg.Session.TTL, err = getEnvDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.Images.URLTTL, err = getEnvDuration("IMAGE_URL_TTL", 15*time.Minute); err != nil {
		return Config{}, err
	}

	switch cfg.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	switch cfg.Session.Store {
	case "memory", "sql":
	default:
		return Config{}, fmt.Errorf("unsupported SESSION_STORE %q", cfg.Session.Store)
	}

	if cfg.Session.TTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.Session.TTL)
	}

	return cfg, nil
}

// String masks secrets so the config can be logged at startup.
func (c Config) String() string {
	return fmt.Sprintf("Config{Port: %s, DB: %s, SessionStore: %s, SessionTTL: %s, ImageBucket: %q, Secret: ***}",
		c.Port, c.DBDriver, c.Session.Store, c.Session.TTL, c.Images.Bucket)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for %s: %w", key, err)
	}
	return f, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
