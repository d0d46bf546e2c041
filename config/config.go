package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	UI      UIConfig
	API     APIConfig
	Log     LogConfig
	GinMode string
}

type UIConfig struct {
	Port           int
	MenuAPIURL     string
	RequestTimeout time.Duration
	SessionTTL     time.Duration
	MaxSessions    int
	RateLimit      float64
}

type APIConfig struct {
	Port           int
	DSN            string
	UploadDir      string
	AllowedOrigins []string
	MaxImageBytes  int64
	RateLimit      float64
}

type LogConfig struct {
	Level string
}

// Load reads an optional .env file and then the process environment.
// Unset or malformed values fall back to defaults.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	apiURL := strings.TrimRight(getEnv("MENU_API_URL", "http://localhost:5000"), "/")
	if apiURL == "" {
		return nil, fmt.Errorf("MENU_API_URL must not be empty")
	}

	origins := []string{"http://localhost:3000"}
	if extra := os.Getenv("ALLOWED_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return &Config{
		UI: UIConfig{
			Port:           getInt("UI_PORT", 3000),
			MenuAPIURL:     apiURL,
			RequestTimeout: getDuration("REQUEST_TIMEOUT", 10*time.Second),
			SessionTTL:     getDuration("SESSION_TTL", 12*time.Hour),
			MaxSessions:    getInt("MAX_SESSIONS", 1000),
			RateLimit:      getFloat("UI_RATE_LIMIT", 50),
		},
		API: APIConfig{
			Port:           getInt("API_PORT", 5000),
			DSN:            os.Getenv("DATABASE_DSN"),
			UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
			AllowedOrigins: origins,
			MaxImageBytes:  int64(getInt("MAX_IMAGE_MB", 5)) << 20,
			RateLimit:      getFloat("RATE_LIMIT", 20),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		GinMode: os.Getenv("GIN_MODE"),
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("ignoring invalid integer setting", "key", key, "value", v)
		return def
	}
	return n
}

func getFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		slog.Warn("ignoring invalid number setting", "key", key, "value", v)
		return def
	}
	return f
}

// getDuration accepts Go duration syntax ("30s") or a bare number of seconds.
func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	slog.Warn("ignoring invalid duration setting", "key", key, "value", v)
	return def
}
