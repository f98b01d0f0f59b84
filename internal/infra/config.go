package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	BackendBaseURL     string
	BackendTimeout     time.Duration
	MinAmount          int
	PresetAmounts      []int
	DefaultCause       string
	PhoneDigits        int
	Currency           string
	SessionTTL         time.Duration
	SessionSweepSpec   string
	DefaultLocale      string
	GeoIPDBPath        string
	CORSAllowedOrigins []string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		BackendBaseURL:     strings.TrimRight(os.Getenv("BACKEND_BASE_URL"), "/"),
		BackendTimeout:     time.Second * time.Duration(getEnvInt("BACKEND_TIMEOUT_SECONDS", 20)),
		MinAmount:          getEnvInt("CHECKOUT_MIN_AMOUNT", 100),
		PresetAmounts:      getEnvIntList("CHECKOUT_PRESET_AMOUNTS", []int{100, 250, 500, 1000, 2500, 5000}),
		DefaultCause:       getEnv("CHECKOUT_DEFAULT_CAUSE", "c1"),
		PhoneDigits:        getEnvInt("CHECKOUT_PHONE_DIGITS", 9),
		Currency:           getEnv("CHECKOUT_CURRENCY", "FCFA"),
		SessionTTL:         time.Minute * time.Duration(getEnvInt("SESSION_TTL_MINUTES", 30)),
		SessionSweepSpec:   getEnv("SESSION_SWEEP_SPEC", "@every 1m"),
		DefaultLocale:      getEnv("DEFAULT_LOCALE", "fr"),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.BackendBaseURL == "" {
		return nil, fmt.Errorf("BACKEND_BASE_URL is required")
	}
	if cfg.MinAmount <= 0 {
		return nil, fmt.Errorf("CHECKOUT_MIN_AMOUNT must be positive")
	}
	for _, preset := range cfg.PresetAmounts {
		if preset < cfg.MinAmount {
			return nil, fmt.Errorf("preset amount %d is below CHECKOUT_MIN_AMOUNT %d", preset, cfg.MinAmount)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getEnvIntList(key string, fallback []int) []int {
	parts := getEnvList(key, nil)
	if len(parts) == 0 {
		return fallback
	}
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		i, err := strconv.Atoi(part)
		if err != nil {
			return fallback
		}
		out = append(out, i)
	}
	return out
}
