package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"vtuwallet/internal/money"
)

var ErrMissingSecret = errors.New("JWT_SECRET must be set outside development")

type Config struct {
	AppEnv         string
	Port           string
	LogLevel       string
	DatabaseURL    string
	RedisAddr      string
	RedisPassword  string
	JWTSecret      string
	// ProviderKey authenticates payout-provider callbacks. Empty outside development
	// leaves the provider routes closed.
	ProviderKey    string
	TokenTTL       time.Duration
	AllowedOrigins []string
	PublicURL      string

	OpeningBalance  int64
	OpeningPoints   int64
	CardCreationFee int64
	USDRate         decimal.Decimal
	ReferralBonus   int64
	PointsDivisor   int64
}

func (c Config) Development() bool {
	return c.AppEnv == "development"
}

func Load() (Config, error) {
	rate, err := money.ParseRate(getEnv("USD_RATE", "1500"))
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		AppEnv:          getEnv("APP_ENV", "development"),
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		ProviderKey:     os.Getenv("PROVIDER_API_KEY"),
		TokenTTL:        getDuration("TOKEN_TTL_MINUTES", 60),
		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "*")),
		PublicURL:       getEnv("PUBLIC_URL", "http://localhost:8080"),
		OpeningBalance:  getNaira("OPENING_BALANCE", 50000),
		OpeningPoints:   getInt("OPENING_POINTS", 250),
		CardCreationFee: getNaira("CARD_CREATION_FEE", 2000),
		USDRate:         rate,
		ReferralBonus:   getNaira("REFERRAL_BONUS", 500),
		PointsDivisor:   getInt("POINTS_DIVISOR", 100),
	}
	if cfg.JWTSecret == "" {
		if !cfg.Development() {
			return Config{}, ErrMissingSecret
		}
		cfg.JWTSecret = "dev-secret-change-me"
	}
	if cfg.ProviderKey == "" && cfg.Development() {
		cfg.ProviderKey = "dev-provider-key"
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getInt(key string, fallback int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

// getNaira accepts amounts written as "50000", "50,000" or "₦50,000".
func getNaira(key string, fallback int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := money.ParseNaira(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getDuration(key string, fallbackMinutes int) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(fallbackMinutes) * time.Minute
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return time.Duration(fallbackMinutes) * time.Minute
	}
	return time.Duration(parsed) * time.Minute
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
