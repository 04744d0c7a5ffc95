package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr        = ":8080"
	defaultDatabaseURL     = "harvesthaven.db"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultJWTTTL          = "24h"
	defaultLogLevel        = "info"
	defaultSeedOnStart     = "true"
	defaultPaymentProvider = "upi"
	defaultListingFee      = "499"
	defaultUPIVPA          = "harvesthaven@upi"
	defaultUPIPayeeName    = "Harvest Haven"
	defaultCheckoutTimeout = "10s"
)

const (
	PaymentUPI      = "upi"
	PaymentCheckout = "checkout"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	LogLevel string
	LogFile  string

	CORSAllowedOrigins []string
	SeedOnStart        bool

	Payment PaymentConfig
}

type PaymentConfig struct {
	Provider   string
	ListingFee int

	UPIVPA       string
	UPIPayeeName string

	CheckoutBaseURL   string
	CheckoutKeyID     string
	CheckoutKeySecret string
	CheckoutTimeout   time.Duration
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel)))
	cfg.LogFile = strings.TrimSpace(os.Getenv("LOG_FILE"))
	cfg.CORSAllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))
	cfg.SeedOnStart = parseBoolEnv("SEED_ON_START", defaultSeedOnStart)

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}

	p := &cfg.Payment
	p.Provider = strings.ToLower(strings.TrimSpace(getEnv("PAYMENT_PROVIDER", defaultPaymentProvider)))
	p.ListingFee, err = parseIntEnv("LISTING_FEE", defaultListingFee)
	if err != nil {
		return nil, err
	}
	p.UPIVPA = strings.TrimSpace(getEnv("UPI_VPA", defaultUPIVPA))
	p.UPIPayeeName = strings.TrimSpace(getEnv("UPI_PAYEE_NAME", defaultUPIPayeeName))
	p.CheckoutBaseURL = strings.TrimRight(strings.TrimSpace(os.Getenv("CHECKOUT_BASE_URL")), "/")
	p.CheckoutKeyID = strings.TrimSpace(os.Getenv("CHECKOUT_KEY_ID"))
	p.CheckoutKeySecret = strings.TrimSpace(os.Getenv("CHECKOUT_KEY_SECRET"))
	p.CheckoutTimeout, err = parseDurationEnv("CHECKOUT_TIMEOUT", defaultCheckoutTimeout)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}

	p := cfg.Payment
	if p.ListingFee <= 0 {
		return fmt.Errorf("LISTING_FEE must be > 0")
	}
	switch p.Provider {
	case PaymentUPI:
		if p.UPIVPA == "" {
			return fmt.Errorf("UPI_VPA must be set when PAYMENT_PROVIDER=upi")
		}
	case PaymentCheckout:
		if p.CheckoutBaseURL == "" || p.CheckoutKeyID == "" || p.CheckoutKeySecret == "" {
			return fmt.Errorf("CHECKOUT_BASE_URL, CHECKOUT_KEY_ID and CHECKOUT_KEY_SECRET must be set when PAYMENT_PROVIDER=checkout")
		}
		if p.CheckoutTimeout <= 0 {
			return fmt.Errorf("CHECKOUT_TIMEOUT must be > 0")
		}
	default:
		return fmt.Errorf("PAYMENT_PROVIDER must be one of: upi, checkout")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.SeedOnStart {
			return fmt.Errorf("in prod/release SEED_ON_START must be false")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
