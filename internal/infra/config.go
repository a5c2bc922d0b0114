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
	AppEnv      string
	Port        string
	DatabaseURL string
	JWTSecret   string

	// Inbound payment webhook (Kiwify). The token authenticates deliveries;
	// outside development it is mandatory and verification fails closed.
	KiwifyWebhookToken string

	// Outbound checkout (Stripe). Each purchasable kind must have a price id;
	// the checkout factory validates the table at startup.
	StripeSecretKey      string
	StripePriceBasePlan  string
	StripePriceExtraSlot string
	StripePriceLiveHelp  string
	CheckoutSuccessURL   string
	CheckoutCancelURL    string

	// Classification threshold: settled amounts at or above this value (in
	// centavos) count as a base-plan purchase when the product name is not
	// recognized.
	BasePlanAmountMin int64

	GeoIPDBPath    string
	AllowedOrigins []string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
	DBMaxConns       int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		KiwifyWebhookToken: os.Getenv("KIWIFY_WEBHOOK_TOKEN"),

		StripeSecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
		StripePriceBasePlan:  os.Getenv("STRIPE_PRICE_BASE_PLAN"),
		StripePriceExtraSlot: os.Getenv("STRIPE_PRICE_EXTRA_SLOT"),
		StripePriceLiveHelp:  os.Getenv("STRIPE_PRICE_LIVE_HELP"),
		CheckoutSuccessURL:   getEnv("CHECKOUT_SUCCESS_URL", "http://localhost:5173/dashboard?success=true"),
		CheckoutCancelURL:    getEnv("CHECKOUT_CANCEL_URL", "http://localhost:5173/dashboard?canceled=true"),

		BasePlanAmountMin: int64(getEnvInt("BASE_PLAN_AMOUNT_MIN", 1900)),

		GeoIPDBPath:    os.Getenv("GEOIP_DB_PATH"),
		AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		DBMaxConns:       getEnvInt("DB_MAX_CONNS", 10),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// Production must not accept unauthenticated webhook deliveries.
	if !cfg.Development() && cfg.KiwifyWebhookToken == "" {
		return nil, fmt.Errorf("KIWIFY_WEBHOOK_TOKEN is required when APP_ENV=%s", cfg.AppEnv)
	}

	return cfg, nil
}

// Development reports whether the process runs in development mode.
func (c *Config) Development() bool {
	return c.AppEnv == "development"
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

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
