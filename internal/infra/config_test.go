package infra

import "testing"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "")
	t.Setenv("KIWIFY_WEBHOOK_TOKEN", "")
	t.Setenv("BASE_PLAN_AMOUNT_MIN", "")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.AppEnv != "development" {
		t.Fatalf("AppEnv mismatch: got %q", cfg.AppEnv)
	}
	if cfg.BasePlanAmountMin != 1900 {
		t.Fatalf("BasePlanAmountMin mismatch: got %d want 1900", cfg.BasePlanAmountMin)
	}
	if !cfg.Development() {
		t.Fatal("expected development mode by default")
	}
}

func TestLoadConfigRequiresWebhookTokenOutsideDevelopment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "production")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when KIWIFY_WEBHOOK_TOKEN is unset in production")
	}

	t.Setenv("KIWIFY_WEBHOOK_TOKEN", "tok-123")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.KiwifyWebhookToken != "tok-123" {
		t.Fatalf("KiwifyWebhookToken mismatch: got %q", cfg.KiwifyWebhookToken)
	}
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATABASE_URL", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when DATABASE_URL is unset")
	}
}

func TestLoadConfigAllowedOrigins(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://admin.example.com" {
		t.Fatalf("AllowedOrigins mismatch: %#v", cfg.AllowedOrigins)
	}
}
