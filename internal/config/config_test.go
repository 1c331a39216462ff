package config

import (
	"os"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	for key, value := range map[string]string{
		"DATABASE_DSN":           "postgres://localhost/shift_planner",
		"INITIAL_OWNER_PASSWORD": "owner-password",
		"INITIAL_OWNER_EMAIL":    "owner@example.com",
		"JWT_SECRET":             "secret",
		"SEED_USER_PASSWORD":     "seed-password",
		"EMAIL_USER_DOMAIN":      "example.com",
		"EMAIL_SMTP_USERNAME":    "mailer@example.com",
		"EMAIL_SMTP_PASSWORD":    "smtp-password",
		"EMAIL_SMTP_HOST":        "smtp.example.com",
		"RABBITMQ_DSN":           "amqp://localhost",
		"REDIS_PASSWORD":         "redis-password",
	} {
		t.Setenv(key, value)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.DSN != "postgres://localhost/shift_planner" {
		t.Errorf("DSN = %q", cfg.Database.DSN)
	}
	if cfg.Server.Port != "3000" {
		t.Errorf("default port = %q, want 3000", cfg.Server.Port)
	}
	if cfg.Builder.SessionTTL != 7200 {
		t.Errorf("default session TTL = %d, want 7200", cfg.Builder.SessionTTL)
	}
	if cfg.Builder.PublishLockTTL != 30 {
		t.Errorf("default publish lock TTL = %d, want 30", cfg.Builder.PublishLockTTL)
	}
	if cfg.OTP.Expiration != 900 {
		t.Errorf("default OTP expiration = %d, want 900", cfg.OTP.Expiration)
	}
}

func TestLoadConfigMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	// t.Setenv registered the restore; required distinguishes unset
	// from empty, so the variable must actually be removed
	os.Unsetenv("DATABASE_DSN")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected an error for a missing required variable")
	}
}
