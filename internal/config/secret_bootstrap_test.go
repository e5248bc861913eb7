package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Security:  SecurityConfig{JWTSigningKey: "abcdefghijklmnopqrstuvwxyzABCDEF123456"},
		Scheduler: SchedulerConfig{Interval: time.Minute},
		Worker:    WorkerConfig{DispatchPoolSize: 4},
	}
}

func TestEnsureSecrets_GeneratesMissingKey(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	if err := cfg.ensureSecrets(); err != nil {
		t.Fatalf("ensureSecrets() error = %v", err)
	}
	// 32 random bytes hex-encoded -> 64 chars.
	if len(cfg.Security.JWTSigningKey) != 64 {
		t.Fatalf("jwt signing key length = %d, want 64", len(cfg.Security.JWTSigningKey))
	}
}

func TestEnsureSecrets_PreservesProvidedKey(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	if err := cfg.ensureSecrets(); err != nil {
		t.Fatalf("ensureSecrets() error = %v", err)
	}
	if got := cfg.Security.JWTSigningKey; got != "abcdefghijklmnopqrstuvwxyzABCDEF123456" {
		t.Fatalf("jwt signing key changed unexpectedly: %q", got)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "short key", mutate: func(c *Config) { c.Security.JWTSigningKey = "short-secret" }, wantErr: true},
		{name: "empty key", mutate: func(c *Config) { c.Security.JWTSigningKey = "" }, wantErr: true},
		{name: "zero interval", mutate: func(c *Config) { c.Scheduler.Interval = 0 }, wantErr: true},
		{name: "no dispatch workers", mutate: func(c *Config) { c.Worker.DispatchPoolSize = 0 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
