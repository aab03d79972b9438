package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("default port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("default driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.JWT.ExpireHour != 24 || cfg.JWT.RefreshExpireHour != 168 {
		t.Errorf("default JWT expiry = %d/%d, want 24/168", cfg.JWT.ExpireHour, cfg.JWT.RefreshExpireHour)
	}
	if cfg.Storage.MaxSizeMB != 20 {
		t.Errorf("default max size = %d, want 20", cfg.Storage.MaxSizeMB)
	}
	if cfg.Logs.RetentionDays != 30 {
		t.Errorf("default log retention = %d, want 30", cfg.Logs.RetentionDays)
	}
	if cfg.Digest.Cron != "0 8 * * 1" {
		t.Errorf("default digest cron = %q", cfg.Digest.Cron)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  host: 127.0.0.1
  port: "9000"
  mode: release
database:
  driver: postgres
  dsn: host=localhost user=campus dbname=campushub
logs:
  retention_days: 7
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "9000" || cfg.Server.Mode != "release" {
		t.Errorf("server config not loaded: %+v", cfg.Server)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("driver = %q, want postgres", cfg.Database.Driver)
	}
	if cfg.Logs.RetentionDays != 7 {
		t.Errorf("retention = %d, want 7", cfg.Logs.RetentionDays)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("AI_PROVIDER", "anthropic")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "9999" {
		t.Errorf("port = %q, want env override 9999", cfg.Server.Port)
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Errorf("secret = %q, want env override", cfg.JWT.Secret)
	}
	if cfg.AI.Provider != "anthropic" {
		t.Errorf("provider = %q, want anthropic", cfg.AI.Provider)
	}
}

func TestParseRedisURL(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		wantAddr     string
		wantPassword string
		wantDB       int
	}{
		{"full url", "redis://:secret@localhost:6379/2", "localhost:6379", "secret", 2},
		{"no auth", "redis://localhost:6379/0", "localhost:6379", "", 0},
		{"no db", "redis://:pw@redis.internal:6380", "redis.internal:6380", "pw", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.parseRedisURL(tt.url)

			if cfg.Redis.Addr != tt.wantAddr {
				t.Errorf("addr = %q, want %q", cfg.Redis.Addr, tt.wantAddr)
			}
			if cfg.Redis.Password != tt.wantPassword {
				t.Errorf("password = %q, want %q", cfg.Redis.Password, tt.wantPassword)
			}
			if cfg.Redis.DB != tt.wantDB {
				t.Errorf("db = %d, want %d", cfg.Redis.DB, tt.wantDB)
			}
		})
	}
}
