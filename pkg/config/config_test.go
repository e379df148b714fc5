package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Listen != ":8080" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.MaxReportedErrors != 200 {
		t.Errorf("MaxReportedErrors = %d", cfg.MaxReportedErrors)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("Cache.Backend = %q", cfg.Cache.Backend)
	}
	if cfg.Cache.Dir == "" {
		t.Error("Cache.Dir should have a default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spanstack.toml")
	content := `
listen = ":9090"
max_reported_errors = 50

[cache]
backend = "redis"
redis_addr = "redis.internal:6379"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Listen != ":9090" {
		t.Errorf("Listen = %q, want :9090", cfg.Listen)
	}
	if cfg.MaxReportedErrors != 50 {
		t.Errorf("MaxReportedErrors = %d, want 50", cfg.MaxReportedErrors)
	}
	if cfg.Cache.Backend != BackendRedis {
		t.Errorf("Cache.Backend = %q, want redis", cfg.Cache.Backend)
	}
	if cfg.Cache.RedisAddr != "redis.internal:6379" {
		t.Errorf("Cache.RedisAddr = %q", cfg.Cache.RedisAddr)
	}

	// Unset fields keep defaults
	if cfg.Cache.Dir == "" {
		t.Error("unset Cache.Dir should keep default")
	}
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load(absent) error = %v", err)
	}
	if cfg.Listen != Default().Listen {
		t.Error("missing file should yield defaults")
	}
}

func TestLoadEmptyPathYieldsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.MaxReportedErrors != 200 {
		t.Error("empty path should yield defaults")
	}
}

func TestLoadInvalidBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[cache]\nbackend = \"memcached\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("invalid backend should fail validation")
	}
}

func TestLoadMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("listen = [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("malformed TOML should fail")
	}
}

func TestValidateNegativeErrorCap(t *testing.T) {
	cfg := Default()
	cfg.MaxReportedErrors = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative cap should fail validation")
	}
}
