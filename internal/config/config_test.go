package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validYAML = `
port: "8080"
logLevel: debug
databaseURL: postgres://localhost/eventvault
jwtSecret: s3cret
tokenTTL: 30m
s3Endpoint: localhost:9000
s3AccessKey: ak
s3SecretKey: sk
s3Bucket: eventvault
`

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.DatabaseURL != "postgres://localhost/eventvault" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.TokenTTL != "30m" || cfg.S3Bucket != "eventvault" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://prod-host/eventvault")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("S3_BUCKET", "prod-bucket")
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DatabaseURL != "postgres://prod-host/eventvault" {
		t.Fatalf("DATABASE_URL override ignored: %s", cfg.DatabaseURL)
	}
	if cfg.JWTSecret != "prod-secret" || cfg.S3Bucket != "prod-bucket" {
		t.Fatalf("env overrides ignored: %+v", cfg)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"missing port", strings.Replace(validYAML, `port: "8080"`, "", 1), "port"},
		{"missing database", strings.Replace(validYAML, "databaseURL: postgres://localhost/eventvault", "", 1), "databaseURL"},
		{"missing secret", strings.Replace(validYAML, "jwtSecret: s3cret", "", 1), "jwtSecret"},
		{"missing bucket", strings.Replace(validYAML, "s3Bucket: eventvault", "", 1), "s3Bucket"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error naming %s, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestParseTokenTTL(t *testing.T) {
	d, err := ParseTokenTTL("")
	if err != nil || d != time.Hour {
		t.Fatalf("expected default 1h, got %v %v", d, err)
	}
	d, err = ParseTokenTTL("45m")
	if err != nil || d != 45*time.Minute {
		t.Fatalf("expected 45m, got %v %v", d, err)
	}
	if _, err := ParseTokenTTL("soon"); err == nil {
		t.Fatalf("expected error for bad duration")
	}
	if _, err := ParseTokenTTL("-1h"); err == nil {
		t.Fatalf("expected error for negative duration")
	}
}

func TestStoragePrefixDefaults(t *testing.T) {
	cfg := FileConfig{S3Bucket: "eventvault"}
	if got := cfg.KeyPrefix(); got != "files" {
		t.Fatalf("expected default key prefix, got %q", got)
	}
	if got := cfg.LocationPrefix(); got != "https://eventvault.s3.amazonaws.com/" {
		t.Fatalf("unexpected derived location prefix %q", got)
	}
	cfg.StorageKeyPrefix = "uploads"
	cfg.StorageLocationPrefix = "https://cdn.example.com/"
	if cfg.KeyPrefix() != "uploads" || cfg.LocationPrefix() != "https://cdn.example.com/" {
		t.Fatalf("explicit prefixes ignored: %+v", cfg)
	}
}
