// Package config loads runtime configuration from a YAML file with
// environment-variable overrides for deployment secrets.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config file location.
const ConfigPath = "config.yaml"

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	Port        string `yaml:"port"`
	LogLevel    string `yaml:"logLevel"`
	DatabaseURL string `yaml:"databaseURL"`

	JWTSecret string `yaml:"jwtSecret"`
	TokenTTL  string `yaml:"tokenTTL"`

	S3Endpoint  string `yaml:"s3Endpoint"`
	S3AccessKey string `yaml:"s3AccessKey"`
	S3SecretKey string `yaml:"s3SecretKey"`
	S3Bucket    string `yaml:"s3Bucket"`
	S3UseSSL    bool   `yaml:"s3UseSSL"`

	// StorageKeyPrefix prefixes object-store keys; StorageLocationPrefix
	// prefixes the location URL recorded on file rows. When the location
	// prefix is empty it is derived from the bucket name.
	StorageKeyPrefix      string `yaml:"storageKeyPrefix"`
	StorageLocationPrefix string `yaml:"storageLocationPrefix"`
}

// Load reads config from path (defaults to config.yaml) and applies
// environment overrides.
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("S3_ENDPOINT"); v != "" {
		cfg.S3Endpoint = v
	}
	if v := os.Getenv("S3_ACCESS_KEY"); v != "" {
		cfg.S3AccessKey = v
	}
	if v := os.Getenv("S3_SECRET_KEY"); v != "" {
		cfg.S3SecretKey = v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		cfg.S3Bucket = v
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg FileConfig) error {
	if cfg.Port == "" {
		return errors.New("config: port is required (set in config.yaml)")
	}
	if cfg.DatabaseURL == "" {
		return errors.New("config: databaseURL is required (set DATABASE_URL)")
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return errors.New("config: jwtSecret is required (set JWT_SECRET)")
	}
	if cfg.S3Endpoint == "" || cfg.S3Bucket == "" {
		return errors.New("config: s3Endpoint and s3Bucket are required")
	}
	return nil
}

// ParseTokenTTL parses the token lifetime, defaulting when unset.
func ParseTokenTTL(ttlStr string) (time.Duration, error) {
	if ttlStr == "" {
		return time.Hour, nil
	}
	dur, err := time.ParseDuration(ttlStr)
	if err != nil {
		return 0, fmt.Errorf("invalid tokenTTL duration: %w", err)
	}
	if dur <= 0 {
		return 0, errors.New("tokenTTL must be positive")
	}
	return dur, nil
}

// KeyPrefix returns the configured object key prefix or its default.
func (c FileConfig) KeyPrefix() string {
	if c.StorageKeyPrefix != "" {
		return c.StorageKeyPrefix
	}
	return "files"
}

// LocationPrefix returns the configured location prefix, deriving the
// conventional bucket URL when unset.
func (c FileConfig) LocationPrefix() string {
	if c.StorageLocationPrefix != "" {
		return c.StorageLocationPrefix
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/", c.S3Bucket)
}
