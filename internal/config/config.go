package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MinSecretLength is the shortest accepted session signing secret.
const MinSecretLength = 32

// Config is the process-wide configuration. It is built once at startup and
// never mutated afterwards.
type Config struct {
	ListenAddr     string `yaml:"listen_addr"`
	DBPath         string `yaml:"db_path"`
	StoragePath    string `yaml:"storage_path"`
	Password       string `yaml:"password"`
	SessionSecret  string `yaml:"session_secret"`
	SessionMaxAge  int    `yaml:"session_max_age"`
	SecureCookie   bool   `yaml:"secure_cookie"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		ListenAddr:     ":5000",
		DBPath:         "images.db",
		StoragePath:    "uploads",
		MaxUploadBytes: 32 << 20,
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// PICVAULT_CONFIG (if any), then PICVAULT_* environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("PICVAULT_CONFIG"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.ListenAddr = getEnv("PICVAULT_LISTEN_ADDR", cfg.ListenAddr)
	cfg.DBPath = getEnv("PICVAULT_DB_PATH", cfg.DBPath)
	cfg.StoragePath = getEnv("PICVAULT_STORAGE_PATH", cfg.StoragePath)
	cfg.Password = getEnv("PICVAULT_PASSWORD", cfg.Password)
	cfg.SessionSecret = getEnv("PICVAULT_SESSION_SECRET", cfg.SessionSecret)
	cfg.SessionMaxAge = getEnvInt("PICVAULT_SESSION_MAX_AGE", cfg.SessionMaxAge)
	cfg.SecureCookie = getEnvBool("PICVAULT_SECURE_COOKIE", cfg.SecureCookie)
	cfg.MaxUploadBytes = getEnvInt64("PICVAULT_MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)

	return cfg, nil
}

// LoadFile overlays the values present in the YAML file at path onto c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate reports every setting that would leave the server unusable or
// unprotected.
func (c *Config) Validate() error {
	var errs []error
	if c.ListenAddr == "" {
		errs = append(errs, errors.New("listen_addr is required"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path is required"))
	}
	if c.StoragePath == "" {
		errs = append(errs, errors.New("storage_path is required"))
	}
	if c.Password == "" {
		errs = append(errs, errors.New("password is required"))
	}
	if len(c.SessionSecret) < MinSecretLength {
		errs = append(errs, fmt.Errorf("session_secret must be at least %d bytes", MinSecretLength))
	}
	if c.SessionMaxAge < 0 {
		errs = append(errs, errors.New("session_max_age must not be negative"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("max_upload_bytes must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvInt64(key string, defaultValue int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue
	}
	return b
}
