// Package config loads the moderation service configuration from a YAML
// file with environment variable overrides. A .env file, when present, is
// loaded before overrides are applied.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	defaultServiceName = "moderation"
	defaultServicePort = 8096
	defaultVersion     = "0.1.0"

	defaultDBHost    = "localhost"
	defaultDBPort    = 5432
	defaultDBName    = "moderation"
	defaultDBUser    = "postgres"
	defaultDBSSLMode = "disable"

	defaultMailPort = 587

	defaultActivityThresholdH = 24

	defaultLoggingLevel = "info"
	defaultLoggingFmt   = "json"
)

// Config holds the application configuration.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Mail     MailConfig     `yaml:"mail"`
	Review   ReviewConfig   `yaml:"review"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"MODERATION_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"       yaml:"debug"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host     string `env:"POSTGRES_MODERATION_HOST"     yaml:"host"`
	Port     int    `env:"POSTGRES_MODERATION_PORT"     yaml:"port"`
	User     string `env:"POSTGRES_MODERATION_USER"     yaml:"user"`
	Password string `env:"POSTGRES_MODERATION_PASSWORD" yaml:"password"`
	Database string `env:"POSTGRES_MODERATION_DB"       yaml:"database"`
	SSLMode  string `env:"POSTGRES_MODERATION_SSLMODE"  yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// MigrateURL returns the connection URL used by golang-migrate.
func (d *DatabaseConfig) MigrateURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode,
	)
}

// AuthConfig holds authentication configuration for the admin API.
type AuthConfig struct {
	JWTSecret string `env:"MODERATION_JWT_SECRET" yaml:"jwt_secret"`
}

// MailConfig holds outbound SMTP configuration for applicant notifications.
type MailConfig struct {
	Host     string `env:"MODERATION_SMTP_HOST"     yaml:"host"`
	Port     int    `env:"MODERATION_SMTP_PORT"     yaml:"port"`
	Username string `env:"MODERATION_SMTP_USER"     yaml:"username"`
	Password string `env:"MODERATION_SMTP_PASSWORD" yaml:"password"`
	From     string `env:"MODERATION_MAIL_FROM"     yaml:"from"`
}

// ReviewConfig holds the review workflow configuration.
type ReviewConfig struct {
	// ActivityThreshold is the recency window separating active applicants
	// from stale ones in the queue ordering.
	ActivityThreshold time.Duration `yaml:"activity_threshold"`
	// SystemAccountID is the author account decision messages are sent from.
	SystemAccountID string `env:"MODERATION_SYSTEM_ACCOUNT_ID" yaml:"system_account_id"`
}

// UnmarshalYAML decodes the review section, parsing activity_threshold as a
// Go duration string (yaml.v3 has no native time.Duration support).
func (r *ReviewConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		ActivityThreshold string `yaml:"activity_threshold"`
		SystemAccountID   string `yaml:"system_account_id"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.ActivityThreshold != "" {
		d, err := time.ParseDuration(raw.ActivityThreshold)
		if err != nil {
			return fmt.Errorf("parse activity_threshold: %w", err)
		}
		r.ActivityThreshold = d
	}
	r.SystemAccountID = raw.SystemAccountID
	return nil
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Path returns the config file path, honoring the MODERATION_CONFIG
// environment variable.
func Path() string {
	if p := os.Getenv("MODERATION_CONFIG"); p != "" {
		return p
	}
	return "config.yml"
}

// Load reads the YAML config file at path, applies defaults, then applies
// environment variable overrides (env always wins).
func Load(path string) (*Config, error) {
	// Non-fatal if the file does not exist
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setMailDefaults(&cfg.Mail)
	setReviewDefaults(&cfg.Review)
	setLoggingDefaults(&cfg.Logging)
}

// setServiceDefaults applies default values to ServiceConfig.
func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Version == "" {
		svc.Version = defaultVersion
	}
	if svc.Port == 0 {
		svc.Port = defaultServicePort
	}
}

// setDatabaseDefaults applies default values to DatabaseConfig.
func setDatabaseDefaults(db *DatabaseConfig) {
	if db.Host == "" {
		db.Host = defaultDBHost
	}
	if db.Port == 0 {
		db.Port = defaultDBPort
	}
	if db.User == "" {
		db.User = defaultDBUser
	}
	if db.Database == "" {
		db.Database = defaultDBName
	}
	if db.SSLMode == "" {
		db.SSLMode = defaultDBSSLMode
	}
}

// setMailDefaults applies default values to MailConfig.
func setMailDefaults(m *MailConfig) {
	if m.Port == 0 {
		m.Port = defaultMailPort
	}
}

// setReviewDefaults applies default values to ReviewConfig.
func setReviewDefaults(r *ReviewConfig) {
	if r.ActivityThreshold == 0 {
		r.ActivityThreshold = defaultActivityThresholdH * time.Hour
	}
}

// setLoggingDefaults applies default values to LoggingConfig.
func setLoggingDefaults(log *LoggingConfig) {
	if log.Level == "" {
		log.Level = defaultLoggingLevel
	}
	if log.Format == "" {
		log.Format = defaultLoggingFmt
	}
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	overrideInt(&cfg.Service.Port, "MODERATION_PORT")
	overrideBool(&cfg.Service.Debug, "APP_DEBUG")

	overrideString(&cfg.Database.Host, "POSTGRES_MODERATION_HOST")
	overrideInt(&cfg.Database.Port, "POSTGRES_MODERATION_PORT")
	overrideString(&cfg.Database.User, "POSTGRES_MODERATION_USER")
	overrideString(&cfg.Database.Password, "POSTGRES_MODERATION_PASSWORD")
	overrideString(&cfg.Database.Database, "POSTGRES_MODERATION_DB")
	overrideString(&cfg.Database.SSLMode, "POSTGRES_MODERATION_SSLMODE")

	overrideString(&cfg.Auth.JWTSecret, "MODERATION_JWT_SECRET")

	overrideString(&cfg.Mail.Host, "MODERATION_SMTP_HOST")
	overrideInt(&cfg.Mail.Port, "MODERATION_SMTP_PORT")
	overrideString(&cfg.Mail.Username, "MODERATION_SMTP_USER")
	overrideString(&cfg.Mail.Password, "MODERATION_SMTP_PASSWORD")
	overrideString(&cfg.Mail.From, "MODERATION_MAIL_FROM")

	overrideString(&cfg.Review.SystemAccountID, "MODERATION_SYSTEM_ACCOUNT_ID")

	overrideString(&cfg.Logging.Level, "LOG_LEVEL")
	overrideString(&cfg.Logging.Format, "LOG_FORMAT")
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func overrideBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// ValidationError describes an invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config field %s %s", e.Field, e.Message)
}

// maxPort is the highest valid TCP port.
const maxPort = 65535

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Service.Port <= 0 || c.Service.Port > maxPort {
		return &ValidationError{Field: "service.port", Message: "must be a valid port"}
	}
	if c.Auth.JWTSecret == "" {
		return &ValidationError{Field: "auth.jwt_secret", Message: "is required"}
	}
	if c.Mail.Host == "" {
		return &ValidationError{Field: "mail.host", Message: "is required"}
	}
	if c.Mail.From == "" {
		return &ValidationError{Field: "mail.from", Message: "is required"}
	}
	if c.Review.SystemAccountID == "" {
		return &ValidationError{Field: "review.system_account_id", Message: "is required"}
	}
	if _, err := uuid.Parse(c.Review.SystemAccountID); err != nil {
		return &ValidationError{Field: "review.system_account_id", Message: "must be a UUID"}
	}
	return nil
}
