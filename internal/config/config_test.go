package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/moderation/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const sampleConfig = `
service:
  name: moderation
  port: 9090
database:
  host: db.internal
  port: 5433
  user: moderation
  password: secret
  database: moderation
auth:
  jwt_secret: configured-secret
mail:
  host: smtp.internal
  from: noreply@example.com
review:
  activity_threshold: 12h
  system_account_id: 7c9a1c9e-1df0-4cd8-b6f7-6a4a4f2b9a11
`

func TestLoad(t *testing.T) {
	path := writeConfig(t, sampleConfig)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "moderation", cfg.Service.Name)
	assert.Equal(t, 9090, cfg.Service.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "configured-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 12*time.Hour, cfg.Review.ActivityThreshold)
	assert.Equal(t, "7c9a1c9e-1df0-4cd8-b6f7-6a4a4f2b9a11", cfg.Review.SystemAccountID)

	// Defaults fill what the file omits
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "service:\n  name: moderation\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8096, cfg.Service.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, 24*time.Hour, cfg.Review.ActivityThreshold)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("POSTGRES_MODERATION_HOST", "env-host")
	t.Setenv("POSTGRES_MODERATION_PORT", "6432")
	t.Setenv("MODERATION_JWT_SECRET", "env-secret")
	t.Setenv("MODERATION_SYSTEM_ACCOUNT_ID", "01b9b1b0-0000-4000-8000-000000000001")
	t.Setenv("APP_DEBUG", "true")

	path := writeConfig(t, sampleConfig)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-host", cfg.Database.Host)
	assert.Equal(t, 6432, cfg.Database.Port)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "01b9b1b0-0000-4000-8000-000000000001", cfg.Review.SystemAccountID)
	assert.True(t, cfg.Service.Debug)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "service: [not a mapping")

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	db := config.DatabaseConfig{
		Host: "localhost", Port: 5432, User: "postgres",
		Password: "pw", Database: "moderation", SSLMode: "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=pw dbname=moderation sslmode=disable",
		db.DSN())
	assert.Equal(t,
		"postgres://postgres:pw@localhost:5432/moderation?sslmode=disable",
		db.MigrateURL())
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			Service: config.ServiceConfig{Port: 8096},
			Auth:    config.AuthConfig{JWTSecret: "secret"},
			Mail:    config.MailConfig{Host: "smtp.internal", From: "noreply@example.com"},
			Review:  config.ReviewConfig{SystemAccountID: uuid.NewString()},
		}
	}

	tests := []struct {
		name      string
		mutate    func(*config.Config)
		wantField string
	}{
		{"valid", func(*config.Config) {}, ""},
		{"port zero", func(c *config.Config) { c.Service.Port = 0 }, "service.port"},
		{"port out of range", func(c *config.Config) { c.Service.Port = 70000 }, "service.port"},
		{"missing jwt secret", func(c *config.Config) { c.Auth.JWTSecret = "" }, "auth.jwt_secret"},
		{"missing mail host", func(c *config.Config) { c.Mail.Host = "" }, "mail.host"},
		{"missing mail from", func(c *config.Config) { c.Mail.From = "" }, "mail.from"},
		{"missing system account", func(c *config.Config) { c.Review.SystemAccountID = "" }, "review.system_account_id"},
		{"system account not a uuid", func(c *config.Config) { c.Review.SystemAccountID = "not-a-uuid" }, "review.system_account_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr *config.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv("MODERATION_CONFIG", "")
	assert.Equal(t, "config.yml", config.Path())

	t.Setenv("MODERATION_CONFIG", "/etc/moderation/config.yml")
	assert.Equal(t, "/etc/moderation/config.yml", config.Path())
}
