package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8080"},
		Database: DatabaseConfig{URL: "postgres://localhost:5432/loans?sslmode=disable"},
		Session:  SessionConfig{Secret: "test-secret"},
		SMS:      SMSConfig{Enabled: false, SendTimeout: 10 * time.Second},
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_MissingDatabaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.Database.URL = ""
	assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")
}

func TestValidate_MissingSessionSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Session.Secret = ""
	assert.ErrorContains(t, cfg.Validate(), "SESSION_SECRET")
}

func TestValidate_SMSEnabledRequiresCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.SMS.Enabled = true
	assert.ErrorContains(t, cfg.Validate(), "TWILIO_ACCOUNT_SID")

	cfg.SMS.AccountSID = "AC123"
	cfg.SMS.AuthToken = "token"
	cfg.SMS.FromNumber = "+15550009999"
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/loans?sslmode=disable")
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "postgres://localhost:5432/loans?sslmode=disable", cfg.Database.URL)
	assert.False(t, cfg.SMS.Enabled)
	assert.Equal(t, 86400, cfg.Session.MaxAge)
	assert.Equal(t, "0 0 9 1 * *", cfg.Reminder.Schedule)
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := validConfig()

	cfg.Server.Env = "development"
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg.Server.Env = "prod"
	assert.True(t, cfg.IsProduction())
}
