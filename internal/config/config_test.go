package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_PASSWORD", "test")
}

func TestLoad_RequiresDatabasePassword(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")

	cfg, err := Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_AuthDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Auth.MaxFailedAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Auth.LockoutDuration)
	assert.Equal(t, 32, cfg.Auth.LimiterShards)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 20, cfg.Auth.LoginRequestsPerMinute)
	assert.False(t, cfg.Email.Enabled)
	assert.False(t, cfg.Database.AutoMigrate)
}

func TestLoad_AuthCustomValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LOGIN_MAX_FAILED_ATTEMPTS", "3")
	t.Setenv("LOGIN_LOCKOUT_DURATION", "5m")
	t.Setenv("LOGIN_LIMITER_SHARDS", "8")
	t.Setenv("DB_AUTO_MIGRATE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Auth.MaxFailedAttempts)
	assert.Equal(t, 5*time.Minute, cfg.Auth.LockoutDuration)
	assert.Equal(t, 8, cfg.Auth.LimiterShards)
	assert.True(t, cfg.Database.AutoMigrate)
}

func TestLoad_RejectsNonPositiveLimiterSettings(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero threshold", "LOGIN_MAX_FAILED_ATTEMPTS", "0"},
		{"negative threshold", "LOGIN_MAX_FAILED_ATTEMPTS", "-2"},
		{"zero lockout", "LOGIN_LOCKOUT_DURATION", "0s"},
		{"zero shards", "LOGIN_LIMITER_SHARDS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_EmailRequiresFromAddress(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EMAIL_NOTIFICATIONS_ENABLED", "true")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("EMAIL_FROM_ADDRESS", "no-reply@roomgate.example")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Email.Enabled)
}

func TestServerConfig_Timeouts(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		expected [3]time.Duration
	}{
		{
			name:     "defaults",
			expected: [3]time.Duration{15 * time.Second, 15 * time.Second, 60 * time.Second},
		},
		{
			name: "custom values",
			env: map[string]string{
				"SERVER_READ_TIMEOUT":  "30s",
				"SERVER_WRITE_TIMEOUT": "45s",
				"SERVER_IDLE_TIMEOUT":  "120s",
			},
			expected: [3]time.Duration{30 * time.Second, 45 * time.Second, 120 * time.Second},
		},
		{
			name:     "invalid duration falls back",
			env:      map[string]string{"SERVER_READ_TIMEOUT": "not-a-duration"},
			expected: [3]time.Duration{15 * time.Second, 15 * time.Second, 60 * time.Second},
		},
		{
			name:     "explicit zero honored",
			env:      map[string]string{"SERVER_READ_TIMEOUT": "0s"},
			expected: [3]time.Duration{0, 15 * time.Second, 60 * time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			require.NoError(t, err)

			assert.Equal(t, tt.expected[0], cfg.Server.ReadTimeout)
			assert.Equal(t, tt.expected[1], cfg.Server.WriteTimeout)
			assert.Equal(t, tt.expected[2], cfg.Server.IdleTimeout)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: 5433, User: "app", Password: "pw", Name: "roomgate", SSLMode: "require"}

	assert.Equal(t, "host=db port=5433 user=app password=pw dbname=roomgate sslmode=require", cfg.DSN())
}

func TestLoad_TrustedProxies(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TRUSTED_PROXIES", " 10.0.0.0/8, ,fd00::/8 ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "fd00::/8"}, cfg.Server.TrustedProxies)

	t.Setenv("TRUSTED_PROXIES", "")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Server.TrustedProxies)
}
