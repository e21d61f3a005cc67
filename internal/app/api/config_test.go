package api

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredSecrets(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "JWT_ACCESS_TTL", "JWT_REFRESH_TTL", "RAZORPAY_KEY_ID", "RAZORPAY_KEY_SECRET", "ADMIN_EMAIL", "ADMIN_PASSWORD"} {
		t.Setenv(key, "")
	}
	t.Setenv("JWT_ACCESS_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	setRequiredSecrets(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "orders.events", cfg.RabbitMQExchange)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTTL)
	assert.False(t, cfg.Razorpay.Enabled())
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
temporalDisabled: true
jwt:
  accessSecret: file-access
  refreshSecret: file-refresh
  accessTtl: 5m
razorpay:
  keyId: rzp_test_file
  keySecret: file-secret
admin:
  email: admin@example.com
  password: from-file
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7070")
	t.Setenv("RAZORPAY_KEY_SECRET", "env-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.True(t, cfg.TemporalDisabled)
	assert.Equal(t, "file-access", cfg.JWT.AccessSecret)
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, "rzp_test_file", cfg.Razorpay.KeyID)
	assert.Equal(t, "env-secret", cfg.Razorpay.KeySecret)
	assert.True(t, cfg.Razorpay.Enabled())
	assert.Equal(t, "Administrator", cfg.Admin.Name)
}

func TestLoadConfig_Validation(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secrets":   {"JWT_ACCESS_SECRET": "", "JWT_REFRESH_SECRET": ""},
		"shared secret":     {"JWT_ACCESS_SECRET": "same", "JWT_REFRESH_SECRET": "same"},
		"bad ttl":           {"JWT_ACCESS_TTL": "fifteen"},
		"half gateway keys": {"RAZORPAY_KEY_ID": "rzp_test"},
		"admin no password": {"ADMIN_EMAIL": "admin@example.com"},
		"non-numeric port":  {"PORT": "http"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", "")
			setRequiredSecrets(t)
			for key, val := range env {
				t.Setenv(key, val)
			}
			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}
