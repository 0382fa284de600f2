package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("OTP_EXPIRY", "5m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://admin.mealhub.in, https://partners.mealhub.in")
	t.Setenv("CONFIG_FILE", "")

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, config.App.Port)
	assert.Equal(t, "from-env", config.Security.JWTSecret)
	assert.Equal(t, 5*time.Minute, config.Security.OTPExpiry)
	assert.Equal(t, []string{"https://admin.mealhub.in", "https://partners.mealhub.in"}, config.Security.CORSAllowedOrigins)
	assert.Equal(t, "mealhub", config.Database.Database)
	assert.True(t, config.IsDevelopment())
}

func TestLoadAppliesYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mealhub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  port: 7000
database:
  database: mealhub_staging
security:
  otp_expiry: 90s
`), 0o600))

	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("CONFIG_FILE", path)

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7000, config.App.Port)
	assert.Equal(t, "127.0.0.1", config.App.Host)
	assert.Equal(t, "mealhub_staging", config.Database.Database)
	assert.Equal(t, 90*time.Second, config.Security.OTPExpiry)
	assert.Equal(t, "from-env", config.Security.JWTSecret)
}

func TestLoadRejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CONFIG_FILE", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadMissingOverlayFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}
