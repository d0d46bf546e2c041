package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"MENU_API_URL", "UI_PORT", "API_PORT", "DATABASE_DSN", "UPLOAD_DIR",
		"ALLOWED_ORIGINS", "MAX_IMAGE_MB", "RATE_LIMIT", "REQUEST_TIMEOUT", "SESSION_TTL", "LOG_LEVEL", "GIN_MODE",
		"MAX_SESSIONS", "UI_RATE_LIMIT"} {
		t.Setenv(k, "")
	}

	cfg, err := Load(writeEnvFile(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.UI.MenuAPIURL)
	assert.Equal(t, 3000, cfg.UI.Port)
	assert.Equal(t, 5000, cfg.API.Port)
	assert.Equal(t, 10*time.Second, cfg.UI.RequestTimeout)
	assert.Equal(t, 12*time.Hour, cfg.UI.SessionTTL)
	assert.Equal(t, 1000, cfg.UI.MaxSessions)
	assert.Equal(t, float64(50), cfg.UI.RateLimit)
	assert.Equal(t, "./uploads", cfg.API.UploadDir)
	assert.Equal(t, int64(5<<20), cfg.API.MaxImageBytes)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.API.AllowedOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.API.DSN)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MENU_API_URL", "http://menus.internal:8080/")
	t.Setenv("UI_PORT", "8081")
	t.Setenv("REQUEST_TIMEOUT", "3")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("ALLOWED_ORIGINS", "https://pos.example.com, ,https://admin.example.com")
	t.Setenv("MAX_IMAGE_MB", "2")
	t.Setenv("RATE_LIMIT", "not-a-number")
	t.Setenv("MAX_SESSIONS", "200")
	t.Setenv("UI_RATE_LIMIT", "0.5")

	cfg, err := Load(writeEnvFile(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "http://menus.internal:8080", cfg.UI.MenuAPIURL)
	assert.Equal(t, 8081, cfg.UI.Port)
	assert.Equal(t, 3*time.Second, cfg.UI.RequestTimeout)
	assert.Equal(t, 30*time.Minute, cfg.UI.SessionTTL)
	assert.Equal(t, []string{"http://localhost:3000", "https://pos.example.com", "https://admin.example.com"}, cfg.API.AllowedOrigins)
	assert.Equal(t, int64(2<<20), cfg.API.MaxImageBytes)
	assert.Equal(t, float64(20), cfg.API.RateLimit)
	assert.Equal(t, 200, cfg.UI.MaxSessions)
	assert.Equal(t, 0.5, cfg.UI.RateLimit)
}

func TestLoad_EnvFile(t *testing.T) {
	t.Setenv("API_PORT", "")
	os.Unsetenv("API_PORT")

	cfg, err := Load(writeEnvFile(t, "API_PORT=6060\n"))
	require.NoError(t, err)
	assert.Equal(t, 6060, cfg.API.Port)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}
