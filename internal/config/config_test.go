package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/sales")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("TX_MAX_RETRIES", "")
	t.Setenv("MIGRATIONS", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "json", cfg.App.LogFormat)
	assert.Equal(t, 3, cfg.Database.TxMaxRetries)
	assert.False(t, cfg.App.Migrations)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/sales")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_FORMAT", "Console")
	t.Setenv("TX_MAX_RETRIES", "5")
	t.Setenv("MIGRATIONS", "yes")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "console", cfg.App.LogFormat)
	assert.Equal(t, 5, cfg.Database.TxMaxRetries)
	assert.True(t, cfg.App.Migrations)
}

func TestFromEnv_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestFromEnv_BadLogFormat(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/sales")
	t.Setenv("LOG_FORMAT", "xml")
	_, err := FromEnv()
	require.Error(t, err)
}

func TestGetEnvInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	assert.Equal(t, 7, getEnvInt("SOME_INT", 7))
}

func TestServerConfig_Origins(t *testing.T) {
	s := ServerConfig{AllowedOrigins: " https://a.example.com, ,https://b.example.com "}
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, s.Origins())
	assert.Empty(t, ServerConfig{}.Origins())
}
