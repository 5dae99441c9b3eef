package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.telegram.org", cfg.GatewayURL)
	assert.Equal(t, "stockbot.db", cfg.DBPath)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 8, cfg.PerPage)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.Admins)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STOCKBOT_GATEWAY_TOKEN", "tok123")
	t.Setenv("STOCKBOT_ADMINS", "100,200")
	t.Setenv("STOCKBOT_PER_PAGE", "5")
	t.Setenv("STOCKBOT_SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tok123", cfg.GatewayToken)
	assert.Equal(t, []string{"100", "200"}, cfg.Admins)
	assert.Equal(t, 5, cfg.PerPage)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_RejectsBadDuration(t *testing.T) {
	t.Setenv("STOCKBOT_SHUTDOWN_TIMEOUT", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
}
