package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "dev")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "America/Toronto", cfg.Timezone)
	assert.Equal(t, 30*time.Minute, cfg.SlotIncrement)
	assert.Equal(t, "sunday", cfg.ClosedWeekday)
	assert.Equal(t, 90, cfg.SlotHorizonDays)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORSAllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SLOT_INCREMENT", "15m")
	t.Setenv("BUSINESS_TIMEZONE", "Europe/Paris")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.SlotIncrement)
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Paris", loc.String())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoad_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("BUSINESS_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BUSINESS_TIMEZONE must be an IANA time zone name")
}

func TestLoad_ReportsInvalidFieldsByEnvName(t *testing.T) {
	t.Setenv("SLOT_INCREMENT", "0s")
	t.Setenv("SLOT_OPEN_TIME", "sunrise")
	t.Setenv("BOOKING_RATE_BURST", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SLOT_INCREMENT must be > 0")
	assert.Contains(t, err.Error(), "SLOT_OPEN_TIME must be a time like 2:00 PM or 14:00")
	assert.Contains(t, err.Error(), "BOOKING_RATE_BURST must be > 0")
}
