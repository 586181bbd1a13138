package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/rfq")
	t.Setenv("JWT_ACCESS_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	require.Equal(t, 7090, cfg.HTTP.Port)
	require.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
	require.Equal(t, "INR", cfg.RFQ.DefaultCurrency)
	require.Equal(t, []string{"INR"}, cfg.RFQ.AllowedCurrencies)
	require.Equal(t, 50, cfg.RFQ.ListLimit)
	require.Equal(t, 30, cfg.RateLimit.QuoteLimit)
	require.Equal(t, time.Minute, cfg.RateLimit.QuoteWindow)
	require.Empty(t, cfg.Redis.Addr)
}

func TestLoadReadsCurrencies(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/rfq")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("RFQ_DEFAULT_CURRENCY", "usd")
	t.Setenv("RFQ_ALLOWED_CURRENCIES", "usd, eur ,")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "USD", cfg.RFQ.DefaultCurrency)
	require.Equal(t, []string{"USD", "EUR"}, cfg.RFQ.AllowedCurrencies)
}

func TestLoadRejectsMissingSecrets(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_ACCESS_SECRET", "")

	_, err := Load()
	require.EqualError(t, err, "DB_DSN is required")

	t.Setenv("DB_DSN", "postgres://localhost/rfq")
	_, err = Load()
	require.EqualError(t, err, "JWT_ACCESS_SECRET is required")
}

func TestLoadRejectsDefaultOutsideAllowed(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/rfq")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("RFQ_DEFAULT_CURRENCY", "INR")
	t.Setenv("RFQ_ALLOWED_CURRENCIES", "USD")

	_, err := Load()
	require.EqualError(t, err, "RFQ_ALLOWED_CURRENCIES must include INR")
}
