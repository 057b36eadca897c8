package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STRIPE_SECRET_KEY", "")
	t.Setenv("STRIPE_PUBLISHABLE_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Port[0] == ':')
	assert.Equal(t, 5*time.Minute, cfg.PlanCacheTTL)
	assert.Equal(t, "usd", cfg.Stripe.Currency)
	assert.False(t, cfg.Stripe.Enabled())
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
	assert.Nil(t, cfg)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", ":9000")
	t.Setenv("APP_BASE_URL", "https://seopilot.ai/")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_PUBLISHABLE_KEY", "pk_test_123")
	t.Setenv("SUBSCRIBE_RATE_PER_MINUTE", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Port)
	assert.Equal(t, "https://seopilot.ai", cfg.BaseURL)
	assert.Equal(t, "https://seopilot.ai/subscribe/complete", cfg.ReturnURL())
	assert.Equal(t, 5, cfg.SubscribeRatePerMinute)
	assert.True(t, cfg.Stripe.Enabled())
	assert.True(t, cfg.Secure())
}

func TestStripeConfig_EnabledNeedsBothKeys(t *testing.T) {
	assert.False(t, StripeConfig{SecretKey: "sk"}.Enabled())
	assert.False(t, StripeConfig{PublishableKey: "pk"}.Enabled())
	assert.True(t, StripeConfig{SecretKey: "sk", PublishableKey: "pk"}.Enabled())
}

func TestConfigureLogger(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)
	defer logrus.SetFormatter(&logrus.TextFormatter{})

	ConfigureLogger(&Config{LogLevel: "debug", LogFormat: "json"})
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	ConfigureLogger(&Config{LogLevel: "nonsense"})
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}
