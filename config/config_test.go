package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_USER", "clinic")
	t.Setenv("DB_NAME", "clinic_ops")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, StorageDriverPostgres, cfg.App.StorageDriver)
	assert.Equal(t, []string{"*"}, cfg.App.CORSOrigins)
	assert.False(t, cfg.Billing.AllowUnsignedCallbacks)
	assert.Equal(t, 60, cfg.Scheduling.DefaultSlotMinutes)
	assert.Equal(t, 30*time.Minute, cfg.Scheduling.NoShowGrace)
	assert.Equal(t, 14, cfg.Scheduling.HorizonDays)
	assert.Equal(t, 12*time.Hour, cfg.JWT.AccessExpiry)
	assert.True(t, cfg.Billing.ExaminationFee.Equal(decimal.NewFromInt(20000)))
	assert.Equal(t, "postgres://clinic:@localhost:5432/clinic_ops?sslmode=disable", cfg.DB.URL())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("NOSHOW_GRACE", "10m")
	t.Setenv("BILLING_EXAMINATION_FEE", "75000.50")
	t.Setenv("APP_TIMEZONE", "Asia/Jakarta")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://desk.clinic.test,https://cashier.clinic.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.App.StorageDriver)
	assert.Equal(t, 10*time.Minute, cfg.Scheduling.NoShowGrace)
	assert.Equal(t, []string{"https://desk.clinic.test", "https://cashier.clinic.test"}, cfg.App.CORSOrigins)
	assert.True(t, cfg.Billing.ExaminationFee.Equal(decimal.RequireFromString("75000.50")))
}

func TestUnsignedCallbacksOnlyInDevelopment(t *testing.T) {
	t.Setenv("GATEWAY_ALLOW_UNSIGNED", "true")

	t.Setenv("APP_ENV", EnvDevelopment)
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Billing.AllowUnsignedCallbacks)

	t.Setenv("APP_ENV", "production")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.Billing.AllowUnsignedCallbacks)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Run("fee", func(t *testing.T) {
		t.Setenv("BILLING_EXAMINATION_FEE", "free")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("storage driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "sqlite")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}

func TestLocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, AppConfig{Timezone: "Mars/Olympus"}.Location())
	assert.Equal(t, "UTC", AppConfig{Timezone: "UTC"}.Location().String())
}
