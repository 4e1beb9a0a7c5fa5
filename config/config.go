package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	EnvDevelopment = "development"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Scheduling SchedulingConfig
	Billing    BillingConfig
	Log        LogConfig
}

type AppConfig struct {
	Port          string
	Env           string
	Timezone      string
	StorageDriver string
	CORSOrigins   []string
}

type DBConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxIdleConns int
	MaxOpenConns int
}

// URL returns the connection string in URL form, as golang-migrate expects it.
func (c DBConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

type SchedulingConfig struct {
	DefaultSlotMinutes int
	NoShowGrace        time.Duration
	NoShowSweepCron    string
	SlotGenerationCron string
	HorizonDays        int
	BookingLockTTL     time.Duration
}

type BillingConfig struct {
	ExaminationFee decimal.Decimal
	GatewaySecret  string
	// AllowUnsignedCallbacks lets callbacks through without a secret. It is
	// only honoured when APP_ENV is development.
	AllowUnsignedCallbacks bool
}

type LogConfig struct {
	Level  string
	Format string
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", EnvDevelopment)
	viper.SetDefault("APP_TIMEZONE", "Asia/Jakarta")
	viper.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_IDLE_CONNS", 10)
	viper.SetDefault("DB_MAX_OPEN_CONNS", 100)

	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")

	viper.SetDefault("SLOT_DEFAULT_MINUTES", 60)
	viper.SetDefault("NOSHOW_SWEEP_CRON", "@every 5m")
	viper.SetDefault("SLOT_GENERATION_CRON", "5 0 * * *")
	viper.SetDefault("SLOT_HORIZON_DAYS", 14)

	viper.SetDefault("BILLING_EXAMINATION_FEE", "20000")
	viper.SetDefault("GATEWAY_ALLOW_UNSIGNED", false)

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
}

func LoadConfig() (*Config, error) {
	setDefaults()
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 12 * time.Hour
	}

	noShowGrace, err := time.ParseDuration(viper.GetString("NOSHOW_GRACE"))
	if err != nil {
		noShowGrace = 30 * time.Minute
	}

	allowUnsigned := viper.GetBool("GATEWAY_ALLOW_UNSIGNED") && viper.GetString("APP_ENV") == EnvDevelopment

	lockTTL, err := time.ParseDuration(viper.GetString("BOOKING_LOCK_TTL"))
	if err != nil {
		lockTTL = 5 * time.Second
	}

	examinationFee, err := decimal.NewFromString(viper.GetString("BILLING_EXAMINATION_FEE"))
	if err != nil {
		return nil, fmt.Errorf("invalid BILLING_EXAMINATION_FEE: %w", err)
	}

	config := &Config{
		App: AppConfig{
			Port:          viper.GetString("APP_PORT"),
			Env:           viper.GetString("APP_ENV"),
			Timezone:      viper.GetString("APP_TIMEZONE"),
			StorageDriver: viper.GetString("STORAGE_DRIVER"),
			CORSOrigins:   strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ","),
		},
		DB: DBConfig{
			Host:         viper.GetString("DB_HOST"),
			Port:         viper.GetString("DB_PORT"),
			User:         viper.GetString("DB_USER"),
			Password:     viper.GetString("DB_PASSWORD"),
			Name:         viper.GetString("DB_NAME"),
			SSLMode:      viper.GetString("DB_SSLMODE"),
			MaxIdleConns: viper.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns: viper.GetInt("DB_MAX_OPEN_CONNS"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       viper.GetString("JWT_SECRET"),
			AccessExpiry: accessExpiry,
		},
		Scheduling: SchedulingConfig{
			DefaultSlotMinutes: viper.GetInt("SLOT_DEFAULT_MINUTES"),
			NoShowGrace:        noShowGrace,
			NoShowSweepCron:    viper.GetString("NOSHOW_SWEEP_CRON"),
			SlotGenerationCron: viper.GetString("SLOT_GENERATION_CRON"),
			HorizonDays:        viper.GetInt("SLOT_HORIZON_DAYS"),
			BookingLockTTL:     lockTTL,
		},
		Billing: BillingConfig{
			ExaminationFee:         examinationFee,
			GatewaySecret:          viper.GetString("GATEWAY_CALLBACK_SECRET"),
			AllowUnsignedCallbacks: allowUnsigned,
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
	}

	if config.App.StorageDriver != StorageDriverPostgres && config.App.StorageDriver != StorageDriverMemory {
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", config.App.StorageDriver)
	}

	return config, nil
}

// Location resolves the clinic timezone, falling back to UTC.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
