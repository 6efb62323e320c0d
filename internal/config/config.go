package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"bookwithbea/internal/pkg/validator"
)

const (
	defaultJWTSecret = "change-me-jwt-secret"
	defaultTimezone  = "America/Toronto"
)

type Config struct {
	AppEnv   string `mapstructure:"APP_ENV"`
	Port     string `mapstructure:"PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DatabaseURL       string        `mapstructure:"DATABASE_URL" validate:"required"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS" validate:"gte=0"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS" validate:"gte=0"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME"`

	// Business calendar. Slot times are wall-clock times in Timezone.
	Timezone        string        `mapstructure:"BUSINESS_TIMEZONE" validate:"required,timezone"`
	OpenTime        string        `mapstructure:"SLOT_OPEN_TIME" validate:"required,clock"`
	CloseTime       string        `mapstructure:"SLOT_CLOSE_TIME" validate:"required,clock"`
	SlotIncrement   time.Duration `mapstructure:"SLOT_INCREMENT" validate:"gt=0"`
	ClosedWeekday   string        `mapstructure:"CLOSED_WEEKDAY"`
	SlotHorizonDays int           `mapstructure:"SLOT_HORIZON_DAYS" validate:"gte=0"`

	CatalogPath string `mapstructure:"CATALOG_PATH"`

	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	JWTTTL            time.Duration `mapstructure:"JWT_TTL" validate:"gt=0"`
	AdminPasswordHash string        `mapstructure:"ADMIN_PASSWORD_HASH"`

	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	BookingRatePerMinute int `mapstructure:"BOOKING_RATE_PER_MINUTE" validate:"gt=0"`
	BookingRateBurst     int `mapstructure:"BOOKING_RATE_BURST" validate:"gt=0"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB" validate:"gte=0"`
	RedisQueueKey string `mapstructure:"REDIS_QUEUE_KEY"`

	SheetPath     string        `mapstructure:"SHEET_PATH"`
	NotifyTimeout time.Duration `mapstructure:"NOTIFY_TIMEOUT" validate:"gt=0"`
}

var defaults = map[string]any{
	"APP_ENV":   "dev",
	"PORT":      "3000",
	"LOG_LEVEL": "info",

	"DATABASE_URL":         "booking.db",
	"DB_MAX_OPEN_CONNS":    10,
	"DB_MAX_IDLE_CONNS":    5,
	"DB_CONN_MAX_LIFETIME": "30m",

	"BUSINESS_TIMEZONE": defaultTimezone,
	"SLOT_OPEN_TIME":    "10:00",
	"SLOT_CLOSE_TIME":   "19:00",
	"SLOT_INCREMENT":    "30m",
	"CLOSED_WEEKDAY":    "sunday",
	"SLOT_HORIZON_DAYS": 90,

	"CATALOG_PATH": "",

	"JWT_SECRET":          defaultJWTSecret,
	"JWT_TTL":             "12h",
	"ADMIN_PASSWORD_HASH": "",

	"CORS_ALLOWED_ORIGINS": "http://localhost:3000,http://127.0.0.1:3000",

	"BOOKING_RATE_PER_MINUTE": 20,
	"BOOKING_RATE_BURST":      5,

	"REDIS_ADDR":      "",
	"REDIS_PASSWORD":  "",
	"REDIS_DB":        0,
	"REDIS_QUEUE_KEY": "bookings:notifications",

	"SHEET_PATH":     "",
	"NOTIFY_TIMEOUT": "15s",
}

// Load reads .env (if present), an optional config.yaml and the environment.
// Environment variables win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		zap.S().Debugf("no .env file loaded: %v", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.CORSAllowedOrigins = splitList(cfg.CORSAllowedOrigins)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location resolves the business timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) IsProduction() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if errs := validator.Validate(cfg); errs != nil {
		keys := make([]string, 0, len(errs))
		for k := range errs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+" "+errs[k])
		}
		return fmt.Errorf("invalid config: %s", strings.Join(parts, "; "))
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if strings.TrimSpace(cfg.AdminPasswordHash) == "" {
			return fmt.Errorf("in prod/release ADMIN_PASSWORD_HASH must be set")
		}
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
