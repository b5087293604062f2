package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultJWTSecret = "artisthub-dev-secret"
const defaultAdminToken = "artisthub-admin"

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	ClientURL         string `mapstructure:"CLIENT_URL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// DatabaseURL is either a mongodb:// URI or memory:// for the in-process store.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	JWTSecret  string        `mapstructure:"JWT_SECRET"`
	JWTTTL     time.Duration `mapstructure:"JWT_TTL"`
	AdminToken string        `mapstructure:"ADMIN_TOKEN"`

	// Redis configuration. An empty address disables the availability cache.
	RedisAddr            string        `mapstructure:"REDIS_ADDR"`
	RedisPassword        string        `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int           `mapstructure:"REDIS_CACHE_DB"`
	AvailabilityCacheTTL time.Duration `mapstructure:"AVAILABILITY_CACHE_TTL"`

	// Order reminders run on an asynq queue in RedisQueueDB. A zero lead disables them.
	RedisQueueDB int           `mapstructure:"REDIS_QUEUE_DB"`
	ReminderLead time.Duration `mapstructure:"REMINDER_LEAD"`

	BookingMaxAttempts int `mapstructure:"BOOKING_MAX_ATTEMPTS"`
}

var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CLIENT_URL", "http://localhost:3000")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "artisthub")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("ADMIN_TOKEN", defaultAdminToken)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("AVAILABILITY_CACHE_TTL", "30s")
	v.SetDefault("REDIS_QUEUE_DB", 1)
	v.SetDefault("REMINDER_LEAD", "24h")
	v.SetDefault("BOOKING_MAX_ATTEMPTS", 3)
}

// Load reads config.yaml (from "." or "./config") and the environment into a Config.
func Load(v *viper.Viper) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	// Automatically use environment variables where available.
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig populates AppConfig from the global viper instance and exits on failure.
func LoadConfig() *Config {
	cfg, err := Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = *cfg
	return &AppConfig
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	if c.AppPort == "" {
		return fmt.Errorf("APP_PORT must not be empty")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if !c.UsesMemoryStore() && c.DatabaseName == "" {
		return fmt.Errorf("DATABASE_NAME must not be empty")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if c.BookingMaxAttempts < 1 || c.BookingMaxAttempts > 5 {
		return fmt.Errorf("BOOKING_MAX_ATTEMPTS must be between 1 and 5")
	}
	if c.MaxRequestsPerMin <= 0 {
		return fmt.Errorf("MAX_REQUESTS_PER_MIN must be > 0")
	}
	if c.RedisAddr != "" && c.AvailabilityCacheTTL <= 0 {
		return fmt.Errorf("AVAILABILITY_CACHE_TTL must be > 0 when REDIS_ADDR is set")
	}

	if c.ReminderLead < 0 {
		return fmt.Errorf("REMINDER_LEAD must not be negative")
	}
	if c.RedisAddr != "" && c.ReminderLead > 0 && c.RedisQueueDB == c.RedisCacheDB {
		return fmt.Errorf("REDIS_QUEUE_DB must differ from REDIS_CACHE_DB")
	}

	if c.IsProduction() {
		if strings.TrimSpace(c.JWTSecret) == "" || c.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("in production JWT_SECRET must be set and not default")
		}
		if strings.TrimSpace(c.AdminToken) == "" || c.AdminToken == defaultAdminToken {
			return fmt.Errorf("in production ADMIN_TOKEN must be set and not default")
		}
		if c.UsesMemoryStore() {
			return fmt.Errorf("in production DATABASE_URL must point at MongoDB")
		}
	}
	return nil
}

// RemindersEnabled reports whether order reminders should be queued.
func (c *Config) RemindersEnabled() bool {
	return c.RedisAddr != "" && c.ReminderLead > 0
}

// UsesMemoryStore reports whether DATABASE_URL selects the in-process store.
func (c *Config) UsesMemoryStore() bool {
	return strings.HasPrefix(c.DatabaseURL, "memory://")
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return AppConfig.IsProduction()
}
