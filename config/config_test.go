package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 3, cfg.BookingMaxAttempts)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 30*time.Second, cfg.AvailabilityCacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.ReminderLead)
	assert.False(t, cfg.UsesMemoryStore())
	assert.False(t, cfg.RemindersEnabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "memory://")
	t.Setenv("BOOKING_MAX_ATTEMPTS", "2")
	t.Setenv("JWT_TTL", "90m")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.True(t, cfg.UsesMemoryStore())
	assert.Equal(t, 2, cfg.BookingMaxAttempts)
	assert.Equal(t, 90*time.Minute, cfg.JWTTTL)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			AppPort:            "8080",
			Env:                "development",
			DatabaseURL:        "mongodb://localhost:27017",
			DatabaseName:       "artisthub",
			JWTSecret:          defaultJWTSecret,
			JWTTTL:             time.Hour,
			AdminToken:         defaultAdminToken,
			MaxRequestsPerMin:  100,
			BookingMaxAttempts: 3,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero attempts", func(c *Config) { c.BookingMaxAttempts = 0 }, true},
		{"too many attempts", func(c *Config) { c.BookingMaxAttempts = 10 }, true},
		{"zero ttl", func(c *Config) { c.JWTTTL = 0 }, true},
		{"redis without cache ttl", func(c *Config) { c.RedisAddr = "localhost:6379" }, true},
		{"negative reminder lead", func(c *Config) { c.ReminderLead = -time.Minute }, true},
		{"queue shares cache db", func(c *Config) {
			c.RedisAddr = "localhost:6379"
			c.AvailabilityCacheTTL = time.Second
			c.ReminderLead = time.Hour
		}, true},
		{"reminders configured", func(c *Config) {
			c.RedisAddr = "localhost:6379"
			c.AvailabilityCacheTTL = time.Second
			c.ReminderLead = time.Hour
			c.RedisQueueDB = 1
		}, false},
		{"production default secret", func(c *Config) { c.Env = "production" }, true},
		{"production memory store", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "s3cret"
			c.AdminToken = "t0ken"
			c.DatabaseURL = "memory://"
		}, true},
		{"production configured", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "s3cret"
			c.AdminToken = "t0ken"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
