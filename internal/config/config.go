package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver   string `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName     string `env:"DB_NAME" envDefault:"prp"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	HTTPAddr  string `env:"HTTP_ADDR" envDefault:":8080"`
	GinMode   string `env:"GIN_MODE" envDefault:"debug"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`

	SessionSecret string `env:"SESSION_SECRET" envDefault:"default-secret-key-change-me"`
	SessionStore  string `env:"SESSION_STORE" envDefault:"cookie"`
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     string `env:"REDIS_PORT" envDefault:"6379"`

	OTPTTL     time.Duration `env:"OTP_TTL" envDefault:"10m"`
	DevOTPCode string        `env:"DEV_OTP_CODE"`

	ZenHRClientID     string        `env:"ZENHR_CLIENT_ID"`
	ZenHRClientSecret string        `env:"ZENHR_CLIENT_SECRET"`
	ZenHRTokenURL     string        `env:"ZENHR_TOKEN_URL" envDefault:"https://api.zenhr.com/oauth/token"`
	ZenHRBaseURL      string        `env:"ZENHR_BASE_URL" envDefault:"https://api.zenhr.com"`
	ZenHRBranchID     string        `env:"ZENHR_BRANCH_ID" envDefault:"5737"`
	HolidaySyncEvery  time.Duration `env:"HOLIDAY_SYNC_INTERVAL" envDefault:"1h"`
	HolidaySyncOn     bool          `env:"HOLIDAY_SYNC_ENABLED" envDefault:"true"`
}

// Load reads an optional .env file and then parses the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// HolidaySyncEnabled is true when the job is switched on and ZenHR credentials are present.
func (c *Config) HolidaySyncEnabled() bool {
	return c.HolidaySyncOn && c.hasZenHRCredentials()
}

func (c *Config) hasZenHRCredentials() bool {
	return c.ZenHRClientID != "" && c.ZenHRClientSecret != ""
}
