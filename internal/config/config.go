package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"

	"latexorder-bot/internal/projector"
)

type Config struct {
	TelegramToken          string        `env:"TELEGRAM_TOKEN,required,notEmpty"`
	TelegramDebug          bool          `env:"TELEGRAM_DEBUG" envDefault:"false"`
	APIBaseURL             string        `env:"API_BASE_URL"`
	APIKey                 string        `env:"API_KEY"`
	HTTPRequestTimeout     time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	RedisAddr              string        `env:"REDIS_ADDR,required"`
	RedisPassword          string        `env:"REDIS_PASSWORD"`
	RedisDB                int           `env:"REDIS_DB" envDefault:"0"`
	SessionTTL             time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	DBHost                 string        `env:"DB_HOST,required"`
	DBPort                 int           `env:"DB_PORT,required"`
	DBUser                 string        `env:"DB_USER,required"`
	DBPassword             string        `env:"DB_PASSWORD,required"`
	DBName                 string        `env:"DB_NAME,required"`
	DBMaxOpenConns         int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns         int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLifetime      time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	DBConnMaxIdleTime      time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"2m"`
	AdminIDs               []int64       `env:"ADMIN_IDS" envSeparator:","`
	AdminChannelID         int64         `env:"ADMIN_CHANNEL_ID"`
	HTTPAddr               string        `env:"HTTP_ADDR" envDefault:":8080"`
	PriceAnimationDuration time.Duration `env:"PRICE_ANIMATION_DURATION" envDefault:"300ms"`
	PriceRenderInterval    time.Duration `env:"PRICE_RENDER_INTERVAL" envDefault:"1s"`
	SubmitTimeout          time.Duration `env:"SUBMIT_TIMEOUT" envDefault:"30s"`
	ReportsDir             string        `env:"REPORTS_DIR" envDefault:"reports"`
	LogLevel               string        `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.AdminIDs) == 0 {
		return errors.New("at least one admin ID is required")
	}
	if c.APIBaseURL != "" && c.APIKey == "" {
		return errors.New("API_KEY is required when API_BASE_URL is set")
	}
	if c.PriceAnimationDuration < projector.MinDuration {
		return fmt.Errorf("PRICE_ANIMATION_DURATION must be at least %s", projector.MinDuration)
	}
	if c.SubmitTimeout <= 0 {
		return errors.New("SUBMIT_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
