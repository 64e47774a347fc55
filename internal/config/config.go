package config

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the process configuration read from the environment.
type Config struct {
	AppPort         string        `validate:"required"`
	DatabaseURL     string        `validate:"required"`
	FrontendURL     string        `validate:"omitempty,http_url"`
	RedisURL        string        `validate:"omitempty,url"`
	ProductCacheTTL time.Duration `validate:"gt=0"`
	RabbitMQURL     string        `validate:"omitempty,url"`
	RabbitMQQueue   string        `validate:"required"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":4000")
	v.SetDefault("DATABASE_URL", "sqlite://products.db")
	v.SetDefault("FRONTEND_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("PRODUCT_CACHE_TTL", "5m")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "product_events")
}

// Load reads an optional .env file, then the environment, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment variables from .env file")
	}

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a validated Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:         v.GetString("APP_PORT"),
		DatabaseURL:     v.GetString("DATABASE_URL"),
		FrontendURL:     v.GetString("FRONTEND_URL"),
		RedisURL:        v.GetString("REDIS_URL"),
		ProductCacheTTL: v.GetDuration("PRODUCT_CACHE_TTL"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		RabbitMQQueue:   v.GetString("RABBITMQ_QUEUE"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
