// Package config loads the gateway configuration from the environment, with
// an optional .env file for development.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the gateway.
type Config struct {
	// Port is the gateway's listen port.
	Port int `env:"PORT" envDefault:"9080"`

	// StaticPath is the directory the SPA assets are served from.
	StaticPath string `env:"STATIC_PATH" envDefault:"./static"`

	// Backend microservice endpoints.
	AuthServiceURL     string `env:"AUTH_SERVICE_URL,required"`
	UserServiceURL     string `env:"USER_SERVICE_URL,required"`
	UserLoginURL       string `env:"USER_SERVICE_LOGIN_URL,required"`
	GroupServiceURL    string `env:"GROUP_SERVICE_URL,required"`
	OccasionServiceURL string `env:"OCCASION_SERVICE_URL,required"`

	// HTTPTimeout bounds every backend call.
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`

	// UserCacheTTL is how long resolved user records stay cached.
	UserCacheTTL time.Duration `env:"USER_CACHE_TTL" envDefault:"30s"`
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return cfg, nil
}
