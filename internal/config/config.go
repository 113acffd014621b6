// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/devevents/api/internal/geocode"
)

// Config is everything the server needs from the environment.
type Config struct {
	Port            int
	DBPath          string
	JWTSecret       string
	GeocoderBaseURL string
	GeocoderEmail   string
	LogLevel        string
	RateLimitRPS    float64
	RateLimitBurst  int
}

// Load reads the .env file if one exists, then the environment. The only
// hard requirement is JWT_SECRET; everything else has a development
// default.
func Load() (*Config, error) {
	// A missing .env is fine; the environment may be fully set already.
	_ = godotenv.Load()

	cfg := &Config{
		Port:            8080,
		DBPath:          "data/devevents.db",
		JWTSecret:       os.Getenv("JWT_SECRET"),
		GeocoderBaseURL: geocode.DefaultBaseURL,
		GeocoderEmail:   os.Getenv("GEOCODER_EMAIL"),
		LogLevel:        os.Getenv("LOG_LEVEL"),
		RateLimitRPS:    10,
		RateLimitBurst:  20,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("GEOCODER_BASE_URL"); v != "" {
		cfg.GeocoderBaseURL = v
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("config: invalid RATE_LIMIT_RPS %q: %w", v, err)
		}
		cfg.RateLimitRPS = rps
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid RATE_LIMIT_BURST %q: %w", v, err)
		}
		cfg.RateLimitBurst = burst
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("config: JWT_SECRET must be set")
	}

	return cfg, nil
}
