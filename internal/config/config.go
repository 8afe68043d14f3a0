// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/eld-logbook/internal/hos"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// MapboxToken authenticates geocoding and directions calls. Required.
	MapboxToken string
	// MapboxBaseURL points the routing client at Mapbox or a stand-in.
	MapboxBaseURL string

	// RedisAddr enables the geocode cache when set (host:port).
	RedisAddr string
	// GeocodeCacheTTL is how long cached coordinates live. Defaults to 24h.
	GeocodeCacheTTL time.Duration

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// CalculateRatePerMinute limits trip calculations per client IP.
	// Defaults to 30; 0 disables the limit.
	CalculateRatePerMinute int
	// CalculateBurst is the burst allowed above that rate. Defaults to 5.
	CalculateBurst int

	// HOS overrides; nil keeps the engine default.
	MaxDrivingHours    *float64
	BreakAfterHours    *float64
	FuelProximityMiles *float64
	RefuelOncePerStop  *bool
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or the
// first variable whose value cannot be parsed.
func Load() (Config, error) {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigins:   splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		MapboxBaseURL: getEnv("MAPBOX_BASE_URL", "https://api.mapbox.com"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	cfg.MapboxToken = os.Getenv("MAPBOX_ACCESS_TOKEN")
	if cfg.MapboxToken == "" {
		missing = append(missing, "MAPBOX_ACCESS_TOKEN")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	var err error
	if cfg.GeocodeCacheTTL, err = time.ParseDuration(getEnv("GEOCODE_CACHE_TTL", "24h")); err != nil {
		return Config{}, fmt.Errorf("GEOCODE_CACHE_TTL: %w", err)
	}
	if cfg.MaxBodyBytes, err = strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64); err != nil || cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES: must be a positive integer")
	}
	if cfg.CalculateRatePerMinute, err = strconv.Atoi(getEnv("CALCULATE_RATE_PER_MINUTE", "30")); err != nil || cfg.CalculateRatePerMinute < 0 {
		return Config{}, fmt.Errorf("CALCULATE_RATE_PER_MINUTE: must be a non-negative integer")
	}
	if cfg.CalculateBurst, err = strconv.Atoi(getEnv("CALCULATE_BURST", "5")); err != nil || cfg.CalculateBurst < 1 {
		return Config{}, fmt.Errorf("CALCULATE_BURST: must be a positive integer")
	}
	if cfg.MaxDrivingHours, err = optionalFloat("HOS_MAX_DRIVING_HOURS"); err != nil {
		return Config{}, err
	}
	if cfg.BreakAfterHours, err = optionalFloat("HOS_BREAK_AFTER_HOURS"); err != nil {
		return Config{}, err
	}
	if cfg.FuelProximityMiles, err = optionalFloat("HOS_FUEL_PROXIMITY_MILES"); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("HOS_REFUEL_ONCE_PER_STOP"); v != "" {
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			return Config{}, fmt.Errorf("HOS_REFUEL_ONCE_PER_STOP: %w", perr)
		}
		cfg.RefuelOncePerStop = &b
	}

	return cfg, nil
}

// Rules applies the HOS overrides to base. Callers validate the result.
func (c Config) Rules(base hos.Rules) hos.Rules {
	if c.MaxDrivingHours != nil {
		base.MaxDailyDriving = *c.MaxDrivingHours
	}
	if c.BreakAfterHours != nil {
		base.BreakAfterDriving = *c.BreakAfterHours
	}
	if c.FuelProximityMiles != nil {
		base.FuelProximityMiles = *c.FuelProximityMiles
	}
	if c.RefuelOncePerStop != nil {
		base.RefuelOncePerStop = *c.RefuelOncePerStop
	}
	return base
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func optionalFloat(key string) (*float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &f, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
