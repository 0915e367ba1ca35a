// Package config loads and validates game configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"polychase/internal/sim"
)

const (
	FrontendDesktop  = "desktop"
	FrontendTerminal = "terminal"
)

// Config holds all game configuration.
type Config struct {
	Frontend string // "desktop" or "terminal"
	Seed     uint64 // run seed; zero picks one from the clock
	LogLevel string

	// Progression store.
	DBPath string

	// Mission naming service.
	ScoutURL     string
	ScoutModel   string
	ScoutAPIKey  string
	ScoutTimeout time.Duration

	// Spectator feed. Empty disables the listener.
	SpectateAddr string

	// Pursuers farther than this from the player are dropped. Zero keeps all;
	// otherwise it must exceed sim.MinEvictDistance.
	EvictDistance float64

	Mute bool
}

// Load reads an optional .env file, then configuration from environment
// variables with defaults.
func Load() (Config, error) {
	// Missing .env is normal.
	_ = godotenv.Load()

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	seed, err := envUint("POLYCHASE_SEED", 0)
	collect(err)
	timeout, err := envDuration("POLYCHASE_SCOUT_TIMEOUT", 15*time.Second)
	collect(err)
	evict, err := envFloat("POLYCHASE_EVICT_DISTANCE", 0)
	collect(err)
	mute, err := envBool("POLYCHASE_MUTE", false)
	collect(err)
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}

	cfg := Config{
		Frontend:      strings.ToLower(envStr("POLYCHASE_FRONTEND", FrontendDesktop)),
		Seed:          seed,
		LogLevel:      envStr("POLYCHASE_LOG_LEVEL", "info"),
		DBPath:        envStr("POLYCHASE_DB", "polychase.db"),
		ScoutURL:      envStr("POLYCHASE_SCOUT_URL", "https://generativelanguage.googleapis.com/v1beta"),
		ScoutModel:    envStr("POLYCHASE_SCOUT_MODEL", "gemini-2.5-flash"),
		ScoutAPIKey:   envStr("GEMINI_API_KEY", ""),
		ScoutTimeout:  timeout,
		SpectateAddr:  envStr("POLYCHASE_SPECTATE_ADDR", ""),
		EvictDistance: evict,
		Mute:          mute,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that values are usable.
func (c Config) Validate() error {
	switch c.Frontend {
	case FrontendDesktop, FrontendTerminal:
	default:
		return fmt.Errorf("config: POLYCHASE_FRONTEND must be %q or %q, got %q", FrontendDesktop, FrontendTerminal, c.Frontend)
	}
	if c.DBPath == "" {
		return fmt.Errorf("config: POLYCHASE_DB is required")
	}
	if c.EvictDistance < 0 {
		return fmt.Errorf("config: POLYCHASE_EVICT_DISTANCE must not be negative")
	}
	if c.EvictDistance > 0 && c.EvictDistance <= sim.MinEvictDistance {
		return fmt.Errorf("config: POLYCHASE_EVICT_DISTANCE must be 0 or greater than %g, got %g", sim.MinEvictDistance, c.EvictDistance)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.ScoutTimeout <= 0 {
		return fmt.Errorf("config: POLYCHASE_SCOUT_TIMEOUT must be positive")
	}
	return nil
}

// Level parses LogLevel ("debug", "info", "warn", "error", optionally with an
// offset such as "info+2").
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: POLYCHASE_LOG_LEVEL=%q is not a valid level", c.LogLevel)
	}
	return l, nil
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envUint(key string, defaultVal uint64) (uint64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid unsigned integer", key, v)
	}
	return n, nil
}

func envFloat(key string, defaultVal float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid number", key, v)
	}
	return f, nil
}

func envBool(key string, defaultVal bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s=%q is not a valid boolean", key, v)
	}
	return b, nil
}

func envDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid duration", key, v)
	}
	return d, nil
}
