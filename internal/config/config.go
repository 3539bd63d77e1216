// Package config provides configuration loading and validation for the solver.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds every knob the solve orchestrator reads from the
// environment.
type Config struct {
	Env      string
	LogLevel string

	// SolverTimeLimit/SolverRelativeGap bound the Initial Plan Solver's MIP
	// (spec §4.4).
	SolverTimeLimit   time.Duration
	SolverRelativeGap float64

	// FeasibilityRelativeGap bounds every feasibility MIP the Restriction
	// Solver Runner invokes (spec §4.6) — looser than the initial solve's,
	// since these only need a feasible/infeasible verdict, not a near-optimal
	// objective. The Feasibility Runner's re-solves use SolverRelativeGap.
	FeasibilityRelativeGap float64

	// RestrictionLoopEnabled gates the Restriction Solver Runner (spec
	// §4.6); disabling it falls back to the naive max-stay table C5 already
	// computed, trading tighter restrictions for speed.
	RestrictionLoopEnabled bool
}

// Load reads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		Env:                    getEnv("ENV", "development"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		SolverTimeLimit:        parseDuration(getEnv("SOLVER_TIME_LIMIT", "60s"), 60*time.Second),
		SolverRelativeGap:      parseFloat(getEnv("SOLVER_RELATIVE_GAP", "0.01"), 0.01),
		FeasibilityRelativeGap: parseFloat(getEnv("FEASIBILITY_RELATIVE_GAP", "0.5"), 0.5),
		RestrictionLoopEnabled: parseBool(getEnv("RESTRICTION_LOOP_ENABLED", "true"), true),
	}
	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Warn().Str("value", s).Dur("fallback", fallback).Msg("invalid duration, using fallback")
		return fallback
	}
	return d
}

func parseFloat(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Warn().Str("value", s).Float64("fallback", fallback).Msg("invalid float, using fallback")
		return fallback
	}
	return f
}

func parseBool(s string, fallback bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		log.Warn().Str("value", s).Bool("fallback", fallback).Msg("invalid bool, using fallback")
		return fallback
	}
	return b
}
