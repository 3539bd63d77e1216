package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	require.Equal(t, 60*time.Second, cfg.SolverTimeLimit)
	require.Equal(t, 0.01, cfg.SolverRelativeGap)
	require.Equal(t, 0.5, cfg.FeasibilityRelativeGap)
	require.True(t, cfg.RestrictionLoopEnabled)
	require.True(t, cfg.IsDevelopment())
	require.False(t, cfg.IsProduction())
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("SOLVER_TIME_LIMIT", "30s")
	t.Setenv("SOLVER_RELATIVE_GAP", "0.05")
	t.Setenv("RESTRICTION_LOOP_ENABLED", "false")
	t.Setenv("ENV", "production")

	cfg := Load()
	require.Equal(t, 30*time.Second, cfg.SolverTimeLimit)
	require.Equal(t, 0.05, cfg.SolverRelativeGap)
	require.False(t, cfg.RestrictionLoopEnabled)
	require.True(t, cfg.IsProduction())
}

func TestLoadFallsBackOnInvalidValues(t *testing.T) {
	t.Setenv("SOLVER_TIME_LIMIT", "not-a-duration")
	t.Setenv("SOLVER_RELATIVE_GAP", "not-a-float")

	cfg := Load()
	require.Equal(t, 60*time.Second, cfg.SolverTimeLimit)
	require.Equal(t, 0.01, cfg.SolverRelativeGap)
}
