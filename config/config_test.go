package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/archlint/archlint/archconst"
	"github.com/archlint/archlint/archlog"
)

func TestLoadDefaultsWhenUnset(t *testing.T) {
	for _, key := range []string{"ARCHLINT_MAX_WORKERS", "ARCHLINT_VERBOSITY", "ARCHLINT_DISABLE_ANALYTICS", "ARCHLINT_MAX_DEPTH_OVERRIDE", "ARCHLINT_RULE_DIR"} {
		t.Setenv(key, "")
	}
	cfg := Load("")
	assert.Equal(t, 0, cfg.MaxWorkers)
	assert.Equal(t, archlog.Normal, cfg.Verbosity)
	assert.False(t, cfg.DisableAnalytics)
	assert.Equal(t, archconst.MaxDepth, cfg.MaxDepthOverride)
}

func TestLoadReadsEnvironmentOverrides(t *testing.T) {
	t.Setenv("ARCHLINT_MAX_WORKERS", "4")
	t.Setenv("ARCHLINT_VERBOSITY", "debug")
	t.Setenv("ARCHLINT_DISABLE_ANALYTICS", "true")

	cfg := Load("")
	assert.Equal(t, 4, cfg.MaxWorkers)
	assert.Equal(t, archlog.Debug, cfg.Verbosity)
	assert.True(t, cfg.DisableAnalytics)
}

func TestLoadMaxDepthOverrideNeverFeedsEvaluation(t *testing.T) {
	t.Setenv("ARCHLINT_MAX_DEPTH_OVERRIDE", "5")
	cfg := Load("")
	assert.Equal(t, 5, cfg.MaxDepthOverride)
	assert.NotEqual(t, cfg.MaxDepthOverride, archconst.MaxDepth, "override is a diagnostic-only field, never archconst.MaxDepth itself")
}
