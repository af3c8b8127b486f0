package analytics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// No test file exists for usage.go in the teacher (sast-engine/analytics
// has no _test.go at all); these are written from scratch and need no
// network: Report must never reach the network when disabled or
// unconfigured, and LoadDistinctID must read its ID from the env file.

func TestNewReturnsInertTrackerWithoutPublicKey(t *testing.T) {
	tr := New("", "1.0.0", false)
	require.NotNil(t, tr)
	// No PostHog client is ever constructed, so this must return instantly
	// and never panic even with a nil-like properties map.
	tr.Report(BuildStarted, nil)
}

func TestReportNoopWhenDisabled(t *testing.T) {
	tr := New("phc_fakekey", "1.0.0", true)
	tr.Report(BuildCompleted, map[string]interface{}{"files_processed": 3})
}

func TestReportNoopOnNilTracker(t *testing.T) {
	var tr *Tracker
	assert.NotPanics(t, func() {
		tr.Report(EvaluateStarted, nil)
	})
}

func TestLoadDistinctIDCreatesEnvFileUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("uuid", "")

	LoadDistinctID()

	envFile := filepath.Join(home, ".archlint", ".env")
	_, err := os.Stat(envFile)
	require.NoError(t, err, "LoadDistinctID should create ~/.archlint/.env on first run")
	assert.NotEmpty(t, os.Getenv("uuid"), "LoadDistinctID should populate the uuid env var from the created file")
}

func TestLoadDistinctIDIsIdempotent(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	LoadDistinctID()
	first := os.Getenv("uuid")

	t.Setenv("uuid", "")
	LoadDistinctID()
	second := os.Getenv("uuid")

	assert.Equal(t, first, second, "a second run must not regenerate the anonymous id")
}
