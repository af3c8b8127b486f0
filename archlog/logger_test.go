package archlog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterInitializesTimings(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Normal, &buf)
	require.NotNil(t, l)
	assert.NotNil(t, l.timings)
	assert.False(t, l.isTTY)
}

func TestProgressRespectsVerbosity(t *testing.T) {
	cases := []struct {
		name      string
		verbosity Verbosity
		wantOut   bool
	}{
		{"quiet hides progress", Quiet, false},
		{"normal hides progress", Normal, false},
		{"verbose shows progress", Verbose, true},
		{"debug shows progress", Debug, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewWithWriter(tc.verbosity, &buf)
			l.Progress("building %s", "model")
			if tc.wantOut {
				assert.Contains(t, buf.String(), "building model")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestWarningAlwaysShownUnlessQuiet(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Normal, &buf)
	l.Warning("depth cap reached")
	assert.Contains(t, buf.String(), "warning: depth cap reached")

	buf.Reset()
	l = NewWithWriter(Quiet, &buf)
	l.Warning("depth cap reached")
	assert.Empty(t, buf.String())
}

func TestStartPhaseRecordsDuration(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Verbose, &buf)
	done := l.StartPhase("build")
	done()
	assert.GreaterOrEqual(t, l.PhaseDuration("build").Nanoseconds(), int64(0))
}

func TestStartProgressFallsBackWhenNotATTY(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Verbose, &buf)
	l.StartProgress("parsing files", 10)
	assert.Contains(t, buf.String(), "parsing files...")
	assert.Nil(t, l.progressBar)
}
