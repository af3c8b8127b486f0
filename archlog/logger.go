// Package archlog is a small structured logger writing to stderr, with
// verbosity levels, named phase timings, and a TTY-aware progress bar.
// Grounded on sast-engine/output/logger.go and tty.go; no structured-
// logging library (zerolog/zap/logrus) is reached for here because the
// teacher itself never imports one despite being a mature CLI tool.
package archlog

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Verbosity controls how much a Logger writes.
type Verbosity int

const (
	Quiet Verbosity = iota
	Normal
	Verbose
	Debug
)

// Logger writes diagnostic output to a single writer (normally os.Stderr,
// keeping stdout clean for the violation report), gated by Verbosity.
type Logger struct {
	verbosity Verbosity
	writer    io.Writer
	startTime time.Time
	timings   map[string]time.Duration

	isTTY       bool
	progressBar *progressbar.ProgressBar
}

// New returns a Logger writing to os.Stderr.
func New(verbosity Verbosity) *Logger {
	return NewWithWriter(verbosity, os.Stderr)
}

// NewWithWriter returns a Logger writing to w, used in tests to capture
// output without a real terminal.
func NewWithWriter(verbosity Verbosity, w io.Writer) *Logger {
	return &Logger{
		verbosity: verbosity,
		writer:    w,
		startTime: time.Now(),
		timings:   make(map[string]time.Duration),
		isTTY:     IsTTY(w),
	}
}

// IsTTY reports whether w is connected to a terminal.
func IsTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Progress logs a high-level progress message (verbose and debug only).
func (l *Logger) Progress(format string, args ...interface{}) {
	if l.verbosity >= Verbose {
		fmt.Fprintf(l.writer, format+"\n", args...)
	}
}

// Debug logs a diagnostic message with an elapsed-time prefix (debug only).
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.verbosity >= Debug {
		fmt.Fprintf(l.writer, "[%s] %s\n", formatDuration(time.Since(l.startTime)), fmt.Sprintf(format, args...))
	}
}

// Warning logs a warning; always shown unless Quiet.
func (l *Logger) Warning(format string, args ...interface{}) {
	if l.verbosity == Quiet {
		return
	}
	fmt.Fprintf(l.writer, "warning: %s\n", fmt.Sprintf(format, args...))
}

// Error logs an error; always shown, even in Quiet mode.
func (l *Logger) Error(format string, args ...interface{}) {
	fmt.Fprintf(l.writer, "error: %s\n", fmt.Sprintf(format, args...))
}

// StartPhase begins timing a named build/evaluate phase; call the
// returned func when the phase ends.
func (l *Logger) StartPhase(name string) func() {
	start := time.Now()
	return func() {
		l.timings[name] = time.Since(start)
	}
}

// PhaseDuration returns how long a named phase took, or zero if it was
// never timed.
func (l *Logger) PhaseDuration(name string) time.Duration {
	return l.timings[name]
}

// PrintTimingSummary prints every recorded phase duration (verbose mode only).
func (l *Logger) PrintTimingSummary() {
	if l.verbosity < Verbose {
		return
	}
	fmt.Fprintln(l.writer, "phase timings:")
	for name, d := range l.timings {
		fmt.Fprintf(l.writer, "  %s: %s\n", name, d.Round(time.Millisecond))
	}
}

func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000
	return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, millis)
}

// StartProgress begins a progress bar for total steps (-1 for an
// indeterminate spinner), shown only when attached to a TTY; otherwise it
// falls back to a single Progress line.
func (l *Logger) StartProgress(description string, total int) {
	if !l.isTTY {
		l.Progress("%s...", description)
		return
	}
	if l.progressBar != nil {
		_ = l.progressBar.Finish()
	}
	opts := []progressbar.Option{
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(l.writer),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(65 * time.Millisecond),
	}
	if total < 0 {
		opts = append(opts, progressbar.OptionSpinnerType(14))
	} else {
		opts = append(opts, progressbar.OptionShowCount())
	}
	l.progressBar = progressbar.NewOptions(total, opts...)
}

// AdvanceProgress increments the active progress bar by delta; a no-op if
// no progress bar is active (non-TTY mode).
func (l *Logger) AdvanceProgress(delta int) {
	if l.progressBar == nil {
		return
	}
	_ = l.progressBar.Add(delta)
}

// FinishProgress completes and clears the active progress bar.
func (l *Logger) FinishProgress() {
	if l.progressBar == nil {
		return
	}
	_ = l.progressBar.Finish()
	l.progressBar = nil
}
