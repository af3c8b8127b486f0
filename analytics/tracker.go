// Package analytics reports anonymous, opt-out usage counters: which
// phases ran and how long they took, never source content, file paths, or
// violation detail. Grounded on sast-engine/analytics/usage.go (same
// uuid+godotenv+posthog-go trio, same env-file anonymous id, same
// opt-out boolean).
package analytics

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/posthog/posthog-go"
)

// Event names reported by the build/evaluate pipeline.
const (
	BuildStarted      = "archlint:build_started"
	BuildCompleted    = "archlint:build_completed"
	BuildFailed       = "archlint:build_failed"
	EvaluateStarted   = "archlint:evaluate_started"
	EvaluateCompleted = "archlint:evaluate_completed"
)

// Tracker reports anonymous counters to an optional PostHog project. A
// zero-value Tracker with PublicKey empty is inert: every Report call is a
// no-op, matching the teacher's "only fires when a public key and consent
// are both present" behavior.
type Tracker struct {
	PublicKey string
	Version   string
	disabled  bool
}

// New returns a Tracker; disableMetrics mirrors a CLI --no-analytics flag
// or config.Config.DisableAnalytics.
func New(publicKey, version string, disableMetrics bool) *Tracker {
	return &Tracker{PublicKey: publicKey, Version: version, disabled: disableMetrics}
}

// LoadDistinctID ensures an anonymous id exists in
// ~/.archlint/.env (creating it on first run) and loads it into the
// environment so Report can read it back.
func LoadDistinctID() {
	createEnvFile()
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	_ = godotenv.Load(filepath.Join(home, ".archlint", ".env"))
}

func createEnvFile() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	envFile := filepath.Join(home, ".archlint", ".env")
	if _, err := os.Stat(envFile); !os.IsNotExist(err) {
		return
	}
	if err := os.MkdirAll(filepath.Dir(envFile), os.ModePerm); err != nil {
		return
	}
	_ = godotenv.Write(map[string]string{"uuid": uuid.New().String()}, envFile)
}

// Report sends event with count-only properties; properties must never
// carry file paths, rule messages, or source content.
func (t *Tracker) Report(event string, properties map[string]interface{}) {
	if t == nil || t.disabled || t.PublicKey == "" {
		return
	}
	disableGeoIP := false
	client, err := posthog.NewWithConfig(t.PublicKey, posthog.Config{
		Endpoint:     "https://us.i.posthog.com",
		DisableGeoIP: &disableGeoIP,
	})
	if err != nil {
		return
	}
	defer client.Close()

	props := posthog.NewProperties()
	props.Set("os", runtime.GOOS)
	props.Set("arch", runtime.GOARCH)
	props.Set("go_version", runtime.Version())
	if t.Version != "" {
		props.Set("archlint_version", t.Version)
	}
	for k, v := range properties {
		props.Set(k, v)
	}

	_ = client.Enqueue(posthog.Capture{
		DistinctId: os.Getenv("uuid"),
		Event:      event,
		Properties: props,
	})
}
