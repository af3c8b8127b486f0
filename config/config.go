// Package config loads process configuration from the environment, an
// optional .env file (github.com/joho/godotenv), exactly as
// analytics.LoadDistinctID and the teacher's dsl/loader.go do.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/archlint/archlint/archconst"
	"github.com/archlint/archlint/archlog"
)

// Config holds every environment-tunable setting. MaxDepthOverride is
// never honored by the rule engine (archconst.MaxDepth is immutable there
// per spec.md §4.5); it is loaded and exposed here, and no command in this
// module reads it.
type Config struct {
	MaxWorkers       int
	Verbosity        archlog.Verbosity
	DisableAnalytics bool
	MaxDepthOverride int
	RuleDir          string
}

// Load reads ARCHLINT_* environment variables, after loading envFile if it
// exists (a missing .env file is not an error, matching godotenv.Load's
// own behavior and the teacher's use of it).
func Load(envFile string) Config {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}

	cfg := Config{
		MaxWorkers:       envInt("ARCHLINT_MAX_WORKERS", 0),
		Verbosity:        verbosityFromEnv("ARCHLINT_VERBOSITY"),
		DisableAnalytics: envBool("ARCHLINT_DISABLE_ANALYTICS", false),
		MaxDepthOverride: envInt("ARCHLINT_MAX_DEPTH_OVERRIDE", archconst.MaxDepth),
		RuleDir:          os.Getenv("ARCHLINT_RULE_DIR"),
	}
	return cfg
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func verbosityFromEnv(key string) archlog.Verbosity {
	switch os.Getenv(key) {
	case "quiet":
		return archlog.Quiet
	case "verbose":
		return archlog.Verbose
	case "debug":
		return archlog.Debug
	default:
		return archlog.Normal
	}
}
