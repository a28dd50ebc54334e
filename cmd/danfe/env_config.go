package main

import (
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Thucosta0/conversor-danfe/internal/config"
)

// envPrefix marks the environment variables danfe reads.
const envPrefix = "DANFE_"

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // DANFE_CONFIG: config file name or path
	Timeout    string // DANFE_TIMEOUT: render timeout
	Style      string // DANFE_STYLE: CSS style name or path
	Suffix     string // DANFE_SUFFIX: output suffix
	SuffixSet  bool   // DANFE_SUFFIX present, even if empty
	NoEnrich   bool   // DANFE_NO_ENRICH: disable trace enrichment
}

// knownEnvVars lists valid DANFE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"DANFE_CONFIG":    true,
	"DANFE_TIMEOUT":   true,
	"DANFE_STYLE":     true,
	"DANFE_SUFFIX":    true,
	"DANFE_NO_ENRICH": true,
	"DANFE_CONTAINER": true, // read by doctor
}

// loadEnvConfig reads the DANFE_* variables from environ ("KEY=value"
// entries, as returned by os.Environ).
// DANFE_NO_ENRICH accepts anything strconv.ParseBool does; other values
// are ignored and logged.
func loadEnvConfig(environ []string, logger *zap.Logger) *envConfig {
	vars := make(map[string]string)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(name, envPrefix) {
			vars[name] = value
		}
	}

	cfg := &envConfig{
		ConfigPath: vars["DANFE_CONFIG"],
		Timeout:    vars["DANFE_TIMEOUT"],
		Style:      vars["DANFE_STYLE"],
	}
	cfg.Suffix, cfg.SuffixSet = vars["DANFE_SUFFIX"]

	if raw, ok := vars["DANFE_NO_ENRICH"]; ok && raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			logger.Warn("ignoring DANFE_NO_ENRICH", zap.String("value", raw))
		} else {
			cfg.NoEnrich = v
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized DANFE_* variables.
// Helps catch typos like DANFE_TIMOUT.
func warnUnknownEnvVars(environ []string, logger *zap.Logger) {
	var unknown []string
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) && !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		logger.Warn("unknown environment variable (typo?)", zap.String("name", name))
	}
}

// applyEnvConfig applies environment values over the loaded config.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Timeout != "" {
		cfg.Render.Timeout = env.Timeout
	}
	if env.Style != "" {
		cfg.Render.Style = env.Style
	}
	if env.SuffixSet {
		cfg.Output.Suffix = env.Suffix
	}
	if env.NoEnrich {
		cfg.Enrichment.Enabled = false
	}
}
