package main

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Thucosta0/conversor-danfe/internal/config"
)

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	logger, _ := observedLogger()
	env := loadEnvConfig([]string{
		"HOME=/root",
		"DANFE_CONFIG=farmacia",
		"DANFE_TIMEOUT=45s",
		"DANFE_STYLE=danfe",
		"DANFE_SUFFIX=",
		"DANFE_NO_ENRICH=true",
	}, logger)

	if env.ConfigPath != "farmacia" {
		t.Errorf("ConfigPath = %q, want farmacia", env.ConfigPath)
	}
	if env.Timeout != "45s" {
		t.Errorf("Timeout = %q, want 45s", env.Timeout)
	}
	if !env.SuffixSet || env.Suffix != "" {
		t.Errorf("Suffix = %q (set %v), want empty and set", env.Suffix, env.SuffixSet)
	}
	if !env.NoEnrich {
		t.Error("NoEnrich = false, want true")
	}
}

func TestLoadEnvConfig_InvalidBool(t *testing.T) {
	t.Parallel()

	logger, logs := observedLogger()
	env := loadEnvConfig([]string{"DANFE_NO_ENRICH=maybe"}, logger)

	if env.NoEnrich {
		t.Error("NoEnrich = true, want false for unparseable value")
	}
	if logs.FilterMessage("ignoring DANFE_NO_ENRICH").Len() != 1 {
		t.Errorf("expected one warning, got %v", logs.All())
	}
}

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	logger, logs := observedLogger()
	warnUnknownEnvVars([]string{
		"DANFE_TIMOUT=30s",
		"DANFE_TIMEOUT=30s",
		"OTHER_STYLE=x",
		"DANFE_AAA=1",
	}, logger)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d warnings, want 2: %v", len(entries), entries)
	}
	if got := entries[0].ContextMap()["name"]; got != "DANFE_AAA" {
		t.Errorf("first warning name = %v, want DANFE_AAA (sorted)", got)
	}
	if got := entries[1].ContextMap()["name"]; got != "DANFE_TIMOUT" {
		t.Errorf("second warning name = %v, want DANFE_TIMOUT", got)
	}
}

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		env   envConfig
		check func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "empty env keeps config",
			env:  envConfig{},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Output.Suffix != config.DefaultSuffix {
					t.Errorf("Suffix = %q, want default", cfg.Output.Suffix)
				}
				if !cfg.Enrichment.Enabled {
					t.Error("Enrichment disabled by empty env")
				}
			},
		},
		{
			name: "env overrides config file values",
			env:  envConfig{Timeout: "1m", Style: "custom.css"},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Render.Timeout != "1m" {
					t.Errorf("Timeout = %q, want 1m", cfg.Render.Timeout)
				}
				if cfg.Render.Style != "custom.css" {
					t.Errorf("Style = %q, want custom.css", cfg.Render.Style)
				}
			},
		},
		{
			name: "empty suffix that is set clears it",
			env:  envConfig{SuffixSet: true},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Output.Suffix != "" {
					t.Errorf("Suffix = %q, want empty", cfg.Output.Suffix)
				}
			},
		},
		{
			name: "no enrich",
			env:  envConfig{NoEnrich: true},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Enrichment.Enabled {
					t.Error("Enrichment.Enabled = true, want false")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.DefaultConfig()
			env := tt.env
			applyEnvConfig(&env, cfg)
			tt.check(t, cfg)
		})
	}
}
