// Package config loads and validates the YAML configuration of the danfe CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Thucosta0/conversor-danfe/internal/dateutil"
	"github.com/Thucosta0/conversor-danfe/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// appDirName is the directory under the user config dir searched for configs.
const appDirName = "conversor-danfe"

// Field length limits.
const (
	MaxSuffixLength = 50
	MaxHeaderLength = 100
	MaxPathLength   = 4096
	MaxNoteLength   = 4000
)

// Bounds.
const (
	MinMargin  = 0.0
	MaxMargin  = 1.5
	MaxTimeout = 10 * time.Minute
)

// Defaults.
const (
	DefaultSuffix  = "_DANFE"
	DefaultHeader  = "DADOS DE RASTRO:"
	DefaultTimeout = "30s"
	DefaultMargin  = 0.25
	DefaultStyle   = "danfe"
)

// Config holds all configuration for DANFE generation.
type Config struct {
	Output     OutputConfig     `yaml:"output"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	Render     RenderConfig     `yaml:"render"`
	Assets     AssetsConfig     `yaml:"assets"`
}

// OutputConfig defines how the PDF is named.
type OutputConfig struct {
	Suffix string `yaml:"suffix"` // appended to the source name; "" disables it
}

// EnrichmentConfig defines the trace note appended to product descriptions.
type EnrichmentConfig struct {
	Enabled bool   `yaml:"enabled"`
	Header  string `yaml:"header"`
}

// RenderConfig defines page rendering options.
type RenderConfig struct {
	Timeout         string  `yaml:"timeout"`         // Go duration, e.g. "30s"
	Margin          float64 `yaml:"margin"`          // inches
	Style           string  `yaml:"style"`           // embedded style name or CSS file path
	Note            string  `yaml:"note"`            // Markdown printed at the bottom
	TimestampFormat string  `yaml:"timestampFormat"` // dateutil tokens
}

// AssetsConfig defines a directory overriding embedded assets.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"`
}

// DefaultConfig returns the configuration used when no file is given.
// Keys missing from a loaded file keep these values.
func DefaultConfig() *Config {
	return &Config{
		Output:     OutputConfig{Suffix: DefaultSuffix},
		Enrichment: EnrichmentConfig{Enabled: true, Header: DefaultHeader},
		Render: RenderConfig{
			Timeout:         DefaultTimeout,
			Margin:          DefaultMargin,
			Style:           DefaultStyle,
			TimestampFormat: dateutil.DefaultTimestampFormat,
		},
	}
}

// Timeout returns render.timeout as a duration.
// Call after Validate; an unparseable value yields 0.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.Render.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Validate checks field lengths and value ranges.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"output.suffix", c.Output.Suffix, MaxSuffixLength},
		{"enrichment.header", c.Enrichment.Header, MaxHeaderLength},
		{"render.style", c.Render.Style, MaxPathLength},
		{"render.note", c.Render.Note, MaxNoteLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if strings.ContainsAny(c.Output.Suffix, "/\\\x00") {
		return fmt.Errorf("%w: output.suffix %q contains a path separator", ErrInvalidValue, c.Output.Suffix)
	}

	if strings.ContainsAny(c.Enrichment.Header, "\r\n") {
		return fmt.Errorf("%w: enrichment.header must be a single line", ErrInvalidValue)
	}

	d, err := time.ParseDuration(c.Render.Timeout)
	if err != nil {
		return fmt.Errorf("%w: render.timeout %q: %v", ErrInvalidValue, c.Render.Timeout, err)
	}
	if d <= 0 || d > MaxTimeout {
		return fmt.Errorf("%w: render.timeout %s (must be between 0 and %s)", ErrInvalidValue, d, MaxTimeout)
	}

	if c.Render.Margin < MinMargin || c.Render.Margin > MaxMargin {
		return fmt.Errorf("%w: render.margin %.2f (must be between %.2f and %.2f)", ErrInvalidValue, c.Render.Margin, MinMargin, MaxMargin)
	}

	if c.Render.TimestampFormat != "" {
		if _, err := dateutil.ParseDateFormat(c.Render.TimestampFormat); err != nil {
			return fmt.Errorf("%w: render.timestampFormat: %v", ErrInvalidValue, err)
		}
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// A value containing a path separator is a file path; anything else is a
// name searched in standard locations. A missing file is an error, never a
// silent fallback to defaults.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !strings.ContainsAny(nameOrPath, "/\\") {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := decodeStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveConfigPath searches for a config file by name.
// Tries ./name.yaml, ./name.yml, then the same under the user config dir.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, appDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
