package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	danfe "github.com/Thucosta0/conversor-danfe"
	"github.com/Thucosta0/conversor-danfe/internal/config"
	"github.com/Thucosta0/conversor-danfe/internal/fileutil"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage       = errors.New("invalid usage")
	ErrNoInput     = fmt.Errorf("%w: XML file not specified", ErrUsage)
	ErrTooManyArgs = fmt.Errorf("%w: expected <file.xml> [custom-name]", ErrUsage)
	ErrReadXML     = errors.New("failed to read XML file")
	ErrNotAFile    = errors.New("input is not a regular file")
)

// htmlPerm is the mode of pages written by --html.
const htmlPerm = 0o644

// job is one resolved conversion request.
type job struct {
	source     string // XML path as given on the command line
	customName string // optional second positional argument
	suffix     string
	note       string
	htmlOnly   bool
}

// newJob validates positional arguments and binds them to cfg.
func newJob(args []string, flags *convertFlags, cfg *config.Config) (*job, error) {
	switch {
	case len(args) == 0 || strings.TrimSpace(args[0]) == "":
		return nil, ErrNoInput
	case len(args) > 2:
		return nil, fmt.Errorf("%w: got %d arguments", ErrTooManyArgs, len(args))
	}

	j := &job{
		source:   args[0],
		suffix:   cfg.Output.Suffix,
		note:     cfg.Render.Note,
		htmlOnly: flags.output.html,
	}
	if len(args) == 2 {
		j.customName = args[1]
	}
	return j, nil
}

// loadConfig builds the effective configuration.
// Precedence: CLI flags > env vars > config file > defaults.
func loadConfig(flags *convertFlags, env *envConfig) (*config.Config, error) {
	cfg := config.DefaultConfig()

	source := flags.common.config
	if source == "" {
		source = env.ConfigPath
	}
	if source != "" {
		loaded, err := config.LoadConfig(source)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(env, cfg)
	mergeFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.output.suffixSet {
		cfg.Output.Suffix = flags.output.suffix
	}
	if flags.output.noSuffix {
		cfg.Output.Suffix = ""
	}

	if flags.render.timeout != "" {
		cfg.Render.Timeout = flags.render.timeout
	}
	if flags.render.marginSet {
		cfg.Render.Margin = flags.render.margin
	}
	if flags.render.style != "" {
		cfg.Render.Style = flags.render.style
	}
	if flags.render.assetPath != "" {
		cfg.Assets.BasePath = flags.render.assetPath
	}
	if flags.render.note != "" {
		cfg.Render.Note = flags.render.note
	}
	if flags.render.timestampFormat != "" {
		cfg.Render.TimestampFormat = flags.render.timestampFormat
	}

	if flags.enrich.disabled {
		cfg.Enrichment.Enabled = false
	}
	if flags.enrich.header != "" {
		cfg.Enrichment.Header = flags.enrich.header
	}
}

// converterOptions maps the validated config onto danfe options.
func converterOptions(cfg *config.Config, logger *zap.Logger) []danfe.Option {
	return []danfe.Option{
		danfe.WithTimeout(cfg.Timeout()),
		danfe.WithMargin(cfg.Render.Margin),
		danfe.WithStyle(cfg.Render.Style),
		danfe.WithAssetPath(cfg.Assets.BasePath),
		danfe.WithEnrichment(cfg.Enrichment.Enabled),
		danfe.WithTraceHeader(cfg.Enrichment.Header),
		danfe.WithTimestampFormat(cfg.Render.TimestampFormat),
		danfe.WithLogger(logger),
	}
}

// convertFile runs one conversion and returns the written path.
func convertFile(ctx context.Context, conv Converter, j *job, logger *zap.Logger) (string, error) {
	data, err := readXML(j.source)
	if err != nil {
		return "", err
	}

	res, err := conv.Convert(ctx, danfe.Input{XML: data, Note: j.note, HTMLOnly: j.htmlOnly})
	if err != nil {
		return "", err
	}

	if res.AccessKey != "" {
		logger.Info("access key", zap.String("key", res.AccessKey))
	}
	if res.Enriched {
		logger.Debug("trace enrichment applied",
			zap.Int("products", res.Trace.Products),
			zap.Int("enriched", res.Trace.Enriched),
			zap.Int("blocks", res.Trace.Blocks))
	}

	dest := danfe.DestinationPath(j.source, j.customName, j.suffix)
	if j.htmlOnly {
		dest = strings.TrimSuffix(dest, filepath.Ext(dest)) + ".html"
		if _, err := fileutil.WriteFileAtomic(dest, res.HTML, htmlPerm); err != nil {
			return "", fmt.Errorf("%w: %v", danfe.ErrIO, err)
		}
		return dest, nil
	}

	if err := danfe.WritePDF(dest, res.PDF); err != nil {
		return "", err
	}
	return dest, nil
}

// readXML reads the input document. Errors wrap ErrReadXML and keep the
// underlying os error so os.ErrNotExist still matches.
func readXML(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: file '%s' not found: %w", ErrReadXML, path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("%w: %w", ErrReadXML, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %w: %s", ErrReadXML, ErrNotAFile, path)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadXML, err)
	}
	return data, nil
}
