package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	danfe "github.com/Thucosta0/conversor-danfe"
	"github.com/Thucosta0/conversor-danfe/internal/assets"
	"github.com/Thucosta0/conversor-danfe/internal/config"
	"github.com/Thucosta0/conversor-danfe/internal/hints"
	"github.com/Thucosta0/conversor-danfe/internal/logging"
	"github.com/Thucosta0/conversor-danfe/internal/nfe"
	"github.com/Thucosta0/conversor-danfe/internal/watch"
)

// runMain dispatches args (including the program name) and returns the
// process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) > 1 {
		switch args[1] {
		case "doctor":
			return runDoctorCmd(args[2:], env)
		case "version", "--version":
			fmt.Fprintf(env.Stdout, "danfe %s\n", Version)
			return ExitSuccess
		case "help":
			runHelp(args[2:], env)
			return ExitSuccess
		}
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	var argv []string
	if len(args) > 1 {
		argv = args[1:]
	}
	return runConvertCmd(ctx, argv, env)
}

// runConvertCmd converts one XML file and prints the status line.
func runConvertCmd(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		printConvertUsage(env.Stdout)
		return ExitSuccess
	}
	if err != nil {
		return fail(env, err)
	}

	logger := logging.NewWithWriter(env.Stderr, logging.LevelFor(flags.common.quiet, flags.common.verbose))
	defer func() { _ = logger.Sync() }()

	environ := env.Environ()
	warnUnknownEnvVars(environ, logger)

	cfg, err := loadConfig(flags, loadEnvConfig(environ, logger))
	if err != nil {
		return fail(env, err)
	}

	j, err := newJob(positional, flags, cfg)
	if err != nil {
		return fail(env, err)
	}

	conv, err := env.NewConverter(converterOptions(cfg, logger)...)
	if err != nil {
		return fail(env, err)
	}
	defer func() {
		if err := conv.Close(); err != nil {
			logger.Warn("closing converter", zap.Error(err))
		}
	}()

	if flags.watch {
		return runWatch(ctx, conv, j, env, logger)
	}

	start := env.Now()
	out, err := convertFile(ctx, conv, j, logger)
	if err != nil {
		return fail(env, err)
	}
	logger.Debug("done", zap.Duration("elapsed", env.Now().Sub(start)))
	succeed(env, out)
	return ExitSuccess
}

// runWatch converts once, then again on every change until ctx ends.
// Each run prints its own status line; a failed run does not stop watching.
func runWatch(ctx context.Context, conv Converter, j *job, env *Environment, logger *zap.Logger) int {
	convertOnce := func(ctx context.Context) {
		out, err := convertFile(ctx, conv, j, logger)
		if err != nil {
			fail(env, err)
			return
		}
		succeed(env, out)
	}

	convertOnce(ctx)

	w, err := watch.New(j.source, convertOnce, watch.WithLogger(logger.Named("watch")))
	if err != nil {
		return fail(env, err)
	}
	logger.Info("watching for changes, press Ctrl+C to stop", zap.String("file", j.source))
	if err := w.Run(ctx); err != nil {
		return fail(env, err)
	}
	return ExitSuccess
}

// succeed prints the success status line.
func succeed(env *Environment, path string) {
	fmt.Fprintf(env.Stdout, "SUCCESS:%s\n", path)
}

// fail prints the error status line, any hint to stderr, and returns the
// exit code for err.
func fail(env *Environment, err error) int {
	fmt.Fprintf(env.Stdout, "ERROR:%s\n", oneLine(err.Error()))
	if hint := hintFor(err); hint != "" {
		fmt.Fprintln(env.Stderr, strings.TrimPrefix(hint, "\n"))
	}
	return exitCodeFor(err)
}

// oneLine keeps the status line a single line.
func oneLine(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	return strings.ReplaceAll(strings.TrimSpace(msg), "\n", "; ")
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, danfe.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, nfe.ErrUnexpectedModel):
		return hints.ForModelCode()
	case errors.Is(err, assets.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.EmbeddedStyles())
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(configSearchPaths(err))
	case errors.Is(err, danfe.ErrIO):
		return hints.ForOutputWrite()
	}
	return ""
}

// configSearchPaths recovers the "tried a, b" list from a not-found error.
func configSearchPaths(err error) []string {
	_, tried, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(tried, ", ")
}
