package main

import (
	"os"
	"slices"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/Thucosta0/conversor-danfe/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Flags are not parsed yet; only an explicit verbose flag surfaces the
	// GOMAXPROCS adjustment.
	level := logging.LevelFor(false, slices.Contains(os.Args[1:], "-v") || slices.Contains(os.Args[1:], "--verbose"))
	logger := logging.New(level)

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(logging.Printf(logger)))
	_ = logger.Sync()

	os.Exit(runMain(os.Args, DefaultEnv()))
}
