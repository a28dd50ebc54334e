package main

import (
	"context"
	"io"
	"os"
	"time"

	danfe "github.com/Thucosta0/conversor-danfe"
)

// Converter is the part of danfe.Converter the CLI uses.
type Converter interface {
	Convert(ctx context.Context, input danfe.Input) (*danfe.Result, error)
	Close() error
}

// Compile-time interface implementation check.
var _ Converter = (*danfe.Converter)(nil)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now          func() time.Time
	Stdout       io.Writer
	Stderr       io.Writer
	Getenv       func(string) string
	Environ      func() []string
	NewConverter func(opts ...danfe.Option) (Converter, error)
}

// DefaultEnv returns the production environment backed by headless Chrome.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		NewConverter: func(opts ...danfe.Option) (Converter, error) {
			return danfe.NewConverter(opts...)
		},
	}
}
