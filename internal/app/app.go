// Package app wires the function library to the command-line surface: it
// owns the logger, the library lifecycle and the implementation of each CLI
// command.
package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/dpinte/talib-wrappers/abstract"
	"github.com/dpinte/talib-wrappers/internal/ctxlog"
)

// App encapsulates one command execution: configuration, output writer,
// logger and the opened function library.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	cfg    *Config
	lib    *abstract.Library
}

// NewApp constructs an App with an isolated logger. The library itself is
// opened in Run so that open errors follow the normal error path instead of
// failing construction.
func NewApp(outW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	return &App{outW: outW, logger: logger, cfg: cfg}
}

// Run opens the function library, executes the configured command and shuts
// the library down again.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	if err := abstract.Initialize(ctx); err != nil {
		return err
	}
	defer func() {
		if err := abstract.Shutdown(); err != nil {
			a.logger.Error("Failed to shut the function library down.", "error", err)
		}
	}()

	lib, err := abstract.Default()
	if err != nil {
		return err
	}
	a.lib = lib
	a.logger.Debug("Function library initialized.")

	switch a.cfg.Command {
	case "groups":
		return a.runGroups()
	case "functions":
		return a.runFunctions()
	case "describe":
		return a.runDescribe()
	case "call":
		return a.runCall(ctx)
	}
	return &UnknownCommandError{Command: a.cfg.Command}
}

// UnknownCommandError reports a command the app does not implement. The CLI
// parser normally rejects these before an App exists.
type UnknownCommandError struct {
	Command string
}

func (e *UnknownCommandError) Error() string {
	return "unknown command '" + e.Command + "'"
}
