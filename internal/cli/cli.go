// Package cli turns command-line arguments into an app.Config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/dpinte/talib-wrappers/internal/app"
)

// ExitError is an error that carries a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// optionFlags collects repeated -opt name=value arguments.
type optionFlags map[string]string

func (o optionFlags) String() string {
	parts := make([]string, 0, len(o))
	for k, v := range o {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

func (o optionFlags) Set(raw string) error {
	name, value, ok := strings.Cut(raw, "=")
	if !ok || name == "" {
		return fmt.Errorf("option must be of the form name=value, got '%s'", raw)
	}
	o[name] = value
	return nil
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("talib-cli", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
talib-cli - introspect and invoke the technical-analysis function catalog.

Usage:
  talib-cli [options] <command>

Commands:
  groups               List the function groups.
  functions            List functions, optionally within -group.
  describe             Describe the function named by -function.
  call                 Invoke the function named by -function over -data.

Options:
`)
		flagSet.PrintDefaults()
	}

	groupFlag := flagSet.String("group", "", "Group name for the 'functions' command.")
	functionFlag := flagSet.String("function", "", "Function name for 'describe' and 'call'.")
	dataFlag := flagSet.String("data", "", "Comma-separated input values, or @path to a file of values.")
	startFlag := flagSet.Int("start", 0, "First index of the requested range.")
	endFlag := flagSet.Int("end", -1, "Last index of the requested range. -1 means the last element.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Log level. Options: 'debug', 'info', 'warn', 'error'.")

	options := make(optionFlags)
	flagSet.Var(options, "opt", "Optional input as name=value. May be repeated.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return nil, true, nil
	}
	command := flagSet.Arg(0)

	switch command {
	case "groups", "functions":
	case "describe", "call":
		if *functionFlag == "" {
			return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("the '%s' command requires -function", command)}
		}
	default:
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command '%s'", command)}
	}

	if command == "call" && *dataFlag == "" {
		return nil, false, &ExitError{Code: 2, Message: "the 'call' command requires -data"}
	}

	cfg := &app.Config{
		Command:   command,
		Group:     *groupFlag,
		Function:  *functionFlag,
		Data:      *dataFlag,
		Start:     *startFlag,
		End:       *endFlag,
		Options:   options,
		LogFormat: strings.ToLower(*logFormatFlag),
		LogLevel:  strings.ToLower(*logLevelFlag),
	}
	return cfg, false, nil
}
