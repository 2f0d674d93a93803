package app

import "errors"

// Config holds everything an App instance needs to run one command.
type Config struct {
	// Command is one of "groups", "functions", "describe" or "call".
	Command string

	Group    string
	Function string

	// Data is the input series for "call": comma-separated values, or
	// "@path" naming a file of values.
	Data string

	Start int
	End   int // -1 selects the last element of the data

	// Options are raw name=value optional inputs; they are coerced against
	// the function's declared parameter types at call time.
	Options map[string]string

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Command == "" {
		return nil, errors.New("Command is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
