package config

import "errors"

var (
	// ErrParsingConfig indicates the environment could not be parsed into
	// the requested struct, usually a missing required variable or a value
	// of the wrong type.
	ErrParsingConfig = errors.New("config: failed to parse environment")

	// ErrLoadingEnvFile indicates a .env file could not be read.
	ErrLoadingEnvFile = errors.New("config: failed to load env file")
)
