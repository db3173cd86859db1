package config

import "github.com/jsir-dev/jsir/internal/logger"

type Options struct {
	// Extra identifiers that are declared in the root scope of every program
	// next to the built-in reserved set. Use this for globals that code
	// outside the program refers to, since root names are never renamed.
	ReservedNames []string

	// Pass progress is logged at "logger.LevelVerbose"
	LogLevel logger.LogLevel

	// Checks the tree after every pass instead of trusting passes to keep it
	// well-formed. This is slow and is meant for tests and debugging.
	ValidateAfterEachPass bool

	// Logs how long each pass took once the pipeline is done
	Timing bool
}
