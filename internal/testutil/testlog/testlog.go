package testlog

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
)

const EnvTestLog = "ENBAGENT_TEST_LOG"

// Logger returns a silent logger unless ENBAGENT_TEST_LOG is set, in
// which case test runs emit debug-level console output tagged with the
// test name.
func Logger(t *testing.T) zerolog.Logger {
	t.Helper()
	if os.Getenv(EnvTestLog) == "" {
		return zerolog.Nop()
	}
	output := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(output).Level(zerolog.DebugLevel).With().
		Timestamp().Str("test", t.Name()).Logger()
}
