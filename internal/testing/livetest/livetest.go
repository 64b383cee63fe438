// Package livetest gates tests that reach real exchange endpoints
package livetest

import (
	"os"
	"strings"
	"testing"
)

// EnvVar enables live endpoint tests when set to true or 1
const EnvVar = "MARKETSTREAM_LIVE_TESTS"

// Enabled returns true when live endpoint testing has been requested
func Enabled() bool {
	return envIsTrue(EnvVar)
}

// Require skips the test unless live endpoint testing is enabled
func Require(tb testing.TB, exchangeName string) {
	tb.Helper()
	if !Enabled() {
		tb.Skipf("Live testing of %s skipped, set %s=true to enable", exchangeName, EnvVar)
	}
}

func envIsTrue(name string) bool {
	value := strings.TrimSpace(os.Getenv(name))
	return strings.EqualFold(value, "true") || value == "1"
}
