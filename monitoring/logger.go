// Package monitoring reports numerical degeneracies which the localization
// packages recover from without returning an error, such as a particle
// population whose weights all collapsed to zero.
//
// Messages go to standard error prefixed with "localize: ". Callers embedding
// the filter redirect them into their own logger with SetLogger or mute them
// with SetLogger(nil).
package monitoring

import (
	"log"
	"os"
)

// Prefix is prepended to every message of the default logger.
const Prefix = "localize: "

var std = log.New(os.Stderr, Prefix, log.LstdFlags)

// Logf logs a recovered degeneracy. It defaults to the package standard error logger.
var Logf func(format string, v ...interface{}) = std.Printf

// SetLogger routes diagnostics to f. A nil f discards them.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// ResetLogger restores the default standard error logger.
func ResetLogger() {
	Logf = std.Printf
}
