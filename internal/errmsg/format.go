// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Stream operations
	OpStreamLoad  Op = "load stream"
	OpStreamProbe Op = "probe stream"
	OpStreamPlay  Op = "play stream"

	// Persistence
	OpStateOpen       Op = "open state database"
	OpPreferencesLoad Op = "load language preferences"
	OpLastStreamSave  Op = "remember stream position"

	// Integrations
	OpMPRISStart   Op = "start media controls"
	OpMetricsServe Op = "serve metrics"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpLogOpen    Op = "open log file"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
