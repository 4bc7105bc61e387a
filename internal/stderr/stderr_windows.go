//go:build windows

// Package stderr is a no-op on Windows, whose audio backend does not write
// to fd 2.
package stderr

import "os"

// Start does nothing on Windows.
func Start(func(line string)) error {
	return nil
}

// WriteOriginal writes to stderr.
func WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

// Stop does nothing on Windows.
func Stop() {}
