//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpStreamLoad,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpStreamLoad,
			err:      errors.New("file not found"),
			expected: "Failed to load stream: file not found",
		},
		{
			name:     "probe operation",
			op:       OpStreamProbe,
			err:      errors.New("timed out"),
			expected: "Failed to probe stream: timed out",
		},
		{
			name:     "persistence operation",
			op:       OpPreferencesLoad,
			err:      errors.New("database is locked"),
			expected: "Failed to load language preferences: database is locked",
		},
		{
			name:     "integration operation",
			op:       OpMPRISStart,
			err:      errors.New("no session bus"),
			expected: "Failed to start media controls: no session bus",
		},
		{
			name:     "playback operation",
			op:       OpStreamPlay,
			err:      errors.New("no audio device"),
			expected: "Failed to play stream: no audio device",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpStreamLoad,
			context:  "movie.mp3",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with context",
			op:       OpStreamLoad,
			context:  "movie.mp3",
			err:      errors.New("permission denied"),
			expected: "Failed to load stream 'movie.mp3': permission denied",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpStreamLoad,
			context:  "",
			err:      errors.New("permission denied"),
			expected: "Failed to load stream: permission denied",
		},
		{
			name:     "stream position with path context",
			op:       OpLastStreamSave,
			context:  "talk.mp3",
			err:      errors.New("disk full"),
			expected: "Failed to remember stream position 'talk.mp3': disk full",
		},
		{
			name:     "state open with path context",
			op:       OpStateOpen,
			context:  "/home/user/.local/share/demoplayer/state.db",
			err:      errors.New("directory not found"),
			expected: "Failed to open state database '/home/user/.local/share/demoplayer/state.db': directory not found",
		},
		{
			name:     "probe with filename context",
			op:       OpStreamProbe,
			context:  "movie.flac",
			err:      errors.New("unsupported format"),
			expected: "Failed to probe stream 'movie.flac': unsupported format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestOpConstants(t *testing.T) {
	// Verify that Op constants are non-empty and produce valid messages
	ops := []Op{
		OpStreamLoad, OpStreamProbe, OpStreamPlay,
		OpStateOpen, OpPreferencesLoad, OpLastStreamSave,
		OpMPRISStart, OpMetricsServe,
		OpConfigLoad, OpLogOpen,
	}

	testErr := errors.New("test error")

	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			if op == "" {
				t.Error("Op constant should not be empty")
			}

			result := Format(op, testErr)
			if result == "" {
				t.Error("Format should return non-empty string for non-nil error")
			}

			// Verify the format includes the operation
			expected := "Failed to " + string(op) + ": test error"
			if result != expected {
				t.Errorf("Format = %q, want %q", result, expected)
			}
		})
	}
}
