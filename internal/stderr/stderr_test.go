//go:build !windows

package stderr

import (
	"syscall"
	"testing"
)

func TestStart_ForwardsLines(t *testing.T) {
	var lines []string
	if err := Start(func(line string) { lines = append(lines, line) }); err != nil {
		t.Skipf("stderr capture unavailable: %v", err)
	}

	_, _ = syscall.Write(2, []byte("ALSA lib pcm.c: underrun occurred\n\n   \nsecond line\n"))
	Stop()

	if len(lines) != 2 {
		t.Fatalf("lines = %q, want 2 lines", lines)
	}
	if lines[0] != "ALSA lib pcm.c: underrun occurred" {
		t.Errorf("lines[0] = %q", lines[0])
	}
	if lines[1] != "second line" {
		t.Errorf("lines[1] = %q", lines[1])
	}
}

func TestStop_WithoutStart(t *testing.T) {
	Stop()
	Stop()
}
