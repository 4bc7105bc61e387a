package keymap

import (
	"slices"
	"testing"
)

func TestResolver_Resolve(t *testing.T) {
	r := Default()

	tests := []struct {
		key      string
		expected Action
	}{
		{"q", ActionQuit},
		{"ctrl+c", ActionQuit},
		{" ", ActionPlayPause},
		{"left", ActionSkipBack},
		{"shift+right", ActionScrubForward},
		{"enter", ActionCommitSeek},
		{"a", ActionCycleAudio},
		{"unknown", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := r.Resolve(tt.key); got != tt.expected {
				t.Errorf("Resolve(%q) = %q, want %q", tt.key, got, tt.expected)
			}
		})
	}
}

func TestResolver_KeysFor(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
		{ActionQuit, []string{"q", "esc"}, "Quit", "playback"},
	})

	got := r.KeysFor(ActionQuit)
	want := []string{"q", "ctrl+c", "esc"}
	if !slices.Equal(got, want) {
		t.Errorf("KeysFor() = %v, want %v", got, want)
	}
	if keys := r.KeysFor(ActionHelp); keys != nil {
		t.Errorf("KeysFor(unbound) = %v, want nil", keys)
	}
}

func TestResolver_Label(t *testing.T) {
	r := Default()

	if got := r.Label(ActionPlayPause); got != "space" {
		t.Errorf("Label(play_pause) = %q, want %q", got, "space")
	}
	if got := r.Label(ActionSkipBack); got != "left/h" {
		t.Errorf("Label(skip_back) = %q, want %q", got, "left/h")
	}
	if got := r.Label(Action("missing")); got != "" {
		t.Errorf("Label(missing) = %q, want empty", got)
	}
}
