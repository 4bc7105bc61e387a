package keymap

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "options"
}

// All contains all key bindings, in help order.
var All = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Close player", "global"},
	{ActionHelp, []string{"?"}, "Toggle help", "global"},

	// Playback
	{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
	{ActionSkipBack, []string{"left", "h"}, "Skip back", "playback"},
	{ActionSkipForward, []string{"right", "l"}, "Skip forward", "playback"},
	{ActionScrubBack, []string{"shift+left", "H"}, "Scrub back", "playback"},
	{ActionScrubForward, []string{"shift+right", "L"}, "Scrub forward", "playback"},
	{ActionCommitSeek, []string{"enter"}, "Release scrub", "playback"},
	{ActionRetry, []string{"r"}, "Retry after error", "playback"},
	{ActionToggleSuspend, []string{"p"}, "Toggle background suspend", "playback"},
	{ActionVolumeUp, []string{"+", "="}, "Volume up", "playback"},
	{ActionVolumeDown, []string{"-"}, "Volume down", "playback"},

	// Options
	{ActionCycleAudio, []string{"a"}, "Next audio track", "options"},
	{ActionCycleSubtitle, []string{"s"}, "Next subtitles", "options"},
	{ActionClearSubtitle, []string{"x"}, "Subtitles off", "options"},
}

// Contexts lists binding contexts in display order.
var Contexts = []string{"global", "playback", "options"}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}
