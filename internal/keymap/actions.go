// Package keymap defines key bindings and action dispatch for the player.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Transport
	ActionPlayPause     Action = "play_pause"
	ActionSkipBack      Action = "skip_back"
	ActionSkipForward   Action = "skip_forward"
	ActionScrubBack     Action = "scrub_back"    // shift+left - continuous seek
	ActionScrubForward  Action = "scrub_forward" // shift+right - continuous seek
	ActionCommitSeek    Action = "commit_seek"   // enter - release a scrub
	ActionRetry         Action = "retry"
	ActionToggleSuspend Action = "toggle_suspend"
	ActionVolumeUp      Action = "volume_up"
	ActionVolumeDown    Action = "volume_down"

	// Media options
	ActionCycleAudio    Action = "cycle_audio"
	ActionCycleSubtitle Action = "cycle_subtitle"
	ActionClearSubtitle Action = "clear_subtitle"
)
