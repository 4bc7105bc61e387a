// Package icons selects the glyphs used by the player view.
package icons

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the icon characters for the current style.
type Icons struct {
	Playing   string
	Paused    string
	Loading   string
	Seeking   string
	Failed    string
	Finished  string
	Suspended string
	Audio     string
	Subtitles string
	Volume    string
}

var (
	nerdIcons = Icons{
		Playing:   "\uf04b",      // nf-fa-play
		Paused:    "\uf04c",      // nf-fa-pause
		Loading:   "\uf110",      // nf-fa-spinner
		Seeking:   "\uf050",      // nf-fa-fast_forward
		Failed:    "\uf071",      // nf-fa-warning
		Finished:  "\uf04d",      // nf-fa-stop
		Suspended: "\U000f04b2",  // nf-md-sleep
		Audio:     "\uf028 ",     // nf-fa-volume_up
		Subtitles: "\U000f0a16 ", // nf-md-subtitles
		Volume:    "\U000f057e ", // nf-md-volume_high
	}

	unicodeIcons = Icons{
		Playing:   "▶",
		Paused:    "⏸",
		Loading:   "…",
		Seeking:   "⇄",
		Failed:    "✗",
		Finished:  "■",
		Suspended: "☾",
		Audio:     "♪ ",
		Subtitles: "💬 ",
		Volume:    "🔊 ",
	}

	noneIcons = Icons{
		Playing:   ">",
		Paused:    "||",
		Loading:   "...",
		Seeking:   "<>",
		Failed:    "!",
		Finished:  "[]",
		Suspended: "zz",
		Audio:     "",
		Subtitles: "",
		Volume:    "",
	}

	// current holds the active icon set
	current = unicodeIcons
)

// Init selects the icon set. Call it once at startup with the config value;
// unknown styles fall back to unicode.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleNone:
		current = noneIcons
	default:
		current = unicodeIcons
	}
}

func Playing() string { return current.Playing }

func Paused() string { return current.Paused }

func Loading() string { return current.Loading }

func Seeking() string { return current.Seeking }

func Failed() string { return current.Failed }

func Finished() string { return current.Finished }

// Suspended marks playback halted by the background policy.
func Suspended() string { return current.Suspended }

// FormatAudio prefixes an audio track label. The none style uses a word
// instead of a glyph.
func FormatAudio(label string) string {
	if current == noneIcons {
		return "audio " + label
	}
	return current.Audio + label
}

// FormatSubtitles prefixes a subtitle track label.
func FormatSubtitles(label string) string {
	if current == noneIcons {
		return "subtitles " + label
	}
	return current.Subtitles + label
}

// FormatVolume prefixes a volume level.
func FormatVolume(label string) string {
	if current == noneIcons {
		return "vol " + label
	}
	return current.Volume + label
}
