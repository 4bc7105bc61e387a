package playerview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/demoplayer/internal/adapter"
	"github.com/llehouerou/demoplayer/internal/icons"
	"github.com/llehouerou/demoplayer/internal/keymap"
)

const (
	defaultWidth = 80
	minBarWidth  = 3
)

var (
	filledBlock = "▓"
	emptyBlock  = "░"
)

// View renders the player.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	inner := max(width-4, 10) // border and padding

	var lines []string
	lines = append(lines, m.renderHeader(inner), "")
	lines = append(lines, m.renderCaption(inner)...)
	lines = append(lines, "")

	if m.controlsShown() {
		lines = append(lines,
			renderProgressBar(m.position, m.duration, inner, m.statusIcon()),
			m.renderStatusLine(inner))
	}
	if m.lastErr != nil {
		lines = append(lines, m.renderError(inner))
	}
	if m.showHelp {
		lines = append(lines, "", m.renderHelp(inner))
	}

	return frameStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderHeader(width int) string {
	title := m.cfg.Path
	var artist, size string
	if m.info != nil {
		title = m.info.Title
		artist = m.info.Artist
		if m.info.Size > 0 {
			size = humanize.Bytes(uint64(m.info.Size)) //nolint:gosec // size is non-negative
		}
	}

	right := mutedStyle.Render(size)
	left := titleStyle.Render(truncate(title, width-lipgloss.Width(right)-1))
	if artist != "" {
		room := width - lipgloss.Width(left) - lipgloss.Width(right) - 3
		if room > 0 {
			left += mutedStyle.Render(" · " + truncate(artist, room))
		}
	}
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// renderCaption returns the active subtitle, or a single blank line.
func (m *Model) renderCaption(width int) []string {
	if m.caption == "" {
		return []string{""}
	}
	var out []string
	for line := range strings.SplitSeq(m.caption, "\n") {
		out = append(out, captionStyle.Width(width).Render(truncate(line, width)))
	}
	return out
}

// statusIcon summarizes state and intent in one glyph.
func (m *Model) statusIcon() string {
	switch m.player.State() {
	case adapter.StateLoading:
		return icons.Loading()
	case adapter.StateSeeking:
		return icons.Seeking()
	case adapter.StateFailed:
		return icons.Failed()
	case adapter.StateFinished:
		return icons.Finished()
	case adapter.StateUndefined:
		return " "
	case adapter.StateReadyToPlay:
	}
	switch m.player.Intent() {
	case adapter.IntentRunning:
		return icons.Playing()
	case adapter.IntentSuspended:
		return icons.Suspended()
	default:
		return icons.Paused()
	}
}

// renderProgressBar renders "▶  1:23  ▓▓▓▓▓░░░░░  4:56".
func renderProgressBar(position, duration float64, width int, status string) string {
	posStr := formatTime(position)
	durStr := formatTime(duration)

	fixedWidth := lipgloss.Width(status) + 2 + lipgloss.Width(posStr) + 2 + 2 + lipgloss.Width(durStr)
	barWidth := width - fixedWidth
	if barWidth < minBarWidth {
		return status + "  " + posStr + " / " + durStr
	}

	var ratio float64
	if duration > 0 {
		ratio = min(max(position/duration, 0), 1)
	}
	filled := min(int(float64(barWidth)*ratio), barWidth)

	bar := accentStyle.Render(strings.Repeat(filledBlock, filled)) +
		subtleStyle.Render(strings.Repeat(emptyBlock, barWidth-filled))
	return accentStyle.Render(status) + "  " + posStr + "  " + bar + "  " + durStr
}

func (m *Model) renderStatusLine(width int) string {
	var parts []string

	audio := "none"
	if opt, ok := m.player.CurrentAudioOption(); ok {
		audio = opt.String()
	}
	parts = append(parts, baseStyle.Render(icons.FormatAudio(audio)))

	if len(m.player.SubtitleOptions()) > 0 {
		sub := "off"
		if opt, ok := m.player.CurrentSubtitleOption(); ok {
			sub = opt.String()
		}
		parts = append(parts, baseStyle.Render(icons.FormatSubtitles(sub)))
	}

	if m.volume != nil {
		level := fmt.Sprintf("%d%%", int(m.volume.Volume()*100+0.5))
		parts = append(parts, baseStyle.Render(icons.FormatVolume(level)))
	}

	switch {
	case m.player.IsSuspendedByPolicy():
		parts = append(parts, warnStyle.Render("background"))
	case m.ended:
		parts = append(parts, successStyle.Render("finished"))
	}

	sep := subtleStyle.Render("  │  ")
	line := strings.Join(parts, sep)
	for lipgloss.Width(line) > width && len(parts) > 1 {
		parts = parts[:len(parts)-1]
		line = strings.Join(parts, sep)
	}
	return line
}

func (m *Model) renderError(width int) string {
	hint := " (" + m.keys.Label(keymap.ActionRetry) + " to retry)"
	label := "error: "
	if adapter.KindOf(m.lastErr) == adapter.KindStreamInterruption {
		label = "interrupted: "
	}
	msg := truncate(label+m.lastErr.Error(), width-lipgloss.Width(hint))
	return errorStyle.Render(msg) + mutedStyle.Render(hint)
}

func (m *Model) renderHelp(width int) string {
	var rows []string
	for _, ctx := range keymap.Contexts {
		for _, b := range keymap.ByContext(ctx) {
			keys := m.keys.Label(b.Action)
			rows = append(rows, accentStyle.Render(fmt.Sprintf("%-14s", keys))+
				baseStyle.Render(truncate(b.Description, width-15)))
		}
	}
	return strings.Join(rows, "\n")
}
