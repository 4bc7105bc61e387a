package playerview

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/demoplayer/internal/engine"
	"github.com/llehouerou/demoplayer/internal/icons"
	"github.com/llehouerou/demoplayer/internal/player"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{9.9, "0:09"},
		{75, "1:15"},
		{599, "9:59"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
		{-4, "0:00"},
		{math.NaN(), "0:00"},
		{math.Inf(1), "0:00"},
	}
	for _, tt := range tests {
		if got := formatTime(tt.seconds); got != tt.want {
			t.Errorf("formatTime(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a very…", truncate("a very long title", 7))
	assert.Equal(t, "tab", truncate("t\x1ba\x07b", 10))
	assert.Empty(t, truncate("anything", 0))
}

func TestRenderProgressBar(t *testing.T) {
	bar := renderProgressBar(30, 120, 40, "▶")
	assert.Equal(t, 40, lipgloss.Width(bar))
	assert.Contains(t, bar, "0:30")
	assert.Contains(t, bar, "2:00")

	narrow := renderProgressBar(30, 120, 10, "▶")
	assert.Equal(t, "▶  0:30 / 2:00", narrow)
}

func TestRenderProgressBar_Fill(t *testing.T) {
	plain := func(s string) int { return strings.Count(s, filledBlock) }

	assert.Zero(t, plain(renderProgressBar(0, 120, 40, "▶")))
	assert.Zero(t, plain(renderProgressBar(10, 0, 40, "▶")))

	full := renderProgressBar(200, 120, 40, "▶")
	assert.NotContains(t, full, emptyBlock)
}

func TestView_Header(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	f.ready()
	f.update(infoMsg{info: &player.TrackInfo{
		Title:  "Keynote",
		Artist: "Speaker",
		Size:   2_500_000,
	}})

	view := f.model.View()
	assert.Contains(t, view, "Keynote")
	assert.Contains(t, view, "Speaker")
	assert.Contains(t, view, "2.5 MB")
}

func TestView_StatusLine(t *testing.T) {
	f := newFixture(t, Config{}, func(it *engine.MockItem) {
		it.SetGroup(engine.Audible, engine.Option{Locale: "en", Playable: true})
		it.SetGroup(engine.Legible, engine.Option{Locale: "fr", Playable: true})
	})
	f.ready()

	view := f.model.View()
	assert.Contains(t, view, icons.FormatAudio("English (en)"))
	assert.Contains(t, view, icons.FormatSubtitles("off"))
	assert.Contains(t, view, icons.FormatVolume("50%"))

	f.key(runeKey('s'))
	assert.Contains(t, f.model.View(), "French (fr)")
}

func TestView_HiddenControls(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	f.ready()
	f.update(hideControlsMsg{gen: f.model.controlsGen})

	assert.NotContains(t, f.model.View(), "2:00")
}

func TestView_Help(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	f.key(runeKey('?'))

	view := f.model.View()
	assert.Contains(t, view, "Play/pause")
	assert.Contains(t, view, "space")
	assert.Contains(t, view, "Subtitles off")
}

func TestStatusIcon(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	assert.Equal(t, icons.Loading(), f.model.statusIcon())

	f.ready()
	assert.Equal(t, icons.Playing(), f.model.statusIcon())

	f.key(tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, icons.Paused(), f.model.statusIcon())

	f.model.player.Seek(60, false)
	assert.Equal(t, icons.Seeking(), f.model.statusIcon())
}
