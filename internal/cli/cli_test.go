package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/wav"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/llehouerou/demoplayer/internal/adapter"
	"github.com/llehouerou/demoplayer/internal/config"
	"github.com/llehouerou/demoplayer/internal/state"
)

func writeWAV(t *testing.T, path string, d time.Duration) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	rate := beep.SampleRate(44100)
	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, generators.Silence(rate.N(d)), format))
}

func resetFlags(t *testing.T) {
	t.Cleanup(func() {
		rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
		opts = options{}
	})
}

func TestApplyFlags(t *testing.T) {
	resetFlags(t)
	require.NoError(t, rootCmd.ParseFlags([]string{
		"--audio-lang", "de",
		"--no-mpris",
		"--metrics-addr", "localhost:9464",
		"--suspended",
		"--icons", "none",
	}))

	cfg := &config.Config{}
	cfg.Playback.SubtitleLanguage = "fr"
	applyFlags(rootCmd, cfg)

	assert.Equal(t, "de", cfg.Playback.AudioLanguage)
	assert.Equal(t, "fr", cfg.Playback.SubtitleLanguage, "unset flags keep the config value")
	assert.False(t, cfg.MPRISEnabled())
	assert.True(t, cfg.HasMetrics())
	assert.True(t, cfg.Playback.Suspended)
	assert.False(t, cfg.Playback.DismissOnEnd)
	assert.Equal(t, "none", cfg.IconStyle())
}

func TestPreferredLanguages(t *testing.T) {
	store := state.NewMock()
	store.SetLanguages(&state.Languages{Audio: "fr", Subtitle: "en"})
	logger := zap.NewNop()

	audio, sub := preferredLanguages(&config.Config{}, store, logger)
	assert.Equal(t, "fr", audio)
	assert.Equal(t, "en", sub)

	cfg := &config.Config{}
	cfg.Playback.AudioLanguage = "ja"
	audio, sub = preferredLanguages(cfg, store, logger)
	assert.Equal(t, "ja", audio)
	assert.Equal(t, "en", sub)

	audio, sub = preferredLanguages(cfg, nil, logger)
	assert.Equal(t, "ja", audio)
	assert.Empty(t, sub)
}

func TestResumePosition(t *testing.T) {
	store := state.NewMock()
	require.NoError(t, store.SaveStream(state.StreamState{Path: "/a.mp3", Position: 12}))
	require.NoError(t, store.SaveStream(state.StreamState{Path: "/b.mp3", Position: 40}))
	logger := zap.NewNop()

	assert.InDelta(t, 12, resumePosition(store, "/a.mp3", logger), 1e-9)
	assert.InDelta(t, 40, resumePosition(store, "/b.mp3", logger), 1e-9)
	assert.Zero(t, resumePosition(store, "/c.mp3", logger))
	assert.Zero(t, resumePosition(nil, "/a.mp3", logger))
}

func TestLastStream(t *testing.T) {
	logger := zap.NewNop()
	store := state.NewMock()
	assert.Empty(t, lastStream(store, logger))

	path := filepath.Join(t.TempDir(), "talk.wav")
	writeWAV(t, path, 100*time.Millisecond)
	require.NoError(t, store.SaveStream(state.StreamState{Path: path}))
	assert.Equal(t, path, lastStream(store, logger))

	require.NoError(t, store.SaveStream(state.StreamState{Path: "/gone/talk.mp3"}))
	assert.Empty(t, lastStream(store, logger))

	require.NoError(t, store.SaveStream(state.StreamState{Path: "https://example.com/live.m3u8"}))
	assert.Equal(t, "https://example.com/live.m3u8", lastStream(store, logger))
}

func TestProbe(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "talk.wav")
	writeWAV(t, path, 2*time.Second)
	for _, name := range []string{"talk.en.srt", "talk.fr.srt", "talk.fr.forced.srt"} {
		cue := "1\n00:00:00,000 --> 00:00:01,000\nHi\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(cue), 0o600))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := probe(ctx, path, "", "fr", zap.NewNop())
	require.NoError(t, err)

	assert.InDelta(t, 2, res.Duration, 0.01)
	assert.Empty(t, res.Audio, "WAV files carry no language")
	require.Len(t, res.Subtitles, 2, "forced-only tracks are not offered")
	require.NotNil(t, res.CurrentSubtitle)
	assert.Equal(t, "fr", res.CurrentSubtitle.LanguageCode)

	var out bytes.Buffer
	printProbe(&out, res)
	assert.Contains(t, out.String(), "duration   2s")
	assert.Contains(t, out.String(), "audio      none")
	assert.Contains(t, out.String(), "French (fr) *")
	assert.Contains(t, out.String(), "English (en),")
}

func TestProbe_Errors(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := probe(ctx, "", "", "", zap.NewNop())
	require.ErrorIs(t, err, adapter.ErrNoStreamURL)

	_, err = probe(ctx, filepath.Join(t.TempDir(), "missing.wav"), "", "", zap.NewNop())
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = probe(ctx, "https://example.com/live.m3u8", "", "", zap.NewNop())
	require.Error(t, err)
}

func TestOptionList(t *testing.T) {
	en, _ := adapter.MediaOptionFromLocale(0, "en")
	de, _ := adapter.MediaOptionFromLocale(1, "de")

	assert.Equal(t, "none", optionList(nil, nil))
	assert.Equal(t, "English (en), German (de) *", optionList([]adapter.MediaOption{en, de}, &de))
	assert.Equal(t, "English (en)", optionList([]adapter.MediaOption{en}, nil))
}
