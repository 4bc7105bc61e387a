package playerview

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/demoplayer/internal/adapter"
	"github.com/llehouerou/demoplayer/internal/engine"
	"github.com/llehouerou/demoplayer/internal/notify"
	"github.com/llehouerou/demoplayer/internal/state"
)

type idleScheduler struct{}

func (idleScheduler) Every(time.Duration, func()) func() { return func() {} }

type fakeVolume struct{ level float64 }

func (v *fakeVolume) Volume() float64         { return v.level }
func (v *fakeVolume) SetVolume(level float64) { v.level = min(max(level, 0), 1) }

type fixture struct {
	model *Model
	eng   *engine.Mock
	store *state.Mock
	vol   *fakeVolume
}

func newFixture(t *testing.T, cfg Config, setup func(*engine.MockItem)) *fixture {
	t.Helper()
	eng := engine.NewMock()
	eng.SetItemSetup(func(it *engine.MockItem) {
		it.SetTiming(30, 120)
		it.SetSeekableRanges(engine.TimeRange{Start: 0, End: 120})
		if setup != nil {
			setup(it)
		}
	})
	events := adapter.NewEventQueue()
	a := adapter.New(eng, idleScheduler{})
	a.SetObserver(events)

	if cfg.Path == "" {
		cfg.Path = "/media/talk.mp3"
	}
	f := &fixture{
		eng:   eng,
		store: state.NewMock(),
		vol:   &fakeVolume{level: 0.5},
	}
	f.model = New(a, events, cfg, WithStore(f.store), WithVolume(f.vol))
	f.update(startMsg{})
	return f
}

func (f *fixture) update(msg tea.Msg) {
	f.model.Update(msg)
}

// run executes the command returned for msg, batches included, and
// returns the messages produced.
func (f *fixture) run(msg tea.Msg) []tea.Msg {
	_, cmd := f.model.Update(msg)
	return runCmd(cmd)
}

func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, runCmd(c)...)
	}
	return out
}

// ready makes the item ready through the owner loop, the way engine
// callbacks arrive.
func (f *fixture) ready() {
	f.update(TaskMsg(func() { f.eng.LastItem().BecomeReady() }))
}

func (f *fixture) key(k tea.KeyMsg) {
	f.update(k)
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func seekTargets(eng *engine.Mock) []float64 {
	var out []float64
	for _, c := range eng.SeekCalls() {
		out = append(out, c.Target)
	}
	return out
}

func TestModel_LoadsOnStart(t *testing.T) {
	f := newFixture(t, Config{}, nil)

	require.NotNil(t, f.eng.LastItem())
	assert.Equal(t, adapter.StateLoading, f.model.player.State())

	f.ready()
	assert.Equal(t, adapter.StateReadyToPlay, f.model.player.State())
	assert.Equal(t, adapter.IntentRunning, f.model.player.Intent())
	assert.InDelta(t, 120, f.model.duration, 1e-9)
	assert.InDelta(t, 30, f.model.position, 1e-9)
}

func TestModel_LoadError(t *testing.T) {
	f := newFixture(t, Config{Path: "   "}, nil)

	require.Error(t, f.model.Err())
	assert.Equal(t, adapter.KindNoStreamURL, adapter.KindOf(f.model.Err()))
	assert.Nil(t, f.eng.LastItem())
}

func TestModel_ResumesAtStart(t *testing.T) {
	f := newFixture(t, Config{StartAt: 60}, nil)
	f.ready()

	assert.Equal(t, []float64{60}, seekTargets(f.eng))

	// Only the first ready state resumes.
	f.update(TaskMsg(f.eng.CompleteSeeks))
	f.ready()
	assert.Len(t, f.eng.SeekCalls(), 1)
}

func TestModel_ResumeNearEndStartsOver(t *testing.T) {
	f := newFixture(t, Config{StartAt: 118}, nil)
	f.ready()

	assert.Empty(t, f.eng.SeekCalls())
}

func TestModel_PlayPause(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	f.ready()

	f.key(tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, adapter.IntentPaused, f.model.player.Intent())

	f.key(tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, adapter.IntentRunning, f.model.player.Intent())
}

func TestModel_PlayPauseBeforeLoadIgnored(t *testing.T) {
	f := newFixture(t, Config{Path: "   "}, nil)

	f.key(tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, adapter.IntentPaused, f.model.player.Intent())
	assert.Zero(t, f.eng.PlayCalls())
}

func TestModel_Skip(t *testing.T) {
	f := newFixture(t, Config{SkipInterval: 10 * time.Second}, nil)
	f.ready()

	f.key(tea.KeyMsg{Type: tea.KeyRight})
	f.key(runeKey('h'))

	assert.Equal(t, []float64{40, 20}, seekTargets(f.eng))
}

func TestModel_ScrubThrottledAndCommitted(t *testing.T) {
	f := newFixture(t, Config{ScrubStep: 5 * time.Second, ScrubRate: 1}, nil)
	f.ready()

	f.key(tea.KeyMsg{Type: tea.KeyShiftRight})
	f.key(tea.KeyMsg{Type: tea.KeyShiftRight})

	// The second step is throttled but shown.
	assert.Equal(t, []float64{35}, seekTargets(f.eng))
	assert.True(t, f.model.scrubbing)
	assert.InDelta(t, 40, f.model.position, 1e-9)
	assert.Equal(t, adapter.StateSeeking, f.model.player.State())

	f.key(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []float64{35, 40}, seekTargets(f.eng))
	assert.False(t, f.model.scrubbing)
	assert.True(t, f.model.player.IsPolling())
}

func TestModel_ScrubClampsToDuration(t *testing.T) {
	f := newFixture(t, Config{ScrubStep: 100 * time.Second}, nil)
	f.ready()

	f.key(tea.KeyMsg{Type: tea.KeyShiftRight})
	assert.Equal(t, []float64{120}, seekTargets(f.eng))

	f.key(runeKey('H'))
	f.key(runeKey('H'))
	assert.InDelta(t, 0, f.model.scrubTarget, 1e-9)
}

func TestModel_CycleAudio(t *testing.T) {
	f := newFixture(t, Config{}, func(it *engine.MockItem) {
		it.SetGroup(engine.Audible,
			engine.Option{Locale: "en", Playable: true},
			engine.Option{Locale: "fr", Playable: true},
		)
	})
	f.ready()

	cur, ok := f.model.player.CurrentAudioOption()
	require.True(t, ok)
	assert.Equal(t, "en", cur.LanguageCode)

	f.key(runeKey('a'))
	cur, _ = f.model.player.CurrentAudioOption()
	assert.Equal(t, "fr", cur.LanguageCode)

	langs, err := f.store.GetLanguages()
	require.NoError(t, err)
	require.NotNil(t, langs)
	assert.Equal(t, "fr", langs.Audio)
	assert.Equal(t, "fr", f.model.player.PreselectedAudioLanguage())

	f.key(runeKey('a'))
	cur, _ = f.model.player.CurrentAudioOption()
	assert.Equal(t, "en", cur.LanguageCode)
	assert.Equal(t, 2, f.store.LanguageSaves())
}

func TestModel_CycleSubtitles(t *testing.T) {
	f := newFixture(t, Config{}, func(it *engine.MockItem) {
		it.SetGroup(engine.Legible,
			engine.Option{Locale: "en", Playable: true},
			engine.Option{Locale: "de", Playable: true},
		)
	})
	f.ready()

	_, ok := f.model.player.CurrentSubtitleOption()
	require.False(t, ok)

	var seen []string
	for range 3 {
		f.key(runeKey('s'))
		opt, ok := f.model.player.CurrentSubtitleOption()
		if !ok {
			seen = append(seen, "off")
			continue
		}
		seen = append(seen, opt.LanguageCode)
	}
	assert.Equal(t, []string{"en", "de", "off"}, seen)

	langs, _ := f.store.GetLanguages()
	require.NotNil(t, langs)
	assert.Empty(t, langs.Subtitle)
}

func TestModel_ClearSubtitles(t *testing.T) {
	f := newFixture(t, Config{}, func(it *engine.MockItem) {
		it.SetGroup(engine.Legible, engine.Option{Locale: "en", Playable: true})
	})
	f.ready()

	f.key(runeKey('s'))
	_, ok := f.model.player.CurrentSubtitleOption()
	require.True(t, ok)

	f.key(runeKey('x'))
	_, ok = f.model.player.CurrentSubtitleOption()
	assert.False(t, ok)
	assert.Empty(t, f.model.player.PreselectedSubtitleLanguage())
}

func TestModel_QuitSavesPosition(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	f.ready()

	f.key(runeKey('q'))

	assert.True(t, f.model.quitting)
	assert.Equal(t, adapter.StateUndefined, f.model.player.State())
	last, err := f.store.GetLastStream()
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "/media/talk.mp3", last.Path)
	assert.InDelta(t, 30, last.Position, 1e-9)
	assert.Empty(t, f.model.View())
}

func TestModel_DismissOnEnd(t *testing.T) {
	f := newFixture(t, Config{DismissOnEnd: true}, nil)
	f.ready()

	f.update(TaskMsg(func() {
		f.eng.LastItem().Emit(engine.Signal{Kind: engine.ItemReachedEnd})
	}))

	assert.True(t, f.model.quitting)
	last, _ := f.store.GetLastStream()
	require.NotNil(t, last)
	assert.Zero(t, last.Position)
}

func TestModel_ReachedEndKeepsPlayer(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	f.ready()

	f.update(TaskMsg(func() {
		f.eng.LastItem().Emit(engine.Signal{Kind: engine.ItemReachedEnd})
	}))

	assert.False(t, f.model.quitting)
	assert.True(t, f.model.ended)
	assert.Equal(t, adapter.StateFinished, f.model.player.State())

	// Play after the end starts over.
	f.key(tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, []float64{0}, seekTargets(f.eng))
	assert.False(t, f.model.ended)
}

func TestModel_ErrorAndRetry(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	f.ready()
	first := f.eng.LastItem()

	f.update(TaskMsg(func() { first.Fail(errors.New("decoder exploded")) }))

	require.Error(t, f.model.Err())
	assert.Equal(t, adapter.StateFailed, f.model.player.State())
	assert.Contains(t, f.model.View(), "decoder exploded")
	assert.Contains(t, f.model.View(), "r to retry")

	f.key(runeKey('r'))
	require.NotSame(t, first, f.eng.LastItem())
	assert.NoError(t, f.model.Err())
	assert.Equal(t, adapter.StateLoading, f.model.player.State())

	// The reload resumes where the failed item stopped.
	f.ready()
	assert.Equal(t, []float64{30}, seekTargets(f.eng))
}

func TestModel_RetryWithoutErrorIgnored(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	f.ready()
	item := f.eng.LastItem()

	f.key(runeKey('r'))
	assert.Same(t, item, f.eng.LastItem())
}

func TestModel_ToggleSuspend(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	f.ready()

	f.key(runeKey('p'))
	assert.True(t, f.model.player.IsSuspendedByPolicy())
	assert.Equal(t, adapter.IntentSuspended, f.model.player.Intent())

	// Resume is redirected while suspended by policy.
	f.key(tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, f.model.player.Intent().IsHalted())

	f.key(runeKey('p'))
	assert.False(t, f.model.player.IsSuspendedByPolicy())
}

func TestModel_Volume(t *testing.T) {
	f := newFixture(t, Config{}, nil)

	f.key(runeKey('+'))
	assert.InDelta(t, 0.6, f.vol.level, 1e-9)
	f.key(runeKey('-'))
	f.key(runeKey('-'))
	assert.InDelta(t, 0.4, f.vol.level, 1e-9)
}

func TestModel_ControlsHide(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	f.ready()

	gen := f.model.controlsGen
	f.update(hideControlsMsg{gen: gen - 1})
	assert.True(t, f.model.controlsVisible)

	f.update(hideControlsMsg{gen: gen})
	assert.False(t, f.model.controlsVisible)
	assert.False(t, f.model.controlsShown())

	f.key(runeKey('?'))
	assert.True(t, f.model.controlsVisible)
	assert.True(t, f.model.showHelp)
}

func TestModel_HaltedKeepsControls(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	f.ready()
	f.key(tea.KeyMsg{Type: tea.KeySpace})

	f.update(hideControlsMsg{gen: f.model.controlsGen})
	assert.True(t, f.model.controlsShown())
}

func TestPoster(t *testing.T) {
	var got tea.Msg
	post := Poster(func(msg tea.Msg) { got = msg })

	ran := false
	post(func() { ran = true })

	task, ok := got.(TaskMsg)
	require.True(t, ok)
	task()
	assert.True(t, ran)
}

func TestModel_Notifications(t *testing.T) {
	eng := engine.NewMock()
	eng.SetItemSetup(func(it *engine.MockItem) {
		it.SetTiming(0, 60)
		it.SetSeekableRanges(engine.TimeRange{Start: 0, End: 60})
	})
	events := adapter.NewEventQueue()
	a := adapter.New(eng, idleScheduler{})
	a.SetObserver(events)
	notifier := notify.NewMock()

	m := New(a, events, Config{
		Path:            "/media/keynote.mp3",
		ControlsTimeout: time.Millisecond,
	}, WithNotifier(notify.NewReporter(notifier)))
	f := &fixture{model: m, eng: eng}
	f.update(startMsg{})
	f.ready()

	f.run(TaskMsg(func() {
		eng.LastItem().Emit(engine.Signal{Kind: engine.ItemReachedEnd})
	}))
	sent := notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "Finished", sent[0].Title)
	assert.Equal(t, "keynote.mp3", sent[0].Body)

	f.update(startMsg{})
	f.ready()
	f.run(TaskMsg(func() { eng.LastItem().Fail(errors.New("decoder exploded")) }))

	sent = notifier.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "Playback failed", sent[1].Title)
	assert.Contains(t, sent[1].Body, "decoder exploded")
	assert.Equal(t, uint32(1), sent[1].ReplacesID)
}
