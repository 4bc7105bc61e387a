// Package adapter wraps a media engine in a small explicit state machine.
//
// The adapter owns one engine session. It turns the engine's asynchronous
// signals into State and Intent transitions, implements range-clamped
// seeking, polls progress while running and derives the selectable audio and
// subtitle options of each loaded item.
//
// An Adapter is not safe for concurrent use. Every method, and every engine
// callback, must run on the single goroutine that owns the adapter.
package adapter

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/demoplayer/internal/engine"
)

// DefaultPollInterval is the nominal progress poll period.
const DefaultPollInterval = time.Second

// Scheduler runs repeating tasks on the adapter's owner goroutine.
type Scheduler interface {
	// Every calls fn every d until stop is called. Calls already queued when
	// stop runs may still be delivered.
	Every(d time.Duration, fn func()) (stop func())
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithPollInterval overrides DefaultPollInterval.
func WithPollInterval(d time.Duration) Option {
	return func(a *Adapter) {
		if d > 0 {
			a.pollInterval = d
		}
	}
}

// WithPreselectedLanguages sets the initial preferred audio and subtitle
// languages.
func WithPreselectedLanguages(audio, subtitle string) Option {
	return func(a *Adapter) {
		a.preselectedAudio = audio
		a.preselectedSubtitle = subtitle
	}
}

// Adapter drives an engine.Engine. See the package documentation.
type Adapter struct {
	engine       engine.Engine
	scheduler    Scheduler
	logger       *zap.Logger
	observer     Observer
	pollInterval time.Duration

	state  State
	intent Intent
	path   string

	audioOptions    []MediaOption
	subtitleOptions []MediaOption
	// engine-native group positions captured at derivation time
	audioRefs    map[optionKey]int
	subtitleRefs map[optionKey]int

	currentAudio    *MediaOption
	currentSubtitle *MediaOption

	preselectedAudio    string
	preselectedSubtitle string
	suspendedByPolicy   bool

	continuousSeek bool
	optionsApplied bool

	stopPoll func()
	pollGen  uint64

	item       engine.Item
	cancelItem func()
	cancelRate func()
}

// New creates an adapter driving eng. Repeating progress polls are scheduled
// through sched.
func New(eng engine.Engine, sched Scheduler, opts ...Option) *Adapter {
	a := &Adapter{
		engine:       eng,
		scheduler:    sched,
		logger:       zap.NewNop(),
		observer:     NopObserver{},
		pollInterval: DefaultPollInterval,
		state:        StateUndefined,
		intent:       IntentPaused,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.cancelRate = eng.ObserveRate(a.handleSignal)
	return a
}

// SetObserver registers the single event observer, replacing any previous
// one. nil removes it.
func (a *Adapter) SetObserver(o Observer) {
	if o == nil {
		o = NopObserver{}
	}
	a.observer = o
}

// State returns the current engine session state.
func (a *Adapter) State() State { return a.state }

// Intent returns the current playback intent.
func (a *Adapter) Intent() Intent { return a.intent }

// Path returns the address given to the last successful Load, or "" after Stop.
func (a *Adapter) Path() string { return a.path }

// DurationSeconds returns the duration of the current item, or 0 when unknown.
func (a *Adapter) DurationSeconds() float64 {
	item := a.engine.CurrentItem()
	if item == nil {
		return 0
	}
	return finiteOrZero(item.Duration())
}

// PositionSeconds returns the playback position of the current item, or 0
// when unknown.
func (a *Adapter) PositionSeconds() float64 {
	item := a.engine.CurrentItem()
	if item == nil {
		return 0
	}
	return finiteOrZero(item.Position())
}

// Caption returns the subtitle text at the current position when the loaded
// item renders subtitles itself.
func (a *Adapter) Caption() (string, bool) {
	c, ok := a.item.(engine.Captioner)
	if !ok || a.currentSubtitle == nil {
		return "", false
	}
	return c.CaptionAt(a.PositionSeconds())
}

// IsSuspendedByPolicy reports whether Resume is currently redirected to Pause.
func (a *Adapter) IsSuspendedByPolicy() bool { return a.suspendedByPolicy }

// SetSuspendedByPolicy sets the policy flag. While set, Resume behaves like
// Pause.
func (a *Adapter) SetSuspendedByPolicy(suspended bool) {
	a.suspendedByPolicy = suspended
}

// IsPolling reports whether a progress poll task is active.
func (a *Adapter) IsPolling() bool { return a.stopPoll != nil }

// Close stops playback, releases the engine subscriptions and drops the
// observer. The adapter must not be used afterwards.
func (a *Adapter) Close() {
	a.Stop()
	if a.cancelRate != nil {
		a.cancelRate()
		a.cancelRate = nil
	}
	a.observer = NopObserver{}
}

func (a *Adapter) setState(s State) {
	old := a.state
	if old == s {
		return
	}
	a.state = s

	// First readiness after a load, even when a seek came in between.
	if s == StateReadyToPlay && !a.optionsApplied && a.item != nil {
		a.optionsApplied = true
		a.deriveAudioOptions()
		a.deriveSubtitleOptions()
	}

	a.logger.Debug("adapter state changed",
		zap.Stringer("from", old),
		zap.Stringer("to", s))
	a.observer.OnStateChanged(old, s)

	if s == StateFailed {
		err := a.failure()
		a.logger.Warn("playback failed", zap.String("path", a.path), zap.Error(err))
		a.observer.OnError(err)
	}
}

func (a *Adapter) setIntent(i Intent) {
	old := a.intent
	if old == i {
		return
	}
	a.intent = i
	a.logger.Debug("adapter intent changed",
		zap.Stringer("from", old),
		zap.Stringer("to", i))
	a.observer.OnIntentChanged(old, i)
}

// failure returns the most specific error known for the current session.
func (a *Adapter) failure() error {
	if a.item != nil {
		if err := a.item.Err(); err != nil {
			return err
		}
	}
	if err := a.engine.Err(); err != nil {
		return err
	}
	return ErrUndefined
}

func finiteOrZero(v float64, ok bool) float64 {
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
