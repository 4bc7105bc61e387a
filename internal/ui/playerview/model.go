// Package playerview is the terminal host of the playback adapter.
//
// The bubbletea event loop is the adapter's owner goroutine: engine
// callbacks and poll ticks arrive as TaskMsg and run inside Update, and the
// adapter's events are drained from an EventQueue after every message.
package playerview

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/llehouerou/demoplayer/internal/adapter"
	"github.com/llehouerou/demoplayer/internal/errmsg"
	"github.com/llehouerou/demoplayer/internal/keymap"
	"github.com/llehouerou/demoplayer/internal/notify"
	"github.com/llehouerou/demoplayer/internal/player"
	"github.com/llehouerou/demoplayer/internal/state"
)

// Defaults used when Config leaves a value unset.
const (
	DefaultSkipInterval    = 10 * time.Second
	DefaultControlsTimeout = 5 * time.Second
	DefaultScrubRate       = 8.0
	DefaultScrubStep       = 5 * time.Second

	volumeStep = 0.1
	// resumeMargin keeps a saved position from resuming into the last
	// seconds of a stream.
	resumeMargin = 5.0
)

// Config holds host behavior settings.
type Config struct {
	Path            string
	SkipInterval    time.Duration
	ScrubStep       time.Duration
	ScrubRate       float64 // continuous seeks per second
	ControlsTimeout time.Duration
	DismissOnEnd    bool
	StartAt         float64 // resume position in seconds
}

// VolumeControl is the optional output level control of the engine.
type VolumeControl interface {
	Volume() float64
	SetVolume(level float64)
}

// Store persists language choices and the last stream.
type Store interface {
	SaveLanguages(langs state.Languages)
	SaveStream(stream state.StreamState) error
}

// TaskMsg carries a function posted to the owner goroutine.
type TaskMsg func()

// Poster returns a post function that delivers through send, usually
// (*tea.Program).Send. Calls block until the event loop takes the message,
// so they must not be made from inside Update.
func Poster(send func(tea.Msg)) func(func()) {
	return func(fn func()) {
		send(TaskMsg(fn))
	}
}

type (
	startMsg        struct{}
	hideControlsMsg struct{ gen int }
	infoMsg         struct{ info *player.TrackInfo }
)

// Option configures a Model.
type Option func(*Model)

// WithVolume enables the volume keys.
func WithVolume(v VolumeControl) Option {
	return func(m *Model) { m.volume = v }
}

// WithStore persists language choices and the resume position.
func WithStore(s Store) Option {
	return func(m *Model) { m.store = s }
}

// WithNotifier reports failures and finished streams on the desktop.
func WithNotifier(r *notify.Reporter) Option {
	return func(m *Model) { m.notifier = r }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// Model is the bubbletea model driving one adapter.
type Model struct {
	player *adapter.Adapter
	events *adapter.EventQueue
	volume VolumeControl
	store    Store
	notifier *notify.Reporter
	logger   *zap.Logger
	keys   *keymap.Resolver
	cfg    Config

	scrubLimiter *rate.Limiter

	width, height int
	info          *player.TrackInfo

	position float64
	duration float64
	caption  string

	scrubbing    bool
	scrubTarget  float64
	scrubPending bool

	startApplied    bool
	ended           bool
	lastErr         error
	controlsVisible bool
	controlsGen     int
	showHelp        bool
	quitting        bool
}

// New creates a host for p. events must be the queue the adapter's observer
// chain ends in.
func New(p *adapter.Adapter, events *adapter.EventQueue, cfg Config, opts ...Option) *Model {
	if cfg.SkipInterval <= 0 {
		cfg.SkipInterval = DefaultSkipInterval
	}
	if cfg.ScrubStep <= 0 {
		cfg.ScrubStep = DefaultScrubStep
	}
	if cfg.ScrubRate <= 0 {
		cfg.ScrubRate = DefaultScrubRate
	}
	if cfg.ControlsTimeout <= 0 {
		cfg.ControlsTimeout = DefaultControlsTimeout
	}

	m := &Model{
		player:          p,
		events:          events,
		logger:          zap.NewNop(),
		keys:            keymap.Default(),
		cfg:             cfg,
		scrubLimiter:    rate.NewLimiter(rate.Limit(cfg.ScrubRate), 1),
		controlsVisible: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init loads the configured stream once the event loop runs.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return startMsg{} },
		readInfo(m.cfg.Path),
		m.hideLater(),
	)
}

// Update handles one message on the owner goroutine.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case startMsg:
		m.load()
	case TaskMsg:
		msg()
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case hideControlsMsg:
		if msg.gen == m.controlsGen {
			m.controlsVisible = false
		}
	case infoMsg:
		m.info = msg.info
	}

	cmds = append(cmds, m.processEvents())
	m.refresh()
	return m, tea.Batch(cmds...)
}

// Err returns the last playback error, if any.
func (m *Model) Err() error { return m.lastErr }

func (m *Model) load() {
	m.ended = false
	m.lastErr = nil
	m.startApplied = false
	if err := m.player.Load(m.cfg.Path); err != nil {
		m.lastErr = err
		m.logger.Warn(errmsg.Format(errmsg.OpStreamLoad, err), zap.String("path", m.cfg.Path))
	}
}

// refresh copies the values shown by View from the adapter.
func (m *Model) refresh() {
	m.duration = m.player.DurationSeconds()
	if m.scrubbing {
		m.position = m.scrubTarget
	} else {
		m.position = m.player.PositionSeconds()
	}
	m.caption, _ = m.player.Caption()
}

// showControls makes the controls visible and restarts the hide timer.
func (m *Model) showControls() tea.Cmd {
	m.controlsVisible = true
	return m.hideLater()
}

func (m *Model) hideLater() tea.Cmd {
	m.controlsGen++
	gen := m.controlsGen
	return tea.Tick(m.cfg.ControlsTimeout, func(time.Time) tea.Msg {
		return hideControlsMsg{gen: gen}
	})
}

// controlsShown reports whether the transport row is drawn. Halted,
// failed and finished sessions keep their controls.
func (m *Model) controlsShown() bool {
	return m.controlsVisible ||
		m.showHelp ||
		m.scrubbing ||
		m.ended ||
		m.lastErr != nil ||
		m.player.Intent().IsHalted()
}

func readInfo(path string) tea.Cmd {
	return func() tea.Msg {
		info, err := player.ReadTrackInfo(path)
		if err != nil {
			return nil
		}
		return infoMsg{info: info}
	}
}
