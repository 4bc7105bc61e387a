package player

import (
	"net/url"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/llehouerou/demoplayer/internal/engine"
)

// Item is one local file prepared by an Engine.
type Item struct {
	engine *Engine
	id     engine.ItemID
	url    *url.URL
	path   string

	status engine.Status
	err    error

	stream    *stream
	language  string
	subtitles []Sidecar
	subtitle  int
	cues      []Cue

	ended  bool
	closed bool

	observers    map[int]func(engine.Signal)
	nextObserver int
}

func newItem(e *Engine, u *url.URL) *Item {
	return &Item{
		engine:    e,
		id:        engine.NewItemID(),
		url:       u,
		path:      filepath.FromSlash(u.Path),
		status:    engine.StatusUnknown,
		subtitle:  -1,
		observers: make(map[int]func(engine.Signal)),
	}
}

// prepared is what the background decode hands back to the owner.
type prepared struct {
	stream    *stream
	language  string
	subtitles []Sidecar
}

// prepare runs on its own goroutine and must not touch the item's fields.
func (it *Item) prepare() {
	s, err := openStream(it.path)
	if err != nil {
		it.engine.post(func() { it.fail(err) })
		return
	}
	p := prepared{
		stream:    s,
		language:  AudioLanguage(it.path),
		subtitles: FindSidecars(it.path),
	}
	it.engine.post(func() { it.ready(p) })
}

func (it *Item) ready(p prepared) {
	e := it.engine
	if it.closed {
		p.stream.close()
		return
	}
	if err := e.openOutput(p.stream.format.SampleRate); err != nil {
		p.stream.close()
		e.failOutput(err)
		it.fail(e.err)
		return
	}

	it.stream = p.stream
	it.language = p.language
	it.subtitles = p.subtitles

	e.logger.Debug("item ready",
		zap.String("path", it.path),
		zap.String("codec", p.stream.codec),
		zap.Duration("duration", p.stream.duration()),
		zap.Int("subtitles", len(p.subtitles)))

	if e.current == it {
		e.attach(it)
	}
	it.setStatus(engine.StatusReadyToPlay)
	it.emit(engine.Signal{Kind: engine.BufferLikelyToKeepUp, Item: it.id})
}

func (it *Item) fail(err error) {
	if it.closed || it.status == engine.StatusFailed {
		return
	}
	it.err = err
	it.engine.logger.Warn("item failed", zap.String("path", it.path), zap.Error(err))
	it.setStatus(engine.StatusFailed)
}

// release closes the decoder. Signals are no longer emitted afterwards.
func (it *Item) release() {
	it.closed = true
	if it.stream != nil {
		it.stream.close()
	}
}

func (it *Item) setStatus(s engine.Status) {
	if it.status == s {
		return
	}
	it.status = s
	it.emit(engine.Signal{Kind: engine.ItemStatusChanged, Item: it.id, Status: s})
}

func (it *Item) emit(sig engine.Signal) {
	if it.closed {
		return
	}
	for _, fn := range it.observers {
		fn(sig)
	}
}

func (it *Item) ID() engine.ItemID { return it.id }

func (it *Item) Status() engine.Status { return it.status }

func (it *Item) Err() error { return it.err }

// Path returns the local file path of the item.
func (it *Item) Path() string { return it.path }

func (it *Item) Duration() (float64, bool) {
	if it.stream == nil {
		return 0, false
	}
	return it.stream.duration().Seconds(), true
}

func (it *Item) Position() (float64, bool) {
	if it.stream == nil {
		return 0, false
	}
	return it.stream.position().Seconds(), true
}

// SeekableRanges covers the whole file once it is decoded.
func (it *Item) SeekableRanges() []engine.TimeRange {
	if it.stream == nil {
		return nil
	}
	return []engine.TimeRange{{Start: 0, End: it.stream.duration().Seconds()}}
}

// MediaGroup returns the single audio rendition or the sidecar subtitles.
func (it *Item) MediaGroup(kind engine.MediaKind) (engine.Group, bool) {
	if it.stream == nil {
		return engine.Group{}, false
	}
	switch kind {
	case engine.Audible:
		return engine.Group{Options: []engine.Option{{
			Locale:   it.language,
			Playable: true,
		}}}, true
	case engine.Legible:
		if len(it.subtitles) == 0 {
			return engine.Group{}, false
		}
		opts := make([]engine.Option, len(it.subtitles))
		for i, sc := range it.subtitles {
			opts[i] = engine.Option{
				Locale:     sc.Language,
				Playable:   true,
				ForcedOnly: sc.Forced,
			}
		}
		return engine.Group{Options: opts}, true
	default:
		return engine.Group{}, false
	}
}

// Select loads the cues of the chosen subtitle file. A file has a single
// audio rendition, which stays audible whatever the audio selection.
func (it *Item) Select(kind engine.MediaKind, groupIndex int) {
	if it.stream == nil {
		return
	}
	switch kind {
	case engine.Audible:
	case engine.Legible:
		if groupIndex < 0 || groupIndex >= len(it.subtitles) {
			it.subtitle = -1
			it.cues = nil
			return
		}
		if it.subtitle == groupIndex {
			return
		}
		it.subtitle = groupIndex
		it.cues = nil
		it.loadCues(groupIndex, it.subtitles[groupIndex].Path)
	}
}

func (it *Item) loadCues(index int, path string) {
	e := it.engine
	go func() {
		cues, err := ReadCueFile(path)
		e.post(func() {
			if err != nil {
				e.logger.Warn("reading subtitles", zap.String("path", path), zap.Error(err))
				return
			}
			if it.closed || it.subtitle != index {
				return
			}
			it.cues = cues
		})
	}()
}

// CaptionAt returns the text of the selected subtitle cue active at seconds.
func (it *Item) CaptionAt(seconds float64) (string, bool) {
	return CueAt(it.cues, secondsToDuration(seconds))
}

// Observe subscribes fn to the item's signals.
func (it *Item) Observe(fn func(engine.Signal)) (cancel func()) {
	id := it.nextObserver
	it.nextObserver++
	it.observers[id] = fn
	return func() { delete(it.observers, id) }
}

// Verify Item implements engine.Item and engine.Captioner at compile time.
var (
	_ engine.Item      = (*Item)(nil)
	_ engine.Captioner = (*Item)(nil)
)
