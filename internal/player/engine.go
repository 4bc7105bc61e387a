// Package player is a local-file engine.Engine backed by beep.
//
// Decoding and output stay inside beep; the engine only maps its commands
// onto the speaker and reports what happens through engine signals. All
// Engine and Item methods must be called on the owner goroutine, and every
// callback is delivered through the post function given to New.
package player

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"go.uber.org/zap"

	"github.com/llehouerou/demoplayer/internal/engine"
)

// seekSettle is how long output stays silent after a seek.
const seekSettle = 100 * time.Millisecond

var errStreamClosed = errors.New("stream closed")

var (
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

// initSpeaker opens the output device at the rate of the first stream.
// Later streams are resampled to it.
func initSpeaker(rate beep.SampleRate) error {
	if speakerInitialized {
		return nil
	}
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return err
	}
	speakerSampleRate = rate
	speakerInitialized = true
	return nil
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithVolume sets the initial output level (0.0 to 1.0).
func WithVolume(level float64) Option {
	return func(e *Engine) {
		e.level = clampLevel(level)
	}
}

// WithoutOutput decodes items without opening the audio device. Items
// become ready and seekable but never play.
func WithoutOutput() Option {
	return func(e *Engine) { e.headless = true }
}

type seekRequest struct {
	gen    uint64
	item   *Item
	stream *stream
	sample int
	done   func(bool)
}

// Engine plays one item at a time through the beep speaker.
type Engine struct {
	post     func(func())
	logger   *zap.Logger
	headless bool

	current *Item
	rate    float64
	level   float64
	status  engine.Status
	err     error

	rateObservers map[int]func(engine.Signal)
	nextObserver  int

	seekGen  uint64
	seekNext chan seekRequest
	quit     chan struct{}
	closed   bool
}

// New creates an engine delivering callbacks through post. post may block,
// so the engine never calls it on the owner goroutine.
func New(post func(func()), opts ...Option) *Engine {
	e := &Engine{
		post:          post,
		logger:        zap.NewNop(),
		level:         1,
		status:        engine.StatusReadyToPlay,
		rateObservers: make(map[int]func(engine.Signal)),
		seekNext:      make(chan seekRequest, 1),
		quit:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	go e.seekLoop()
	return e
}

// NewItem creates an item for a file URL and starts decoding it in the
// background. Other schemes produce an item that fails asynchronously.
func (e *Engine) NewItem(u *url.URL) (engine.Item, error) {
	if u == nil {
		return nil, errors.New("player: nil url")
	}
	it := newItem(e, u)

	if u.Scheme != "file" {
		err := fmt.Errorf("unsupported scheme %q", u.Scheme)
		e.async(func() { it.fail(err) })
		return it, nil
	}

	go it.prepare()
	return it, nil
}

// ReplaceCurrentItem releases the current item and attaches item to the
// speaker once it is ready. Items from other engines are ignored.
func (e *Engine) ReplaceCurrentItem(item engine.Item) {
	var next *Item
	if item != nil {
		it, ok := item.(*Item)
		if !ok || it.engine != e {
			e.logger.Warn("ignoring foreign item", zap.Stringer("item", item.ID()))
			return
		}
		next = it
	}
	if next == e.current {
		return
	}

	if e.current != nil {
		if !e.headless {
			speaker.Clear()
		}
		e.current.release()
	}
	// Pending seeks targeted the old item.
	e.seekGen++

	e.current = next
	if next != nil && next.stream != nil {
		e.attach(next)
	}
}

// CurrentItem returns the current item, or nil.
func (e *Engine) CurrentItem() engine.Item {
	if e.current == nil {
		return nil
	}
	return e.current
}

func (e *Engine) Play() { e.setRate(1) }

func (e *Engine) Pause() { e.setRate(0) }

func (e *Engine) Rate() float64 { return e.rate }

func (e *Engine) Status() engine.Status { return e.status }

func (e *Engine) Err() error { return e.err }

// Seek moves the current item to target seconds. beep seeks are sample
// exact, so the tolerances always hold. Only the latest pending request is
// executed; the others complete with finished=false.
func (e *Engine) Seek(target, _, _ float64, done func(finished bool)) {
	it := e.current
	if it == nil || it.stream == nil || e.closed {
		e.async(func() { done(false) })
		return
	}

	e.seekGen++
	req := seekRequest{
		gen:    e.seekGen,
		item:   it,
		stream: it.stream,
		sample: it.stream.format.SampleRate.N(secondsToDuration(target)),
		done:   done,
	}

	select {
	case old := <-e.seekNext:
		e.async(func() { old.done(false) })
	default:
	}
	e.seekNext <- req
}

// ObserveRate subscribes fn to RateChanged signals.
func (e *Engine) ObserveRate(fn func(engine.Signal)) (cancel func()) {
	id := e.nextObserver
	e.nextObserver++
	e.rateObservers[id] = fn
	return func() { delete(e.rateObservers, id) }
}

// Volume returns the output level (0.0 to 1.0).
func (e *Engine) Volume() float64 {
	return e.level
}

// SetVolume sets the output level (0.0 to 1.0).
func (e *Engine) SetVolume(level float64) {
	e.level = clampLevel(level)
	if e.current != nil && e.current.stream != nil {
		e.current.stream.setLevel(e.level)
	}
}

// Close releases the current item and stops the seek worker. The engine
// must not be used afterwards.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.ReplaceCurrentItem(nil)
	close(e.quit)
}

func (e *Engine) setRate(rate float64) {
	if e.rate == rate {
		return
	}
	e.rate = rate
	if e.current != nil && e.current.stream != nil {
		e.current.stream.setPaused(rate == 0)
	}

	sig := engine.Signal{Kind: engine.RateChanged, Rate: rate}
	for _, fn := range e.rateObservers {
		fn(sig)
	}
}

func (e *Engine) attach(it *Item) {
	it.ended = false
	it.stream.bind(e.rate == 0, e.level)
	if e.headless {
		return
	}
	it.stream.play(func() {
		// Speaker goroutine, speaker lock held.
		e.async(func() { e.streamEnded(it) })
	})
}

// streamEnded runs when the speaker drained the item, either at the end of
// the file or on a decoder error.
func (e *Engine) streamEnded(it *Item) {
	if it != e.current || it.closed {
		return
	}
	if err := it.stream.err(); err != nil {
		e.logger.Warn("stream interrupted", zap.String("path", it.path), zap.Error(err))
		it.fail(fmt.Errorf("%w: %w", engine.ErrInterrupted, err))
		return
	}
	it.ended = true
	it.emit(engine.Signal{Kind: engine.ItemReachedEnd, Item: it.id})
	e.setRate(0)
}

func (e *Engine) openOutput(rate beep.SampleRate) error {
	if e.headless {
		return nil
	}
	return initSpeaker(rate)
}

// failOutput marks the engine unusable after the speaker could not start.
func (e *Engine) failOutput(err error) {
	e.status = engine.StatusFailed
	e.err = fmt.Errorf("initializing audio output: %w", err)
}

func (e *Engine) seekLoop() {
	for {
		var req seekRequest
		select {
		case <-e.quit:
			return
		case req = <-e.seekNext:
		}

		err := req.stream.seek(req.sample)
		e.post(func() { e.completeSeek(req, err) })

		if err == nil {
			select {
			case <-e.quit:
				return
			case <-time.After(seekSettle):
			}
			req.stream.unsilence()
		}
	}
}

func (e *Engine) completeSeek(req seekRequest, err error) {
	if err != nil && !errors.Is(err, errStreamClosed) {
		e.logger.Warn("seek failed", zap.String("path", req.item.path), zap.Error(err))
	}
	finished := err == nil && req.gen == e.seekGen && req.item == e.current
	// The speaker dropped the stream at its end; a seek brings it back.
	if finished && req.item.ended {
		e.attach(req.item)
	}
	req.done(finished)
}

// async posts fn from a fresh goroutine, since post may block until the
// owner goroutine is free.
func (e *Engine) async(fn func()) {
	go e.post(fn)
}

func secondsToDuration(s float64) time.Duration {
	if math.IsNaN(s) || s < 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}

func clampLevel(level float64) float64 {
	return min(max(level, 0), 1)
}

// levelToVolume converts a 0.0-1.0 level to beep's base-2 Volume.
// 1.0 -> 0, 0.5 -> -1, 0.25 -> -2, 0 -> -10 (essentially silent).
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}

// Verify Engine implements engine.Engine at compile time.
var _ engine.Engine = (*Engine)(nil)
