// internal/engine/mock.go
package engine

import (
	"net/url"
)

// SeekCall records one Seek request received by Mock.
type SeekCall struct {
	Target          float64
	ToleranceBefore float64
	ToleranceAfter  float64
}

// Mock is a synchronous test double for Engine. Signals and seek completions
// are delivered only when the test asks for them.
type Mock struct {
	current   Item
	rate      float64
	status    Status
	err       error
	newErr    error
	itemSetup func(*MockItem)

	items        []*MockItem
	replaceCalls []Item
	playCalls    int
	pauseCalls   int
	seekCalls    []SeekCall
	pendingSeeks []func(bool)

	rateObservers map[int]func(Signal)
	nextObserver  int
}

// NewMock creates a mock engine reporting StatusReadyToPlay.
func NewMock() *Mock {
	return &Mock{
		status:        StatusReadyToPlay,
		rateObservers: make(map[int]func(Signal)),
	}
}

func (m *Mock) NewItem(u *url.URL) (Item, error) {
	if m.newErr != nil {
		return nil, m.newErr
	}
	item := NewMockItem(u)
	if m.itemSetup != nil {
		m.itemSetup(item)
	}
	m.items = append(m.items, item)
	return item, nil
}

func (m *Mock) ReplaceCurrentItem(item Item) {
	m.replaceCalls = append(m.replaceCalls, item)
	m.current = item
}

func (m *Mock) CurrentItem() Item { return m.current }

func (m *Mock) Play() {
	m.playCalls++
	m.setRate(1)
}

func (m *Mock) Pause() {
	m.pauseCalls++
	m.setRate(0)
}

func (m *Mock) Rate() float64 { return m.rate }

func (m *Mock) Status() Status { return m.status }

func (m *Mock) Err() error { return m.err }

func (m *Mock) Seek(target, toleranceBefore, toleranceAfter float64, done func(finished bool)) {
	m.seekCalls = append(m.seekCalls, SeekCall{
		Target:          target,
		ToleranceBefore: toleranceBefore,
		ToleranceAfter:  toleranceAfter,
	})
	m.pendingSeeks = append(m.pendingSeeks, done)
}

func (m *Mock) ObserveRate(fn func(Signal)) func() {
	id := m.nextObserver
	m.nextObserver++
	m.rateObservers[id] = fn
	return func() { delete(m.rateObservers, id) }
}

func (m *Mock) setRate(rate float64) {
	if m.rate == rate {
		return
	}
	m.rate = rate
	m.emitRate()
}

func (m *Mock) emitRate() {
	for _, fn := range m.rateObservers {
		fn(Signal{Kind: RateChanged, Rate: m.rate})
	}
}

// Test helpers

// SetNewItemError makes NewItem fail with err.
func (m *Mock) SetNewItemError(err error) { m.newErr = err }

// SetItemSetup configures every item created afterwards.
func (m *Mock) SetItemSetup(fn func(*MockItem)) { m.itemSetup = fn }

func (m *Mock) SetStatus(s Status) { m.status = s }

func (m *Mock) SetErr(err error) { m.err = err }

// SetRateSilently changes the rate without notifying observers.
func (m *Mock) SetRateSilently(rate float64) { m.rate = rate }

// SimulateExternalRate changes the rate as if something outside the adapter
// started or stopped playback.
func (m *Mock) SimulateExternalRate(rate float64) { m.setRate(rate) }

func (m *Mock) Items() []*MockItem { return m.items }

// LastItem returns the most recently created item, or nil.
func (m *Mock) LastItem() *MockItem {
	if len(m.items) == 0 {
		return nil
	}
	return m.items[len(m.items)-1]
}

func (m *Mock) ReplaceCalls() []Item { return m.replaceCalls }

func (m *Mock) PlayCalls() int { return m.playCalls }

func (m *Mock) PauseCalls() int { return m.pauseCalls }

func (m *Mock) SeekCalls() []SeekCall { return m.seekCalls }

func (m *Mock) PendingSeeks() int { return len(m.pendingSeeks) }

// CompleteSeeks completes all pending seeks. Every seek but the latest is
// reported as superseded.
func (m *Mock) CompleteSeeks() {
	pending := m.pendingSeeks
	m.pendingSeeks = nil
	for i, done := range pending {
		done(i == len(pending)-1)
	}
}

// InterruptSeeks completes all pending seeks with finished=false.
func (m *Mock) InterruptSeeks() {
	pending := m.pendingSeeks
	m.pendingSeeks = nil
	for _, done := range pending {
		done(false)
	}
}

func (m *Mock) RateObserverCount() int { return len(m.rateObservers) }

// Verify Mock implements Engine at compile time.
var _ Engine = (*Mock)(nil)

// MockItem is a test double for Item.
type MockItem struct {
	id       ItemID
	url      *url.URL
	status   Status
	err      error
	duration float64
	position float64
	hasTime  bool
	ranges   []TimeRange
	groups   map[MediaKind]Group

	selections map[MediaKind][]int
	observers  map[int]func(Signal)
	nextID     int
}

// NewMockItem creates an item with unknown status and no timing information.
func NewMockItem(u *url.URL) *MockItem {
	return &MockItem{
		id:         NewItemID(),
		url:        u,
		groups:     make(map[MediaKind]Group),
		selections: make(map[MediaKind][]int),
		observers:  make(map[int]func(Signal)),
	}
}

func (i *MockItem) ID() ItemID { return i.id }

func (i *MockItem) Status() Status { return i.status }

func (i *MockItem) Err() error { return i.err }

func (i *MockItem) Duration() (float64, bool) { return i.duration, i.hasTime }

func (i *MockItem) Position() (float64, bool) { return i.position, i.hasTime }

func (i *MockItem) SeekableRanges() []TimeRange { return i.ranges }

func (i *MockItem) MediaGroup(kind MediaKind) (Group, bool) {
	g, ok := i.groups[kind]
	return g, ok
}

func (i *MockItem) Select(kind MediaKind, groupIndex int) {
	i.selections[kind] = append(i.selections[kind], groupIndex)
}

func (i *MockItem) Observe(fn func(Signal)) func() {
	id := i.nextID
	i.nextID++
	i.observers[id] = fn
	return func() { delete(i.observers, id) }
}

// Test helpers

func (i *MockItem) URL() *url.URL { return i.url }

func (i *MockItem) SetStatus(s Status) { i.status = s }

func (i *MockItem) SetErr(err error) { i.err = err }

func (i *MockItem) SetTiming(position, duration float64) {
	i.position = position
	i.duration = duration
	i.hasTime = true
}

func (i *MockItem) SetSeekableRanges(r ...TimeRange) { i.ranges = r }

func (i *MockItem) SetGroup(kind MediaKind, options ...Option) {
	i.groups[kind] = Group{Options: options}
}

// Selections returns every group index applied for kind, in order.
func (i *MockItem) Selections(kind MediaKind) []int { return i.selections[kind] }

// LastSelection returns the latest applied group index for kind.
func (i *MockItem) LastSelection(kind MediaKind) (int, bool) {
	s := i.selections[kind]
	if len(s) == 0 {
		return 0, false
	}
	return s[len(s)-1], true
}

func (i *MockItem) ObserverCount() int { return len(i.observers) }

// Emit delivers sig to every current observer, stamped with the item's ID.
func (i *MockItem) Emit(sig Signal) {
	sig.Item = i.id
	for _, fn := range i.observers {
		fn(sig)
	}
}

// BecomeReady marks the item ready and emits the matching status signal.
func (i *MockItem) BecomeReady() {
	i.status = StatusReadyToPlay
	i.Emit(Signal{Kind: ItemStatusChanged, Status: StatusReadyToPlay})
}

// Fail marks the item failed with err and emits the matching status signal.
func (i *MockItem) Fail(err error) {
	i.status = StatusFailed
	i.err = err
	i.Emit(Signal{Kind: ItemStatusChanged, Status: StatusFailed})
}

// Verify MockItem implements Item at compile time.
var _ Item = (*MockItem)(nil)
