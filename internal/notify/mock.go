package notify

import "sync"

// Mock is a test double for Notifier. IDs start at 1.
type Mock struct {
	mu     sync.Mutex
	sent   []Notification
	closed []uint32
	nextID uint32
	err    error
}

// NewMock creates a mock notifier.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Notify(n Notification) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.sent = append(m.sent, n)
	if n.ReplacesID != 0 {
		return n.ReplacesID, nil
	}
	m.nextID++
	return m.nextID, nil
}

func (m *Mock) Close(id uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = append(m.closed, id)
	return nil
}

// Test helpers

// SetErr makes later Notify calls fail with err.
func (m *Mock) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Sent returns a copy of the notifications sent so far.
func (m *Mock) Sent() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Notification(nil), m.sent...)
}

// Closed returns the IDs passed to Close.
func (m *Mock) Closed() []uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uint32(nil), m.closed...)
}

// Verify Mock implements Notifier at compile time.
var _ Notifier = (*Mock)(nil)
