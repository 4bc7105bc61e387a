package state

import "slices"

// Mock is a test double for Manager.
type Mock struct {
	languages *Languages
	streams   []StreamState
	saves     int
	closed    bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) GetLanguages() (*Languages, error) {
	if m.languages == nil {
		return nil, nil //nolint:nilnil // mirrors Manager on first run
	}
	l := *m.languages
	return &l, nil
}

func (m *Mock) SaveLanguages(langs Languages) {
	m.languages = &langs
	m.saves++
}

func (m *Mock) GetLastStream() (*StreamState, error) {
	if len(m.streams) == 0 {
		return nil, nil //nolint:nilnil // mirrors Manager on first run
	}
	s := m.streams[0]
	return &s, nil
}

func (m *Mock) SaveStream(stream StreamState) error {
	m.streams = slices.DeleteFunc(m.streams, func(s StreamState) bool { return s.Path == stream.Path })
	m.streams = slices.Insert(m.streams, 0, stream)
	return nil
}

func (m *Mock) RecentStreams(limit int) ([]StreamState, error) {
	if limit <= 0 || limit > len(m.streams) {
		limit = len(m.streams)
	}
	return slices.Clone(m.streams[:limit]), nil
}

func (m *Mock) Close() error {
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetLanguages(langs *Languages) { m.languages = langs }

// LanguageSaves returns how many times SaveLanguages was called.
func (m *Mock) LanguageSaves() int { return m.saves }

func (m *Mock) IsClosed() bool { return m.closed }

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
