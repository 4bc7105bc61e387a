package engine

import "fmt"

// SignalKind enumerates the engine-originated notifications.
type SignalKind int

const (
	ItemStatusChanged SignalKind = iota
	BufferEmptied
	BufferLikelyToKeepUp
	RateChanged
	ItemReachedEnd
)

// String returns the signal kind name.
func (k SignalKind) String() string {
	switch k {
	case ItemStatusChanged:
		return "ItemStatusChanged"
	case BufferEmptied:
		return "BufferEmptied"
	case BufferLikelyToKeepUp:
		return "BufferLikelyToKeepUp"
	case RateChanged:
		return "RateChanged"
	case ItemReachedEnd:
		return "ItemReachedEnd"
	default:
		return "Unknown"
	}
}

// Signal is a single notification raised by an engine or one of its items.
//
// Which fields are meaningful depends on Kind:
//   - ItemStatusChanged: Item, Status
//   - BufferEmptied, BufferLikelyToKeepUp, ItemReachedEnd: Item
//   - RateChanged: Rate
//
// Engines only raise a signal when the observed value actually changed.
type Signal struct {
	Kind   SignalKind
	Item   ItemID
	Status Status
	Rate   float64
}

func (s Signal) String() string {
	switch s.Kind {
	case ItemStatusChanged:
		return fmt.Sprintf("%s(%s)", s.Kind, s.Status)
	case RateChanged:
		return fmt.Sprintf("%s(%g)", s.Kind, s.Rate)
	default:
		return s.Kind.String()
	}
}
