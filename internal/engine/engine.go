// Package engine defines the contract between the playback adapter and the
// media engine it drives.
//
// The engine is opaque: it owns decoding, buffering and output. The adapter
// only issues commands and observes the engine through Signals. All callbacks
// (signals, seek completions) must be delivered on the goroutine that owns
// the adapter; implementations receive a post function for that purpose.
package engine

import (
	"errors"
	"net/url"

	"github.com/google/uuid"
)

// ErrInterrupted is wrapped into item errors raised when a stream stops
// delivering data in the middle of playback.
var ErrInterrupted = errors.New("stream interrupted")

// ItemID identifies one loaded media resource within an engine.
type ItemID uuid.UUID

// NewItemID returns a fresh random item identity.
func NewItemID() ItemID {
	return ItemID(uuid.New())
}

// String returns the canonical UUID form.
func (id ItemID) String() string {
	return uuid.UUID(id).String()
}

// Status is the readiness reported by an engine or an item.
type Status int

const (
	StatusUnknown Status = iota
	StatusReadyToPlay
	StatusFailed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "Unknown"
	case StatusReadyToPlay:
		return "ReadyToPlay"
	case StatusFailed:
		return "Failed"
	default:
		return "Invalid"
	}
}

// TimeRange is a span of positions in seconds.
type TimeRange struct {
	Start float64
	End   float64
}

// MediaKind selects an option group of an item.
type MediaKind int

const (
	// Audible groups alternative audio renditions.
	Audible MediaKind = iota
	// Legible groups subtitle and caption renditions.
	Legible
)

// String returns the kind name.
func (k MediaKind) String() string {
	if k == Legible {
		return "legible"
	}
	return "audible"
}

// Option is one engine-native entry of a media group.
type Option struct {
	// Locale is a BCP 47 identifier, empty when the engine cannot resolve one.
	Locale      string
	DisplayName string
	Playable    bool
	// ForcedOnly marks subtitle tracks that only carry forced subtitles.
	ForcedOnly bool
}

// Group is an ordered set of mutually exclusive options.
type Group struct {
	Options []Option
}

// Engine is the playback capability the adapter drives.
type Engine interface {
	// NewItem constructs an item for u. Preparation is asynchronous; readiness
	// is reported through the item's signals.
	NewItem(u *url.URL) (Item, error)
	// ReplaceCurrentItem swaps the active item. nil detaches the current one.
	ReplaceCurrentItem(item Item)
	CurrentItem() Item

	Play()
	Pause()
	Rate() float64
	Status() Status
	Err() error

	// Seek moves the current item to target. done is called exactly once; a
	// seek superseded by a newer one completes with finished=false.
	Seek(target, toleranceBefore, toleranceAfter float64, done func(finished bool))

	// ObserveRate subscribes to RateChanged signals until cancel is called.
	ObserveRate(fn func(Signal)) (cancel func())
}

// Item is one loaded media resource.
type Item interface {
	ID() ItemID
	Status() Status
	Err() error
	Duration() (float64, bool)
	Position() (float64, bool)
	SeekableRanges() []TimeRange
	MediaGroup(kind MediaKind) (Group, bool)
	// Select applies the option at groupIndex of the kind's group. -1 clears
	// the selection.
	Select(kind MediaKind, groupIndex int)
	// Observe subscribes to the item's status, buffer and end-of-item
	// signals until cancel is called.
	Observe(fn func(Signal)) (cancel func())
}

// Captioner is implemented by items that render the selected subtitle
// option themselves.
type Captioner interface {
	// CaptionAt returns the subtitle text shown at the given position.
	CaptionAt(seconds float64) (string, bool)
}
