package adapter

import (
	"errors"

	"github.com/llehouerou/demoplayer/internal/engine"
)

// Errors reported by the adapter. Engine failures are wrapped so that
// errors.Is can still match these kinds.
var (
	// ErrUndefined is an unclassified engine failure.
	ErrUndefined = errors.New("undefined playback error")
	// ErrNoStreamURL is returned by Load when the path is not a usable address.
	ErrNoStreamURL = errors.New("no stream url")
	// ErrInvalidTime is reserved for seek-time validation failures.
	ErrInvalidTime = errors.New("invalid time")
	// ErrNoSeekableTimeRanges describes a seek without any seekable range.
	// Seek currently drops such requests silently instead of reporting it.
	ErrNoSeekableTimeRanges = errors.New("no seekable time ranges")
	// ErrStreamInterruption is a connectivity loss surfaced by the engine.
	ErrStreamInterruption = engine.ErrInterrupted
)

// ErrorKind classifies an adapter error.
type ErrorKind int

const (
	KindUndefined ErrorKind = iota
	KindNoStreamURL
	KindInvalidTime
	KindNoSeekableTimeRanges
	KindStreamInterruption
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNoStreamURL:
		return "no_stream_url"
	case KindInvalidTime:
		return "invalid_time"
	case KindNoSeekableTimeRanges:
		return "no_seekable_time_ranges"
	case KindStreamInterruption:
		return "stream_interruption"
	default:
		return "unknown"
	}
}

// KindOf classifies err. Errors that match none of the adapter kinds are
// KindUndefined.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrNoStreamURL):
		return KindNoStreamURL
	case errors.Is(err, ErrInvalidTime):
		return KindInvalidTime
	case errors.Is(err, ErrNoSeekableTimeRanges):
		return KindNoSeekableTimeRanges
	case errors.Is(err, ErrStreamInterruption):
		return KindStreamInterruption
	default:
		return KindUndefined
	}
}
