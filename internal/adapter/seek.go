package adapter

import (
	"math"

	"go.uber.org/zap"

	"github.com/llehouerou/demoplayer/internal/engine"
)

// seekTolerance is applied before and after the target: seeks are exact.
const seekTolerance = 0

// Seek moves playback to seconds, clamped into the current item's seekable
// range. Without a seekable range the request is dropped.
//
// A continuous seek belongs to a drag gesture: its completion never settles
// the Seeking state. Use CommitSeek when the gesture ends.
func (a *Adapter) Seek(seconds float64, continuous bool) {
	target, ok := a.seekTarget(seconds)
	if !ok {
		a.logger.Debug("seek dropped, no seekable range",
			zap.Float64("seconds", seconds))
		return
	}

	a.setState(StateSeeking)
	a.continuousSeek = continuous
	a.engine.Pause()
	a.stopPolling()

	a.engine.Seek(target, seekTolerance, seekTolerance, func(finished bool) {
		// A newer seek superseded this one, or a drag is still in progress.
		if a.continuousSeek || !finished {
			return
		}
		a.reconcileSeeking()
	})
}

// SkipBy seeks relative to the current position.
func (a *Adapter) SkipBy(deltaSeconds float64) {
	a.Seek(a.PositionSeconds()+deltaSeconds, false)
}

// CommitSeek ends a continuous seek. Polling restarts so that the next tick
// settles the Seeking state once the engine is ready.
func (a *Adapter) CommitSeek() {
	if a.state != StateSeeking || !a.continuousSeek {
		return
	}
	a.continuousSeek = false
	a.startPolling()
}

// reconcileSeeking moves a settled discrete seek back to ReadyToPlay and
// restarts playback unless policy forbids it.
func (a *Adapter) reconcileSeeking() {
	if a.state != StateSeeking || a.continuousSeek {
		return
	}
	item := a.engine.CurrentItem()
	if item == nil ||
		item.Status() != engine.StatusReadyToPlay ||
		a.engine.Status() != engine.StatusReadyToPlay {
		return
	}

	a.setState(StateReadyToPlay)

	if a.engine.Rate() != 0 {
		return
	}
	if a.suspendedByPolicy {
		a.Pause()
	} else {
		a.Resume()
	}
}

// seekTarget clamps seconds into the last seekable range of the current item.
func (a *Adapter) seekTarget(seconds float64) (float64, bool) {
	if math.IsNaN(seconds) {
		return 0, false
	}
	item := a.engine.CurrentItem()
	if item == nil {
		return 0, false
	}
	ranges := item.SeekableRanges()
	if len(ranges) == 0 {
		return 0, false
	}
	r := ranges[len(ranges)-1]
	if math.IsNaN(r.Start) || math.IsNaN(r.End) {
		return 0, false
	}
	return min(max(seconds, r.Start), r.End), true
}
