package adapter

import (
	"go.uber.org/zap"

	"github.com/llehouerou/demoplayer/internal/engine"
)

// transition is the outcome of reducing one engine signal.
type transition struct {
	state      State
	intent     Intent
	reachedEnd bool
}

// reduce computes the state and intent that follow sig. It has no side
// effects; handleSignal applies the result.
func reduce(st State, in Intent, sig engine.Signal) transition {
	t := transition{state: st, intent: in}

	switch sig.Kind {
	case engine.ItemStatusChanged:
		if st == StateSeeking {
			return t
		}
		switch sig.Status {
		case engine.StatusReadyToPlay:
			t.state = StateReadyToPlay
		case engine.StatusFailed:
			t.state = StateFailed
		case engine.StatusUnknown:
		}

	case engine.BufferEmptied:
		if st != StateSeeking {
			t.state = StateLoading
		}

	case engine.BufferLikelyToKeepUp:
		if st != StateSeeking {
			t.state = StateReadyToPlay
		}

	case engine.RateChanged:
		// The engine pauses itself while seeking; that must not read as a
		// user pause.
		if in == IntentSuspended || st == StateSeeking {
			return t
		}
		if sig.Rate == 0 {
			t.intent = IntentPaused
		} else {
			t.intent = IntentRunning
		}

	case engine.ItemReachedEnd:
		t.state = StateFinished
		t.reachedEnd = true
	}

	return t
}

// handleSignal is the single entry point for engine notifications.
func (a *Adapter) handleSignal(sig engine.Signal) {
	if sig.Kind != engine.RateChanged {
		// Item signals queued before the item was replaced are stale.
		if a.item == nil || sig.Item != a.item.ID() {
			a.logger.Debug("dropping stale item signal", zap.Stringer("signal", sig))
			return
		}
	}

	prev := a.state
	t := reduce(a.state, a.intent, sig)

	a.setIntent(t.intent)
	a.setState(t.state)

	switch {
	case t.state == StateFailed && prev != StateFailed:
		a.Suspend()
	case t.reachedEnd:
		a.stopPolling()
		a.observer.OnReachedEnd()
	}
}
