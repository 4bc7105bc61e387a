package adapter

// Resume starts playback and progress polling. While the adapter is
// suspended by policy it pauses instead.
func (a *Adapter) Resume() {
	if a.suspendedByPolicy {
		a.Pause()
		return
	}
	a.setIntent(IntentRunning)
	a.engine.Play()
	a.startPolling()
}

// Pause halts playback on user request.
func (a *Adapter) Pause() {
	a.setIntent(IntentPaused)
	a.engine.Pause()
	a.stopPolling()
}

// Suspend halts playback without a user request, e.g. after an error.
func (a *Adapter) Suspend() {
	a.setIntent(IntentSuspended)
	a.engine.Pause()
	a.stopPolling()
}

// Toggle resumes when halted and pauses when running.
func (a *Adapter) Toggle() {
	if a.intent == IntentRunning {
		a.Pause()
		return
	}
	a.Resume()
}

// startPolling replaces any active poll task with a new one.
func (a *Adapter) startPolling() {
	a.stopPolling()
	gen := a.pollGen
	a.stopPoll = a.scheduler.Every(a.pollInterval, func() {
		// Ticks queued before the task was stopped belong to an old generation.
		if gen != a.pollGen {
			return
		}
		a.tick()
	})
}

func (a *Adapter) stopPolling() {
	a.pollGen++
	if a.stopPoll == nil {
		return
	}
	a.stopPoll()
	a.stopPoll = nil
}

func (a *Adapter) tick() {
	a.reconcileSeeking()
	a.observer.OnPositionChanged(a.PositionSeconds())
}
