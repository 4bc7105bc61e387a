package adapter

// Observer receives adapter events. Methods are called synchronously on the
// goroutine that owns the adapter.
type Observer interface {
	OnStateChanged(from, to State)
	OnIntentChanged(from, to Intent)
	OnError(err error)
	OnReachedEnd()
	OnPositionChanged(seconds float64)
	OnRequestedDismiss(animated bool)
}

// NopObserver ignores every event. Embed it to implement only some methods.
type NopObserver struct{}

func (NopObserver) OnStateChanged(_, _ State) {}

func (NopObserver) OnIntentChanged(_, _ Intent) {}

func (NopObserver) OnError(_ error) {}

func (NopObserver) OnReachedEnd() {}

func (NopObserver) OnPositionChanged(_ float64) {}

func (NopObserver) OnRequestedDismiss(_ bool) {}

// Verify NopObserver implements Observer at compile time.
var _ Observer = NopObserver{}
