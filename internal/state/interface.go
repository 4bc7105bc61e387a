package state

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	GetLanguages() (*Languages, error)
	SaveLanguages(langs Languages)
	GetLastStream() (*StreamState, error)
	SaveStream(stream StreamState) error
	RecentStreams(limit int) ([]StreamState, error)
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
