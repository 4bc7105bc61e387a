// Package state persists player preferences across runs in SQLite.
package state

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName      = "demoplayer"
	dbFileName   = "state.db"
	saveDebounce = 500 * time.Millisecond
)

type Manager struct {
	db        *sql.DB
	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *Languages
}

// Open opens the state database at path, creating it if needed. An empty
// path means the XDG data directory.
func Open(path string) (*Manager, error) {
	if path == "" {
		var err error
		path, err = getDBPath()
		if err != nil {
			return nil, err
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Manager{db: db}, nil
}

func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	// Flush pending preferences
	if pending != nil {
		_ = saveLanguages(m.db, *pending)
	}

	return m.db.Close()
}

func (m *Manager) GetLanguages() (*Languages, error) {
	m.saveMu.Lock()
	pending := m.pending
	m.saveMu.Unlock()
	if pending != nil {
		l := *pending
		return &l, nil
	}
	return getLanguages(m.db)
}

// SaveLanguages stores the preferred languages. Writes are debounced so that
// cycling through tracks does not hit the disk on every key press.
func (m *Manager) SaveLanguages(langs Languages) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &langs

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(saveDebounce, func() {
		m.saveMu.Lock()
		pending := m.pending
		m.pending = nil
		m.saveMu.Unlock()

		if pending != nil {
			_ = saveLanguages(m.db, *pending)
		}
	})
}

func (m *Manager) GetLastStream() (*StreamState, error) {
	return getLastStream(m.db)
}

func (m *Manager) SaveStream(stream StreamState) error {
	return saveStream(m.db, stream, time.Now())
}

func (m *Manager) RecentStreams(limit int) ([]StreamState, error) {
	return recentStreams(m.db, limit)
}

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
