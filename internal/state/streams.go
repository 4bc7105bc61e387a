package state

import (
	"database/sql"
	"errors"
	"time"

	"github.com/llehouerou/demoplayer/internal/db"
)

// maxRecentStreams bounds the recent_streams table.
const maxRecentStreams = 20

// StreamState is a previously opened stream and where playback stopped.
type StreamState struct {
	Path     string
	Position float64 // seconds, 0 when unknown
	OpenedAt time.Time
}

func getLastStream(conn *sql.DB) (*StreamState, error) {
	streams, err := recentStreams(conn, 1)
	if err != nil {
		return nil, err
	}
	if len(streams) == 0 {
		return nil, nil //nolint:nilnil // nothing played yet
	}
	return &streams[0], nil
}

func recentStreams(conn *sql.DB, limit int) ([]StreamState, error) {
	if limit <= 0 {
		limit = maxRecentStreams
	}
	rows, err := conn.Query(`
		SELECT path, position, opened_at FROM recent_streams
		ORDER BY opened_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var streams []StreamState
	for rows.Next() {
		var s StreamState
		var position sql.NullFloat64
		var openedAt int64
		if err := rows.Scan(&s.Path, &position, &openedAt); err != nil {
			return nil, err
		}
		s.Position = db.NullFloat64Value(position)
		s.OpenedAt = time.Unix(openedAt, 0)
		streams = append(streams, s)
	}
	return streams, rows.Err()
}

func saveStream(conn *sql.DB, stream StreamState, now time.Time) error {
	if stream.Path == "" {
		return errors.New("stream path is empty")
	}
	var position sql.NullFloat64
	if stream.Position > 0 {
		position = sql.NullFloat64{Float64: stream.Position, Valid: true}
	}

	return db.WithTx(conn, func(tx *sql.Tx) error {
		// Replacing the row moves it to the end of rowid order, which breaks
		// ties between streams opened in the same second.
		if _, err := tx.Exec(`DELETE FROM recent_streams WHERE path = ?`, stream.Path); err != nil {
			return err
		}
		if _, err := tx.Exec(`
			INSERT INTO recent_streams (path, position, opened_at) VALUES (?, ?, ?)
		`, stream.Path, position, now.Unix()); err != nil {
			return err
		}
		_, err := tx.Exec(`
			DELETE FROM recent_streams WHERE path NOT IN (
				SELECT path FROM recent_streams ORDER BY opened_at DESC, rowid DESC LIMIT ?
			)
		`, maxRecentStreams)
		return err
	})
}
