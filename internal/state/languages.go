package state

import (
	"database/sql"
	"errors"
	"time"

	"github.com/llehouerou/demoplayer/internal/db"
)

// Languages holds the sticky audio and subtitle language preferences.
// Empty values mean no preference (subtitles off).
type Languages struct {
	Audio    string
	Subtitle string
}

func getLanguages(conn *sql.DB) (*Languages, error) {
	row := conn.QueryRow(`
		SELECT audio_language, subtitle_language FROM preferences WHERE id = 1
	`)

	var audio, subtitle sql.NullString
	err := row.Scan(&audio, &subtitle)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no saved preferences is valid on first run
	}
	if err != nil {
		return nil, err
	}

	return &Languages{
		Audio:    db.NullStringValue(audio),
		Subtitle: db.NullStringValue(subtitle),
	}, nil
}

func saveLanguages(conn *sql.DB, langs Languages) error {
	_, err := conn.Exec(`
		INSERT INTO preferences (id, audio_language, subtitle_language, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			audio_language = excluded.audio_language,
			subtitle_language = excluded.subtitle_language,
			updated_at = excluded.updated_at
	`, db.NullString(langs.Audio), db.NullString(langs.Subtitle), time.Now().Unix())
	return err
}
