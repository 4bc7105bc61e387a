//go:build linux

package mpris

import (
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"go.uber.org/zap"
)

// Server publishes a Bridge as org.mpris.MediaPlayer2.demoplayer.
type Server struct {
	bridge *Bridge
	server *server.Server
}

// New creates and starts the MPRIS server.
func New(bridge *Bridge, logger *zap.Logger) (*Server, error) {
	s := &Server{bridge: bridge}
	s.server = server.NewServer("demoplayer", &rootAdapter{bridge: bridge}, &playerAdapter{bridge: bridge})

	go func() {
		if err := s.server.Listen(); err != nil {
			logger.Warn("mpris server stopped", zap.Error(err))
		}
	}()

	return s, nil
}

// Close stops the server and releases D-Bus resources.
func (s *Server) Close() error {
	return s.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct {
	bridge *Bridge
}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return r.bridge.Quit()
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return true, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "demoplayer", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/wav", "audio/ogg"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	bridge *Bridge
}

func (p *playerAdapter) Next() error {
	return nil // Single stream
}

func (p *playerAdapter) Previous() error {
	return nil // Single stream
}

func (p *playerAdapter) Pause() error {
	return p.bridge.Pause()
}

func (p *playerAdapter) PlayPause() error {
	return p.bridge.PlayPause()
}

func (p *playerAdapter) Stop() error {
	return p.bridge.Stop()
}

func (p *playerAdapter) Play() error {
	return p.bridge.Play()
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	return p.bridge.Seek(time.Duration(offset) * time.Microsecond)
}

func (p *playerAdapter) SetPosition(trackID string, position types.Microseconds) error {
	return p.bridge.SetPosition(trackID, time.Duration(position)*time.Microsecond)
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	st, err := p.bridge.Status()
	if err != nil {
		return types.PlaybackStatusStopped, err
	}
	switch st {
	case StatusPlaying:
		return types.PlaybackStatusPlaying, nil
	case StatusPaused:
		return types.PlaybackStatusPaused, nil
	case StatusStopped:
		return types.PlaybackStatusStopped, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	m, err := p.bridge.Metadata()
	if err != nil {
		return types.Metadata{}, err
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(m.TrackID),
		Length:  types.Microseconds(m.Length.Microseconds()),
		Title:   m.Title,
		Album:   m.Album,
		ArtUrl:  m.ArtURL,
	}
	if m.Artist != "" {
		meta.Artist = []string{m.Artist}
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return p.bridge.Volume()
}

func (p *playerAdapter) SetVolume(level float64) error {
	return p.bridge.SetVolume(level)
}

func (p *playerAdapter) Position() (int64, error) {
	pos, err := p.bridge.Position()
	return pos.Microseconds(), err
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.bridge.CanPlay()
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}
