// Package mpris exposes the playback adapter over the MPRIS D-Bus interface.
//
// D-Bus calls arrive on the server's goroutines. Every adapter access goes
// through a Controller, which runs it on the adapter's owner goroutine.
package mpris

import (
	"fmt"
	"hash/fnv"
	"net/url"
	"sync"
	"time"

	"github.com/llehouerou/demoplayer/internal/adapter"
	"github.com/llehouerou/demoplayer/internal/player"
)

// noTrack is the MPRIS object path for "nothing loaded".
const noTrack = "/org/mpris/MediaPlayer2/TrackList/NoTrack"

// Controller runs fn on the goroutine that owns the adapter and waits for
// it to return.
type Controller interface {
	Invoke(fn func()) error
}

// ControllerFunc adapts a function to Controller.
type ControllerFunc func(fn func()) error

func (f ControllerFunc) Invoke(fn func()) error { return f(fn) }

// VolumeControl is the optional output level control of the engine.
type VolumeControl interface {
	Volume() float64
	SetVolume(level float64)
}

// Status is the MPRIS playback status.
type Status string

const (
	StatusPlaying Status = "Playing"
	StatusPaused  Status = "Paused"
	StatusStopped Status = "Stopped"
)

// Metadata describes the loaded stream.
type Metadata struct {
	TrackID string
	Length  time.Duration
	Title   string
	Artist  string
	Album   string
	ArtURL  string
}

// Bridge maps MPRIS methods onto adapter commands.
type Bridge struct {
	ctrl   Controller
	player *adapter.Adapter
	volume VolumeControl

	mu    sync.Mutex
	infos map[string]*player.TrackInfo
}

// NewBridge creates a bridge driving p through ctrl. volume may be nil.
func NewBridge(ctrl Controller, p *adapter.Adapter, volume VolumeControl) *Bridge {
	return &Bridge{
		ctrl:   ctrl,
		player: p,
		volume: volume,
		infos:  make(map[string]*player.TrackInfo),
	}
}

// Play resumes the loaded stream. Nothing happens once it was stopped.
func (b *Bridge) Play() error {
	return b.ctrl.Invoke(func() {
		if b.player.State() == adapter.StateUndefined {
			return
		}
		b.player.Resume()
	})
}

func (b *Bridge) Pause() error {
	return b.ctrl.Invoke(b.player.Pause)
}

func (b *Bridge) PlayPause() error {
	return b.ctrl.Invoke(func() {
		if b.player.State() == adapter.StateUndefined {
			return
		}
		b.player.Toggle()
	})
}

func (b *Bridge) Stop() error {
	return b.ctrl.Invoke(b.player.Stop)
}

// Quit asks the host to close the player.
func (b *Bridge) Quit() error {
	return b.ctrl.Invoke(func() { b.player.RequestDismiss(false) })
}

// Seek moves relative to the current position.
func (b *Bridge) Seek(offset time.Duration) error {
	return b.ctrl.Invoke(func() { b.player.SkipBy(offset.Seconds()) })
}

// SetPosition seeks to an absolute position. Requests for another track are
// ignored, as MPRIS requires.
func (b *Bridge) SetPosition(trackID string, pos time.Duration) error {
	return b.ctrl.Invoke(func() {
		if trackID != formatTrackID(b.player.Path()) {
			return
		}
		b.player.Seek(pos.Seconds(), false)
	})
}

// Status derives the MPRIS status from the adapter state and intent.
func (b *Bridge) Status() (Status, error) {
	var st Status
	err := b.ctrl.Invoke(func() {
		st = playbackStatus(b.player.State(), b.player.Intent())
	})
	return st, err
}

func playbackStatus(state adapter.State, intent adapter.Intent) Status {
	switch {
	case state == adapter.StateUndefined || state == adapter.StateFinished:
		return StatusStopped
	case intent == adapter.IntentRunning:
		return StatusPlaying
	default:
		return StatusPaused
	}
}

func (b *Bridge) Position() (time.Duration, error) {
	var secs float64
	err := b.ctrl.Invoke(func() { secs = b.player.PositionSeconds() })
	return time.Duration(secs * float64(time.Second)), err
}

// Metadata describes the loaded stream. Tags are read once per path, off
// the owner goroutine.
func (b *Bridge) Metadata() (Metadata, error) {
	var path string
	var secs float64
	err := b.ctrl.Invoke(func() {
		path = b.player.Path()
		secs = b.player.DurationSeconds()
	})
	if err != nil || path == "" {
		return Metadata{TrackID: noTrack}, err
	}

	meta := Metadata{
		TrackID: formatTrackID(path),
		Length:  time.Duration(secs * float64(time.Second)),
	}

	local := localPath(path)
	if local == "" {
		meta.Title = path
		return meta, nil
	}
	if info := b.trackInfo(local); info != nil {
		meta.Title = info.Title
		meta.Artist = info.Artist
		meta.Album = info.Album
	}
	if art := FindArt(local); art != "" {
		meta.ArtURL = (&url.URL{Scheme: "file", Path: art}).String()
	}
	return meta, nil
}

func (b *Bridge) Volume() (float64, error) {
	if b.volume == nil {
		return 1, nil
	}
	var level float64
	err := b.ctrl.Invoke(func() { level = b.volume.Volume() })
	return level, err
}

func (b *Bridge) SetVolume(level float64) error {
	if b.volume == nil {
		return nil
	}
	return b.ctrl.Invoke(func() { b.volume.SetVolume(level) })
}

// CanPlay reports whether something is loaded.
func (b *Bridge) CanPlay() (bool, error) {
	var ok bool
	err := b.ctrl.Invoke(func() { ok = b.player.State() != adapter.StateUndefined })
	return ok, err
}

func (b *Bridge) trackInfo(path string) *player.TrackInfo {
	b.mu.Lock()
	info, ok := b.infos[path]
	b.mu.Unlock()
	if ok {
		return info
	}

	info, err := player.ReadTrackInfo(path)
	if err != nil {
		info = nil
	}
	b.mu.Lock()
	b.infos[path] = info
	b.mu.Unlock()
	return info
}

// localPath returns the file path behind a Load address, or "" for remote
// streams.
func localPath(path string) string {
	u, err := url.Parse(path)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain paths; a single-letter scheme is a Windows drive.
		return path
	}
	if u.Scheme == "file" {
		return u.Path
	}
	return ""
}

func formatTrackID(path string) string {
	if path == "" {
		return noTrack
	}
	h := fnv.New64a()
	h.Write([]byte(path))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
