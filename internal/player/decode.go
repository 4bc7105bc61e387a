package player

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
	extOGG  = ".ogg"
)

// IsSupported reports whether path has an extension the engine can decode.
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case extMP3, extFLAC, extWAV, extOGG:
		return true
	default:
		return false
	}
}

// stream is a decoded file bound to one item. Fields below decoder are only
// touched with the speaker lock held.
type stream struct {
	file    *os.File
	decoder beep.StreamSeekCloser
	format  beep.Format
	codec   string

	ctrl   *beep.Ctrl
	volume *effects.Volume
	closed bool
}

// openStream opens and decodes path without touching the speaker.
func openStream(path string) (*stream, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsSupported(path) {
		return nil, fmt.Errorf("unsupported format: %s", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var decoder beep.StreamSeekCloser
	var format beep.Format

	switch ext {
	case extMP3:
		decoder, format, err = decodeGoMP3(f)
	case extFLAC:
		// Some taggers prepend ID3v2 to FLAC files, which the decoder rejects.
		if err := skipID3v2(f); err != nil {
			f.Close()
			return nil, err
		}
		decoder, format, err = flac.Decode(f)
	case extWAV:
		decoder, format, err = wav.Decode(f)
	case extOGG:
		decoder, format, err = vorbis.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}

	return &stream{
		file:    f,
		decoder: decoder,
		format:  format,
		codec:   strings.ToUpper(strings.TrimPrefix(ext, ".")),
	}, nil
}

// duration is safe without the lock: Len does not change while decoding.
func (s *stream) duration() time.Duration {
	return s.format.SampleRate.D(s.decoder.Len())
}

func (s *stream) position() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	if s.closed {
		return 0
	}
	return s.format.SampleRate.D(s.decoder.Position())
}

// bind builds the pause and volume controls in front of the decoder.
func (s *stream) bind(paused bool, level float64) {
	var out beep.Streamer = s.decoder
	if speakerSampleRate != 0 && s.format.SampleRate != speakerSampleRate {
		out = beep.Resample(4, s.format.SampleRate, speakerSampleRate, s.decoder)
	}

	speaker.Lock()
	s.ctrl = &beep.Ctrl{Streamer: out, Paused: paused}
	s.volume = &effects.Volume{Streamer: s.ctrl, Base: 2, Volume: levelToVolume(level)}
	speaker.Unlock()
}

// play hands the bound stream to the speaker. onEnd runs on the speaker
// goroutine with the speaker lock held.
func (s *stream) play(onEnd func()) {
	speaker.Play(beep.Seq(s.volume, beep.Callback(onEnd)))
}

// silent reports whether the output is currently silenced.
func (s *stream) silent() bool {
	speaker.Lock()
	defer speaker.Unlock()
	return s.volume != nil && s.volume.Silent
}

func (s *stream) setPaused(paused bool) {
	speaker.Lock()
	defer speaker.Unlock()
	if s.ctrl != nil {
		s.ctrl.Paused = paused
	}
}

func (s *stream) setLevel(level float64) {
	speaker.Lock()
	defer speaker.Unlock()
	if s.volume != nil {
		s.volume.Volume = levelToVolume(level)
	}
}

// seek moves the decoder to sample n with the output silenced. The caller
// restores the output with unsilence once the speaker buffer has drained.
func (s *stream) seek(n int) error {
	speaker.Lock()
	defer speaker.Unlock()
	if s.closed {
		return errStreamClosed
	}
	if s.volume != nil {
		s.volume.Silent = true
	}
	n = min(max(n, 0), s.decoder.Len())
	return s.decoder.Seek(n)
}

func (s *stream) unsilence() {
	speaker.Lock()
	defer speaker.Unlock()
	if s.volume != nil && !s.closed {
		s.volume.Silent = false
	}
}

// err returns the decoder error that ended the stream, if any.
func (s *stream) err() error {
	speaker.Lock()
	defer speaker.Unlock()
	if s.closed {
		return nil
	}
	return s.decoder.Err()
}

func (s *stream) close() {
	speaker.Lock()
	if s.closed {
		speaker.Unlock()
		return
	}
	s.closed = true
	speaker.Unlock()

	s.decoder.Close()
	s.file.Close()
}

// skipID3v2 skips an ID3v2 tag if present at the beginning of the file.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && n == 0 {
		return err
	}
	if n < 10 || string(header[0:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// Syncsafe integer: 7 bits per byte.
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])

	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
