package player

import (
	"bytes"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/wav"
)

// writeWAV writes d of silence at rate to a new file.
func writeWAV(t *testing.T, path string, rate beep.SampleRate, d time.Duration) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, generators.Silence(rate.N(d)), format); err != nil {
		t.Fatalf("encoding wav: %v", err)
	}
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"song.mp3", true},
		{"song.MP3", true},
		{"song.flac", true},
		{"song.wav", true},
		{"song.ogg", true},
		{"song.opus", false},
		{"song.m4a", false},
		{"notes.txt", false},
		{"noext", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsSupported(tt.path); got != tt.want {
				t.Errorf("IsSupported(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestOpenStream_WAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWAV(t, path, 22050, 2*time.Second)

	s, err := openStream(path)
	if err != nil {
		t.Fatalf("openStream() error = %v", err)
	}
	defer s.close()

	if s.codec != "WAV" {
		t.Errorf("codec = %q, want WAV", s.codec)
	}
	if s.format.SampleRate != 22050 {
		t.Errorf("sample rate = %d, want 22050", s.format.SampleRate)
	}
	if got := s.duration(); got != 2*time.Second {
		t.Errorf("duration() = %v, want 2s", got)
	}

	if err := s.seek(s.format.SampleRate.N(time.Second)); err != nil {
		t.Fatalf("seek() error = %v", err)
	}
	if got := s.position(); got != time.Second {
		t.Errorf("position() after seek = %v, want 1s", got)
	}

	// Seeks past the end clamp to the last sample.
	if err := s.seek(s.decoder.Len() * 2); err != nil {
		t.Fatalf("seek() past end error = %v", err)
	}
	if got := s.position(); got != 2*time.Second {
		t.Errorf("position() after clamped seek = %v, want 2s", got)
	}
}

func TestOpenStream_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := openStream(filepath.Join(dir, "clip.m4a")); err == nil {
		t.Error("openStream() on unsupported extension should fail")
	}
	if _, err := openStream(filepath.Join(dir, "missing.wav")); err == nil {
		t.Error("openStream() on missing file should fail")
	}

	garbage := filepath.Join(dir, "garbage.flac")
	if err := os.WriteFile(garbage, []byte("definitely not flac"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := openStream(garbage); err == nil {
		t.Error("openStream() on corrupt file should fail")
	}
}

func TestStream_CloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWAV(t, path, 44100, time.Second)

	s, err := openStream(path)
	if err != nil {
		t.Fatalf("openStream() error = %v", err)
	}
	s.close()
	s.close()

	if err := s.seek(0); err != errStreamClosed {
		t.Errorf("seek() after close = %v, want errStreamClosed", err)
	}
	if got := s.position(); got != 0 {
		t.Errorf("position() after close = %v, want 0", got)
	}
}

func TestSkipID3v2(t *testing.T) {
	tag := []byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0, 5}
	payload := []byte("fLaC")

	tests := []struct {
		name    string
		data    []byte
		wantPos int64
	}{
		{"with tag", append(append(append([]byte{}, tag...), 1, 2, 3, 4, 5), payload...), 15},
		{"without tag", append([]byte("fLaC"), make([]byte, 20)...), 0},
		{"short file", []byte("fLa"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bytes.NewReader(tt.data)
			if err := skipID3v2(r); err != nil {
				t.Fatalf("skipID3v2() error = %v", err)
			}
			pos, _ := r.Seek(0, io.SeekCurrent)
			if pos != tt.wantPos {
				t.Errorf("position = %d, want %d", pos, tt.wantPos)
			}
		})
	}
}

func TestSkipID3v2_Empty(t *testing.T) {
	if err := skipID3v2(bytes.NewReader(nil)); err != io.EOF {
		t.Errorf("skipID3v2(empty) = %v, want io.EOF", err)
	}
}

func TestLevelToVolume(t *testing.T) {
	tests := []struct {
		level float64
		want  float64
	}{
		{1, 0},
		{2, 0},
		{0.5, -1},
		{0.25, -2},
		{0, -10},
		{-1, -10},
	}
	for _, tt := range tests {
		if got := levelToVolume(tt.level); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("levelToVolume(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
