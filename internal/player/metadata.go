package player

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
	"github.com/go-flac/flacvorbis"
	goflac "github.com/go-flac/go-flac"
)

// TrackInfo is the tag metadata of a media file.
type TrackInfo struct {
	Path   string
	Title  string
	Artist string
	Album  string
	Year   int
	Size   int64
}

// ReadTrackInfo reads tag metadata. Files without readable tags still get a
// title from their file name.
func ReadTrackInfo(path string) (*TrackInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info := &TrackInfo{
		Path:  path,
		Title: filepath.Base(path),
	}
	if st, err := f.Stat(); err == nil {
		info.Size = st.Size()
	}

	m, err := tag.ReadFrom(f)
	if err != nil {
		return info, nil //nolint:nilerr // untagged files are fine
	}

	if m.Title() != "" {
		info.Title = m.Title()
	}
	info.Artist = m.Artist()
	if info.Artist == "" {
		info.Artist = m.AlbumArtist()
	}
	info.Album = m.Album()
	info.Year = m.Year()
	return info, nil
}

// AudioLanguage returns the language tag of the audio in path, or "" when
// the file carries none. MP3 files use the ID3 TLAN frame, other formats a
// LANGUAGE comment.
func AudioLanguage(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case extMP3:
		return id3Language(path)
	case extFLAC:
		if lang := flacLanguage(path); lang != "" {
			return lang
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return ""
	}
	for _, key := range []string{"language", "LANGUAGE"} {
		if v, ok := m.Raw()[key].(string); ok {
			return firstLanguage(v)
		}
	}
	return ""
}

func id3Language(path string) string {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true, ParseFrames: []string{"Language"}})
	if err != nil {
		return ""
	}
	defer t.Close()
	return firstLanguage(t.GetTextFrame(t.CommonID("Language")).Text)
}

func flacLanguage(path string) string {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return ""
	}
	return vorbisLanguage(f.Meta)
}

// vorbisLanguage reads LANGUAGE from the first Vorbis comment block.
func vorbisLanguage(blocks []*goflac.MetaDataBlock) string {
	for _, meta := range blocks {
		if meta.Type != goflac.VorbisComment {
			continue
		}
		cmts, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			return ""
		}
		values, err := cmts.Get("LANGUAGE")
		if err != nil || len(values) == 0 {
			return ""
		}
		return firstLanguage(values[0])
	}
	return ""
}

// firstLanguage picks the first code of a multi-valued tag such as "eng/fre".
func firstLanguage(v string) string {
	v = strings.TrimRight(v, "\x00")
	for _, sep := range []string{"/", ";", ",", "\x00"} {
		if before, _, ok := strings.Cut(v, sep); ok {
			v = before
		}
	}
	return strings.TrimSpace(v)
}
