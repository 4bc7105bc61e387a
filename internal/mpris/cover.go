package mpris

import (
	"os"
	"path/filepath"
	"strings"
)

// artNames lists poster and cover filenames in priority order. A file named
// after the media itself (movie.jpg for movie.mp3) wins over all of them.
var artNames = []string{
	"poster.jpg", "poster.png", "poster.jpeg",
	"cover.jpg", "cover.png", "cover.jpeg",
	"folder.jpg", "folder.png", "folder.jpeg",
}

var artExts = []string{".jpg", ".png", ".jpeg"}

// FindArt looks for artwork in the same directory as the media file.
// Returns the path to the art file, or empty string if not found.
func FindArt(mediaPath string) string {
	dir := filepath.Dir(mediaPath)
	base := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))

	candidates := make([]string, 0, len(artExts)+len(artNames))
	for _, ext := range artExts {
		candidates = append(candidates, base+ext)
	}
	candidates = append(candidates, artNames...)

	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if st, err := os.Stat(path); err == nil && !st.IsDir() {
			return path
		}
	}
	return ""
}
