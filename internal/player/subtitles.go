package player

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Sidecar is a subtitle file stored next to a media file, named
// <base>.<lang>[.forced].<srt|vtt>.
type Sidecar struct {
	Path     string
	Language string // empty when the name carries no language
	Forced   bool
}

var subtitleExts = []string{".srt", ".vtt"}

// FindSidecars lists the subtitle files that belong to mediaPath, sorted by
// file name.
func FindSidecars(mediaPath string) []Sidecar {
	dir := filepath.Dir(mediaPath)
	base := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var found []Sidecar
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if !slices.Contains(subtitleExts, strings.ToLower(ext)) {
			continue
		}
		stem := strings.TrimSuffix(name, ext)

		var sc Sidecar
		switch {
		case stem == base:
		case strings.HasPrefix(stem, base+"."):
			sc = parseSidecarSuffix(stem[len(base)+1:])
		default:
			continue
		}
		sc.Path = filepath.Join(dir, name)
		found = append(found, sc)
	}
	return found
}

// parseSidecarSuffix reads "en", "en.forced" or "forced.en".
func parseSidecarSuffix(suffix string) Sidecar {
	var sc Sidecar
	for part := range strings.SplitSeq(suffix, ".") {
		switch {
		case strings.EqualFold(part, "forced"):
			sc.Forced = true
		case sc.Language == "" && part != "":
			sc.Language = part
		}
	}
	return sc
}

// Cue is one timed subtitle entry.
type Cue struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// ReadCueFile parses an SRT or WebVTT file.
func ReadCueFile(path string) ([]Cue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cues, err := ParseCues(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return cues, nil
}

// ParseCues reads SRT and WebVTT cue blocks. Headers, cue identifiers and
// NOTE blocks are skipped; inline markup is removed. Cues are returned in
// start order.
func ParseCues(r io.Reader) ([]Cue, error) {
	var (
		cues []Cue
		cur  *Cue
		text []string
	)
	flush := func() {
		if cur != nil && len(text) > 0 {
			cur.Text = strings.Join(text, "\n")
			cues = append(cues, *cur)
		}
		cur = nil
		text = nil
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		if line == "" {
			flush()
			continue
		}
		if start, end, ok := parseCueTiming(line); ok {
			flush()
			cur = &Cue{Start: start, End: end}
			continue
		}
		if cur != nil {
			if t := stripMarkup(line); t != "" {
				text = append(text, t)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()

	slices.SortStableFunc(cues, func(a, b Cue) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return cues, nil
}

// CueAt returns the text of the latest-starting cue covering at.
func CueAt(cues []Cue, at time.Duration) (string, bool) {
	// Cues are sorted by start: only those before i can cover at.
	i := sort.Search(len(cues), func(i int) bool { return cues[i].Start > at })
	for j := i - 1; j >= 0; j-- {
		if at < cues[j].End {
			return cues[j].Text, true
		}
	}
	return "", false
}

// parseCueTiming reads "00:00:01,000 --> 00:00:04,000" and the WebVTT form
// "00:01.000 --> 00:04.000 line:0", ignoring cue settings.
func parseCueTiming(line string) (start, end time.Duration, ok bool) {
	left, right, found := strings.Cut(line, "-->")
	if !found {
		return 0, 0, false
	}
	fields := strings.Fields(right)
	if len(fields) == 0 {
		return 0, 0, false
	}
	start, ok = parseTimestamp(strings.TrimSpace(left))
	if !ok {
		return 0, 0, false
	}
	end, ok = parseTimestamp(fields[0])
	if !ok || end < start {
		return 0, 0, false
	}
	return start, end, true
}

// parseTimestamp reads [hh:]mm:ss[.,]mmm.
func parseTimestamp(s string) (time.Duration, bool) {
	s = strings.ReplaceAll(s, ",", ".")
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}

	var d time.Duration
	for _, p := range parts[:len(parts)-1] {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, false
		}
		d = d*60 + time.Duration(n)
	}

	secs, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil || secs < 0 || secs >= 60 {
		return 0, false
	}
	return d*60*time.Second + time.Duration(secs*float64(time.Second)).Round(time.Millisecond), true
}

// stripMarkup removes <i>-style tags and {\an8}-style overrides.
func stripMarkup(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '<' || r == '{':
			depth++
		case (r == '>' || r == '}') && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
