package playerview

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// formatTime renders seconds as m:ss, or h:mm:ss from one hour on.
// Negative and non-finite values render as 0:00.
func formatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// truncate fits s into width cells, ending in an ellipsis when cut.
// Control characters are dropped first.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return runewidth.Truncate(s, width, "…")
}
