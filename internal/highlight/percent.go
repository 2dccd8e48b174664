package highlight

import (
	"math"
	"strings"
)

// Percentage computes the plagiarized-word coverage ratio: 100 times
// the summed word count of all excerpts over the word count of the
// original text, rounded to two decimal places. A text with zero words
// yields 0.0. Overlapping or repeated excerpts double-count; this is an
// accepted approximation.
func Percentage(text string, excerpts []string) float64 {
	totalWords := len(strings.Fields(text))
	if totalWords == 0 {
		return 0.0
	}

	plagWords := 0
	for _, excerpt := range excerpts {
		plagWords += len(strings.Fields(excerpt))
	}

	pct := float64(plagWords) / float64(totalWords) * 100
	return math.Round(pct*100) / 100
}
