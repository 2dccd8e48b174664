package highlight

import (
	"sort"
	"strings"
)

// Run is a contiguous piece of the rebuilt document with one style.
type Run struct {
	Text        string `json:"text"`
	Highlighted bool   `json:"highlighted"`
}

// Build reconstructs the original text as an ordered sequence of runs,
// with every matched excerpt in a highlighted run. Excerpts are applied
// longest first so a short excerpt cannot consume the inside of a
// longer one; each is matched at its first occurrence in the remaining
// suffix and excerpts that no longer occur are skipped. The
// concatenation of all run texts always equals the original text.
func Build(text string, excerpts []string) []Run {
	sorted := make([]string, len(excerpts))
	copy(sorted, excerpts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})

	var runs []Run
	remaining := text

	for _, excerpt := range sorted {
		if excerpt == "" {
			continue
		}
		idx := strings.Index(remaining, excerpt)
		if idx < 0 {
			continue
		}
		if idx > 0 {
			runs = append(runs, Run{Text: remaining[:idx]})
		}
		runs = append(runs, Run{Text: excerpt, Highlighted: true})
		remaining = remaining[idx+len(excerpt):]
	}

	if remaining != "" {
		runs = append(runs, Run{Text: remaining})
	}

	return runs
}
