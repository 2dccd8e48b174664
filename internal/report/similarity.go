package report

import (
	"context"
	"math"
	"strings"
)

// SourceMatch is one row of a similarity report: a candidate source and
// how much of its vocabulary the analyzed text shares.
type SourceMatch struct {
	Source      string  `json:"source"`
	Terms       int     `json:"terms"`
	CommonTerms int     `json:"common_terms"`
	Similarity  float64 `json:"similarity"`
	ViewLink    string  `json:"view_link"`
}

// SimilaritySource produces similarity report rows for a text. The
// production deployment plugs in a real comparison backend; StaticSource
// is the demo implementation.
type SimilaritySource interface {
	Matches(ctx context.Context, text string) ([]SourceMatch, error)
}

// StaticSource serves a fixed set of demo rows. It stands in for a
// real comparison backend and must not be mistaken for detection logic.
type StaticSource struct {
	matches []SourceMatch
}

// NewStaticSource creates a static similarity source with demo data.
func NewStaticSource() *StaticSource {
	return &StaticSource{
		matches: []SourceMatch{
			{Source: "https://quantumcloud.com/inovacao.pdf", Terms: 1494, CommonTerms: 129, Similarity: 3.7, ViewLink: "#"},
			{Source: "https://exemplo.com/tecnologia-educacao.pdf", Terms: 999, CommonTerms: 88, Similarity: 2.1, ViewLink: "#"},
			{Source: "https://outroexemplo.com/trabalho-academico.html", Terms: 2000, CommonTerms: 300, Similarity: 10.0, ViewLink: "#"},
		},
	}
}

// Matches returns the demo rows regardless of the text.
func (s *StaticSource) Matches(ctx context.Context, text string) ([]SourceMatch, error) {
	return s.matches, nil
}

// Summarize computes the report totals: the word count of the analyzed
// text and the summed similarity of all matches, rounded to two
// decimal places.
func Summarize(text string, matches []SourceMatch) (totalTerms int, totalSimilarity float64) {
	totalTerms = len(strings.Fields(text))
	for _, m := range matches {
		totalSimilarity += m.Similarity
	}
	totalSimilarity = math.Round(totalSimilarity*100) / 100
	return totalTerms, totalSimilarity
}
