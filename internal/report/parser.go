package report

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Finding lines in the completion follow a fixed textual convention:
// "Trecho: <excerpt>" optionally followed by " - Fonte: <source>".
const (
	marker      = "Trecho"
	markerColon = "Trecho:"
	sourceDelim = "- Fonte:"
)

// Span is a contiguous substring of the analyzed text flagged as
// matching external content, with its attributed source.
type Span struct {
	Excerpt string `json:"excerpt"`
	Source  string `json:"source"`
}

// SourceResolver attributes a source to an excerpt that arrived
// without one. Implementations degrade to a sentinel, never fail.
type SourceResolver interface {
	Resolve(ctx context.Context, excerpt string) string
}

// Parser scans a raw completion line by line, extracting spans and
// rebuilding the display text with sources filled in
type Parser struct {
	resolver SourceResolver
	logger   *log.Logger
}

// NewParser creates a new report parser
func NewParser(resolver SourceResolver, logger *log.Logger) *Parser {
	return &Parser{
		resolver: resolver,
		logger:   logger,
	}
}

// Parse classifies each line of the completion. Finding lines are
// normalized to "Trecho: <excerpt> - Fonte: <source>" and collected as
// spans; a missing source is resolved through the resolver. Malformed
// finding lines and all non-finding lines pass through verbatim —
// per-line best effort, never all-or-nothing.
func (p *Parser) Parse(ctx context.Context, completion string) (string, []Span) {
	lines := strings.Split(strings.ReplaceAll(completion, "\r\n", "\n"), "\n")

	rebuilt := make([]string, 0, len(lines))
	var spans []Span

	for _, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), marker) {
			rebuilt = append(rebuilt, line)
			continue
		}

		idx := strings.Index(line, markerColon)
		if idx < 0 {
			// Starts with the marker but lacks the colon; treat as
			// malformed and keep the line untouched.
			rebuilt = append(rebuilt, line)
			continue
		}

		rest := strings.TrimSpace(line[idx+len(markerColon):])

		var excerpt, source string
		if before, after, found := strings.Cut(rest, sourceDelim); found {
			excerpt = strings.TrimSpace(before)
			source = strings.TrimSpace(after)
		} else {
			excerpt = rest
		}

		if excerpt == "" {
			rebuilt = append(rebuilt, line)
			continue
		}

		if source == "" {
			source = p.resolver.Resolve(ctx, excerpt)
		}

		spans = append(spans, Span{Excerpt: excerpt, Source: source})
		rebuilt = append(rebuilt, fmt.Sprintf("Trecho: %s - Fonte: %s", excerpt, source))
	}

	return strings.Join(rebuilt, "\n"), spans
}
