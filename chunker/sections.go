package chunker

import (
	"regexp"
	"slices"
	"strings"
)

// sectionMarker records a structural boundary found in document text.
type sectionMarker struct {
	pos   int
	label string
}

// Structural markers common in legal and insurance documents. Order matters:
// earlier patterns win when two match at the same position.
var sectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^[ \t]*(?:ARTICLE|Article)[ \t]+(?:[IVXLC]+|\d+)\b`),
	regexp.MustCompile(`(?m)^[ \t]*(?:SECTION|Section|Sec\.)[ \t]+\d+(?:\.\d+)*\b`),
	regexp.MustCompile(`(?m)^[ \t]*(?:CLAUSE|Clause)[ \t]+\d+(?:\.\d+)*\b`),
	regexp.MustCompile(`(?m)^[ \t]*§[ \t]*\d+(?:\.\d+)*`),
	regexp.MustCompile(`(?m)^[ \t]*\d+(?:\.\d+)+[ \t]+\S`),
	regexp.MustCompile(`(?m)^[A-Z][A-Z0-9 ,&/\-]{5,60}$`),
}

// scanSections finds all structural markers in the text, sorted by position.
// At most one marker is kept per position.
func scanSections(text string) []sectionMarker {
	seen := make(map[int]bool)
	var markers []sectionMarker

	for _, pattern := range sectionPatterns {
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			if seen[loc[0]] {
				continue
			}
			seen[loc[0]] = true
			markers = append(markers, sectionMarker{
				pos:   loc[0],
				label: markerLabel(text, loc[0]),
			})
		}
	}

	// Insertion order follows pattern order, not position order
	slices.SortFunc(markers, func(a, b sectionMarker) int {
		return a.pos - b.pos
	})
	return markers
}

// markerLabel extracts a human-readable label for the marker: the heading
// line it starts, trimmed and capped at 60 characters.
func markerLabel(text string, pos int) string {
	end := strings.IndexByte(text[pos:], '\n')
	if end < 0 {
		end = len(text) - pos
	}
	label := strings.TrimSpace(text[pos : pos+end])
	if len(label) > 60 {
		label = strings.TrimSpace(label[:60])
	}
	return label
}

// findMarkerIn returns the position of the marker closest to limit within
// (lo, limit], or -1 when no marker falls inside the window.
func findMarkerIn(markers []sectionMarker, lo, limit int) int {
	best := -1
	for _, m := range markers {
		if m.pos > lo && m.pos <= limit {
			if m.pos > best {
				best = m.pos
			}
		}
		if m.pos > limit {
			break
		}
	}
	return best
}

// labelFor returns the label of the section a chunk ending at end belongs
// to: the last marker starting before end. A heading inside the chunk wins
// over one preceding it. Returns the empty string when the chunk precedes
// all markers.
func labelFor(markers []sectionMarker, end int) string {
	label := ""
	for _, m := range markers {
		if m.pos >= end {
			break
		}
		label = m.label
	}
	return label
}
