package notes

import "strings"

// PlaceholderToken delimits an unfilled template span in note text. Tokens
// come in pairs; a span runs from one token to the next.
const PlaceholderToken = "***"

// ContainsPlaceholder reports whether content has any unresolved placeholder
// marker. Notes with unresolved markers cannot be signed.
func ContainsPlaceholder(content string) bool {
	return strings.Contains(content, PlaceholderToken)
}

// LocatePlaceholders returns the start offset of every non-overlapping
// occurrence of the placeholder token, left to right.
func LocatePlaceholders(content string) []int {
	var offsets []int
	for i := 0; ; {
		j := strings.Index(content[i:], PlaceholderToken)
		if j < 0 {
			break
		}
		offsets = append(offsets, i+j)
		i += j + len(PlaceholderToken)
	}
	return offsets
}

// PlaceholderCount returns the number of complete placeholder pairs. An odd
// trailing marker is tolerated and floors out of the count.
func PlaceholderCount(content string) int {
	return len(LocatePlaceholders(content)) / 2
}

// PlaceholderSpan is a selectable region for placeholder navigation.
type PlaceholderSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NextPlaceholder returns the span to select when jumping from cursor to the
// next placeholder: the first marker strictly after the cursor, wrapping to
// the first marker in the buffer when none follows. The span extends through
// the closing marker, or covers just the opening token when the pair is
// unterminated. Returns false when content has no markers.
func NextPlaceholder(content string, cursor int) (PlaceholderSpan, bool) {
	offsets := LocatePlaceholders(content)
	if len(offsets) == 0 {
		return PlaceholderSpan{}, false
	}

	idx := 0
	for i, off := range offsets {
		if off > cursor {
			idx = i
			break
		}
		if i == len(offsets)-1 {
			idx = 0 // wrap
		}
	}

	span := PlaceholderSpan{Start: offsets[idx], End: offsets[idx] + len(PlaceholderToken)}
	if idx+1 < len(offsets) {
		span.End = offsets[idx+1] + len(PlaceholderToken)
	}
	return span, true
}
