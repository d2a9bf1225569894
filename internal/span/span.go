// Package span defines byte-offset ranges into an immutable text
// and helpers to apply lists of them.
package span

import "strings"

// Span is a half-open byte range [Start, End) into some text.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes the span addresses.
func (s Span) Len() int { return s.End - s.Start }

// Empty reports whether the span addresses no bytes.
func (s Span) Empty() bool { return s.Start >= s.End }

// Text returns the slice of text addressed by the span.
func (s Span) Text(text string) string {
	return text[s.Start:s.End]
}

// Join concatenates, in order, the slices of text
// addressed by the given spans.
//
// For a span list that partitions text, Join returns text unchanged.
func Join(text string, spans []Span) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.Text(text))
	}
	return sb.String()
}
