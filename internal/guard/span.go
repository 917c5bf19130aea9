package guard

// SpanTag classifies a region of the normalized command string.
type SpanTag string

const (
	// TagExecutable marks text that will actually run.
	TagExecutable SpanTag = "EXECUTABLE"
	// TagData marks text that is merely quoted data or comment.
	TagData SpanTag = "DATA"
)

// Span is a half-open byte range [Start, End) over the normalized command.
// Spans produced by the classifier partition the string exactly: no gaps,
// no overlaps, union covers the full length.
type Span struct {
	Start int
	End   int
	Tag   SpanTag
}

// Len returns the byte length of the span.
func (s Span) Len() int { return s.End - s.Start }

// Overlaps reports whether two spans share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// overlapsAny reports whether the range [start, end) intersects any span.
func overlapsAny(start, end int, spans []Span) bool {
	probe := Span{Start: start, End: end}
	for _, s := range spans {
		if probe.Overlaps(s) {
			return true
		}
	}
	return false
}

// partition expands a sorted set of DATA spans into a full partition of
// [0, length): every gap between DATA spans becomes an EXECUTABLE span.
func partition(length int, data []Span) []Span {
	var spans []Span
	pos := 0
	for _, d := range data {
		if d.Start > pos {
			spans = append(spans, Span{Start: pos, End: d.Start, Tag: TagExecutable})
		}
		end := d.End
		if end > length {
			end = length
		}
		if end > d.Start {
			spans = append(spans, Span{Start: d.Start, End: end, Tag: TagData})
		}
		pos = end
	}
	if pos < length {
		spans = append(spans, Span{Start: pos, End: length, Tag: TagExecutable})
	}
	return spans
}
