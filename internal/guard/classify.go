package guard

import (
	"regexp"
	"sort"
	"strings"
)

// ConsumerTable answers which commands consume their quoted arguments as data
// rather than executing them. The table lives in the rule catalog so it is
// auditable and extensible alongside the deny patterns.
type ConsumerTable interface {
	IsSafeConsumer(name string) bool
	IsMessageFlag(flag string) bool
}

var assignmentTailRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*=$`)

var segmentSeparators = []string{"&&", "||", ";", "|"}

// quotedRegion is one quoted literal in the command, including its quotes.
type quotedRegion struct {
	start      int
	end        int
	terminated bool
}

// Classify partitions the normalized command into DATA and EXECUTABLE spans
// and returns the effective command: the input with every DATA span blanked
// to spaces. Blanking preserves length, so matcher offsets stay valid.
//
// A quoted literal becomes DATA only when its consumer provably treats it as
// data: the enclosing segment's command is on the safe-consumer list, the
// quote follows a message flag or a NAME= assignment, and no bridge span
// overlaps it. Everything ambiguous stays EXECUTABLE.
func Classify(text string, bridges []Span, consumers ConsumerTable) (string, []Span) {
	quoted := findQuotedRegions(text)
	commentStart := findCommentStart(text, quoted)

	var data []Span
	for _, q := range quoted {
		if !q.terminated {
			continue
		}
		if commentStart >= 0 && q.start >= commentStart {
			continue
		}
		if overlapsAny(q.start, q.end, bridges) {
			continue
		}
		// Command substitution inside quotes still executes.
		content := text[q.start:q.end]
		if strings.Contains(content, "$(") || strings.Contains(content, "`") {
			continue
		}
		if isDataConsumerArg(text, q.start, consumers) {
			data = append(data, Span{Start: q.start, End: q.end, Tag: TagData})
		}
	}

	if commentStart >= 0 {
		data = append(data, Span{Start: commentStart, End: len(text), Tag: TagData})
	}

	sort.Slice(data, func(i, j int) bool { return data[i].Start < data[j].Start })
	spans := partition(len(text), data)

	effective := []byte(text)
	for _, s := range spans {
		if s.Tag != TagData {
			continue
		}
		for i := s.Start; i < s.End; i++ {
			effective[i] = ' '
		}
	}
	return string(effective), spans
}

// findQuotedRegions locates every quoted literal. Single quotes end at the
// next single quote with no escaping; double quotes honor backslash escapes.
// A quote with no closing partner runs to end of string, unterminated.
func findQuotedRegions(text string) []quotedRegion {
	var regions []quotedRegion
	i := 0
	for i < len(text) {
		switch text[i] {
		case '\'':
			end := strings.IndexByte(text[i+1:], '\'')
			if end < 0 {
				regions = append(regions, quotedRegion{start: i, end: len(text)})
				return regions
			}
			regions = append(regions, quotedRegion{start: i, end: i + end + 2, terminated: true})
			i += end + 2
		case '"':
			j := i + 1
			closed := false
			for j < len(text) {
				if text[j] == '\\' {
					j += 2
					continue
				}
				if text[j] == '"' {
					closed = true
					break
				}
				j++
			}
			if !closed {
				regions = append(regions, quotedRegion{start: i, end: len(text)})
				return regions
			}
			regions = append(regions, quotedRegion{start: i, end: j + 1, terminated: true})
			i = j + 1
		default:
			i++
		}
	}
	return regions
}

// findCommentStart returns the index of the first # outside quotes, or -1.
func findCommentStart(text string, quoted []quotedRegion) int {
	for i := 0; i < len(text); i++ {
		if text[i] != '#' {
			continue
		}
		inQuote := false
		for _, q := range quoted {
			if q.start <= i && i < q.end {
				inQuote = true
				break
			}
		}
		if !inQuote {
			return i
		}
	}
	return -1
}

// isDataConsumerArg decides whether the quoted literal starting at pos is an
// argument whose consumer treats it as data.
func isDataConsumerArg(text string, pos int, consumers ConsumerTable) bool {
	preceding := strings.TrimRight(text[:pos], " \t")

	if endsWithMessageFlag(preceding, consumers) {
		return true
	}
	if assignmentTailRe.MatchString(preceding) {
		return true
	}

	first := segmentCommand(preceding)
	return first != "" && consumers.IsSafeConsumer(first)
}

func endsWithMessageFlag(preceding string, consumers ConsumerTable) bool {
	i := strings.LastIndexAny(preceding, " \t")
	last := preceding[i+1:]
	return last != "" && consumers.IsMessageFlag(last)
}

// segmentCommand extracts the first word of the current command segment,
// stripped of any path prefix.
func segmentCommand(preceding string) string {
	start := 0
	for _, sep := range segmentSeparators {
		if idx := strings.LastIndex(preceding, sep); idx >= 0 && idx+len(sep) > start {
			start = idx + len(sep)
		}
	}
	segment := strings.TrimSpace(preceding[start:])
	fields := strings.Fields(segment)
	if len(fields) == 0 {
		return ""
	}
	return baseName(fields[0])
}
