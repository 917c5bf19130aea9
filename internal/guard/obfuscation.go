package guard

import (
	"fmt"
	"unicode/utf8"
)

// ObfuscationFinding records one character that can make the displayed
// command differ from the matched command, defeating every later stage.
type ObfuscationFinding struct {
	Category  string // "zero-width", "bidi-override", "tag-char", "control-char", "invalid-utf8"
	Position  int    // byte offset in the raw input
	Codepoint string // e.g. "U+200B"
}

// scanObfuscation inspects the raw command for unicode smuggling before any
// normalization runs. Text matching cannot be trusted on input containing
// invisible or direction-overriding characters, so any finding fails closed
// into a Tier 1 deny.
func scanObfuscation(input string) []ObfuscationFinding {
	var findings []ObfuscationFinding
	for i := 0; i < len(input); {
		r, size := utf8.DecodeRuneInString(input[i:])
		if r == utf8.RuneError && size == 1 {
			findings = append(findings, ObfuscationFinding{
				Category:  "invalid-utf8",
				Position:  i,
				Codepoint: fmt.Sprintf("0x%02X", input[i]),
			})
			i++
			continue
		}
		if category := classifyObfuscationRune(r); category != "" {
			findings = append(findings, ObfuscationFinding{
				Category:  category,
				Position:  i,
				Codepoint: fmt.Sprintf("U+%04X", r),
			})
		}
		i += size
	}
	return findings
}

func classifyObfuscationRune(r rune) string {
	switch {
	case isZeroWidth(r):
		return "zero-width"
	case isBidiOverride(r):
		return "bidi-override"
	case isTagChar(r):
		return "tag-char"
	case isUnsafeControl(r):
		return "control-char"
	}
	return ""
}

func isZeroWidth(r rune) bool {
	switch r {
	case 0x200B, 0x200C, 0x200D, 0x2060, 0xFEFF:
		return true
	}
	return false
}

func isBidiOverride(r rune) bool {
	return (r >= 0x202A && r <= 0x202E) || (r >= 0x2066 && r <= 0x2069)
}

func isTagChar(r rune) bool {
	return r >= 0xE0001 && r <= 0xE007F
}

func isUnsafeControl(r rune) bool {
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return r < 0x20 || r == 0x7F || (r >= 0x80 && r <= 0x9F)
}
