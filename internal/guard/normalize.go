package guard

import (
	"regexp"
	"strings"
)

// Normalized is the canonical form of a raw command string. Text is what the
// rest of the pipeline operates on; the env-wrapper fields record what was
// stripped so the bridge detector can note SSH-command-injection style
// wrapping (GIT_SSH_COMMAND=... git push).
type Normalized struct {
	Raw            string
	Text           string
	EnvWrapped     bool
	EnvAssignments []string
}

var assignmentRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*=`)

// knownBinaries are command names whose path prefix is stripped at command
// position, so /usr/bin/git and git match the same rules.
var knownBinaries = map[string]struct{}{
	"rm": {}, "git": {}, "dd": {}, "fdisk": {}, "chmod": {}, "chown": {},
	"docker": {}, "docker-compose": {}, "kubectl": {}, "helm": {},
	"terraform": {}, "pulumi": {}, "cdk": {},
	"aws": {}, "gcloud": {}, "gsutil": {}, "az": {}, "gh": {},
	"mysql": {}, "psql": {}, "redis-cli": {}, "mongo": {}, "sqlite3": {},
	"bash": {}, "sh": {}, "zsh": {}, "dash": {}, "env": {},
	"python": {}, "python2": {}, "python3": {}, "ruby": {}, "perl": {}, "node": {},
	"curl": {}, "wget": {},
	"echo": {}, "printf": {}, "cat": {}, "grep": {}, "egrep": {}, "fgrep": {},
	"rg": {}, "ag": {}, "sed": {}, "awk": {}, "head": {}, "tail": {},
	"less": {}, "more": {}, "wc": {}, "tee": {}, "sort": {}, "uniq": {},
	"cut": {}, "tr": {}, "xargs": {}, "find": {}, "test": {},
}

// Normalize rewrites a raw command string into its canonical form: trimmed,
// unquoted whitespace collapsed, leading env-wrapper and bare VAR=val
// prefixes removed, and path prefixes stripped from known binaries at
// command position. Total and idempotent; never fails.
//
// Path prefixes are stripped both before and after the env-wrapper pass:
// the first strip turns /usr/bin/env into env so the wrapper is recognized,
// the second handles the binary the wrapper exposed at command position.
func Normalize(raw string) Normalized {
	text := collapseWhitespace(raw)
	text = stripPathPrefixes(text)
	text, wrapped, assignments := stripEnvWrapper(text)
	text = stripPathPrefixes(text)
	return Normalized{
		Raw:            raw,
		Text:           text,
		EnvWrapped:     wrapped,
		EnvAssignments: assignments,
	}
}

// collapseWhitespace reduces runs of spaces and tabs outside quotes to a
// single space and trims the ends. Whitespace inside quotes is preserved.
func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var quote byte
	pendingSpace := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote == '\'':
			b.WriteByte(ch)
			if ch == '\'' {
				quote = 0
			}
		case quote == '"':
			b.WriteByte(ch)
			if ch == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			} else if ch == '"' {
				quote = 0
			}
		case ch == ' ' || ch == '\t':
			pendingSpace = true
		default:
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			if ch == '\'' || ch == '"' {
				quote = ch
			}
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// stripEnvWrapper removes a leading `env VAR=val ...` invocation and leading
// bare VAR=val prefixes, returning the remainder and the assignments seen.
func stripEnvWrapper(text string) (string, bool, []string) {
	tokens := splitFields(text)
	if len(tokens) == 0 {
		return text, false, nil
	}

	idx := 0
	wrapped := false
	var assignments []string

	if tokens[0].text == "env" {
		wrapped = true
		idx = 1
	}
	for idx < len(tokens) && assignmentRe.MatchString(tokens[idx].text) {
		wrapped = true
		assignments = append(assignments, tokens[idx].text)
		idx++
	}

	if !wrapped || idx == 0 {
		return text, false, nil
	}
	if idx >= len(tokens) {
		return "", wrapped, assignments
	}
	return text[tokens[idx].start:], wrapped, assignments
}

// stripPathPrefixes replaces command-position tokens that name a known binary
// through a filesystem path with the bare binary name.
func stripPathPrefixes(text string) string {
	tokens := splitFields(text)
	if len(tokens) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for i, tok := range tokens {
		b.WriteString(text[pos:tok.start])
		if commandPosition(tokens, i) {
			b.WriteString(stripPath(tok.text))
		} else {
			b.WriteString(tok.text)
		}
		pos = tok.end
	}
	b.WriteString(text[pos:])
	return b.String()
}

func stripPath(token string) string {
	if !strings.Contains(token, "/") || strings.HasPrefix(token, "-") {
		return token
	}
	base := token[strings.LastIndexByte(token, '/')+1:]
	if _, ok := knownBinaries[base]; ok {
		return base
	}
	if strings.HasPrefix(base, "mkfs.") {
		return base
	}
	return token
}

// commandPosition reports whether token i starts a command segment: it is the
// first token, or the previous token is (or ends with) a command separator.
func commandPosition(tokens []field, i int) bool {
	if i == 0 {
		return true
	}
	prev := tokens[i-1].text
	switch prev {
	case ";", "|", "||", "&", "&&":
		return true
	}
	return strings.HasSuffix(prev, ";") || strings.HasSuffix(prev, "|") || strings.HasSuffix(prev, "&")
}

type field struct {
	text  string
	start int
	end   int
}

// splitFields splits on unquoted whitespace, keeping byte offsets. Quoted
// regions never split, so VAR='a b' stays one field.
func splitFields(s string) []field {
	var fields []field
	var quote byte
	start := -1
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote == '\'':
			if ch == '\'' {
				quote = 0
			}
		case quote == '"':
			if ch == '\\' {
				i++
			} else if ch == '"' {
				quote = 0
			}
		case ch == ' ' || ch == '\t':
			if start >= 0 {
				fields = append(fields, field{text: s[start:i], start: start, end: i})
				start = -1
			}
		default:
			if ch == '\'' || ch == '"' {
				quote = ch
			}
			if start < 0 {
				start = i
			}
		}
	}
	if start >= 0 {
		fields = append(fields, field{text: s[start:], start: start, end: len(s)})
	}
	return fields
}
