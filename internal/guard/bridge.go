package guard

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// BridgeReport is the bridge detector's output: the byte spans of payloads
// that a downstream interpreter will execute, plus flags for shapes that have
// no extractable payload (pipe-to-shell, unparseable input).
type BridgeReport struct {
	// Spans are EXECUTABLE payload spans over the normalized text. The
	// classifier never tags these DATA, whatever the quoting says.
	Spans []Span
	// PipeToShell is set when command output is piped into a shell.
	PipeToShell bool
	// ParseFailed is set when the shell parser rejected the input. The
	// whole string is then one EXECUTABLE span (fail closed).
	ParseFailed bool
	Notes       []string
}

var bridgeShells = map[string]struct{}{
	"bash": {}, "sh": {}, "zsh": {}, "dash": {}, "ksh": {},
}

var bridgeInterpreters = map[string]struct{}{
	"python": {}, "python2": {}, "python3": {}, "ruby": {}, "perl": {}, "node": {},
}

// envBridgeVars are environment variables whose value is itself a command
// executed by the wrapped program.
var envBridgeVars = map[string]struct{}{
	"GIT_SSH_COMMAND": {}, "GIT_PAGER": {}, "EDITOR": {}, "VISUAL": {},
}

// DetectBridges scans the normalized command for execution bridges: shell -c,
// eval, source, pipe-to-shell, and inline interpreter one-liners. Payload
// spans map byte-for-byte onto n.Text. Anything the parser cannot make sense
// of is reported as one big EXECUTABLE span rather than ignored.
func DetectBridges(n Normalized) BridgeReport {
	var report BridgeReport

	for _, assignment := range n.EnvAssignments {
		name, _, _ := strings.Cut(assignment, "=")
		if _, ok := envBridgeVars[name]; ok {
			report.Notes = append(report.Notes,
				fmt.Sprintf("env wrapper sets %s: its value runs as a command", name))
		}
	}

	if n.Text == "" {
		return report
	}

	parser := syntax.NewParser(syntax.KeepComments(false), syntax.Variant(syntax.LangBash))
	file, err := parser.Parse(strings.NewReader(n.Text), "")
	if err != nil {
		report.ParseFailed = true
		report.Spans = []Span{{Start: 0, End: len(n.Text), Tag: TagExecutable}}
		report.Notes = append(report.Notes, "shell parse failed, treating entire command as executable")
		return report
	}

	for _, stmt := range file.Stmts {
		walkStmt(stmt, &report)
	}
	return report
}

func walkStmt(stmt *syntax.Stmt, report *BridgeReport) {
	if stmt == nil || stmt.Cmd == nil {
		return
	}

	switch cmd := stmt.Cmd.(type) {
	case *syntax.CallExpr:
		inspectCall(cmd, report)

	case *syntax.BinaryCmd:
		if cmd.Op == syntax.Pipe || cmd.Op == syntax.PipeAll {
			if exe := stmtExecutable(cmd.Y); exe != "" {
				if _, ok := bridgeShells[exe]; ok {
					report.PipeToShell = true
					report.Notes = append(report.Notes, "pipe into "+exe+" executes piped output")
				}
			}
		}
		walkStmt(cmd.X, report)
		walkStmt(cmd.Y, report)

	case *syntax.Subshell:
		for _, s := range cmd.Stmts {
			walkStmt(s, report)
		}

	case *syntax.Block:
		for _, s := range cmd.Stmts {
			walkStmt(s, report)
		}
	}
}

// inspectCall marks payload spans for the bridge shapes a simple command can
// take: shell -c, eval, source/., and interpreter -c/-e one-liners.
func inspectCall(call *syntax.CallExpr, report *BridgeReport) {
	if len(call.Args) == 0 {
		return
	}
	exe := baseName(wordLiteral(call.Args[0]))

	switch {
	case exe == "eval" || exe == "source" || exe == ".":
		for _, w := range call.Args[1:] {
			report.Spans = append(report.Spans, wordSpan(w))
		}
		report.Notes = append(report.Notes, exe+" executes its arguments")

	case hasKey(bridgeShells, exe):
		if w := argAfterFlag(call.Args[1:], "-c"); w != nil {
			report.Spans = append(report.Spans, wordSpan(w))
			report.Notes = append(report.Notes, exe+" -c payload is executable")
		}

	case hasKey(bridgeInterpreters, exe):
		for _, flag := range []string{"-c", "-e"} {
			if w := argAfterFlag(call.Args[1:], flag); w != nil {
				report.Spans = append(report.Spans, wordSpan(w))
				report.Notes = append(report.Notes, exe+" "+flag+" inline script is executable")
			}
		}
	}
}

// argAfterFlag returns the first non-flag argument following the given flag,
// or nil if the flag is absent.
func argAfterFlag(args []*syntax.Word, flag string) *syntax.Word {
	seen := false
	for _, w := range args {
		lit := wordLiteral(w)
		if !seen {
			if lit == flag {
				seen = true
			}
			continue
		}
		if strings.HasPrefix(lit, "-") && lit != "-" {
			continue
		}
		return w
	}
	return nil
}

func stmtExecutable(stmt *syntax.Stmt) string {
	if stmt == nil {
		return ""
	}
	call, ok := stmt.Cmd.(*syntax.CallExpr)
	if !ok || len(call.Args) == 0 {
		return ""
	}
	return baseName(wordLiteral(call.Args[0]))
}

// wordLiteral flattens a word's literal and quoted parts into plain text.
// Expansions it cannot resolve contribute nothing.
func wordLiteral(w *syntax.Word) string {
	if w == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range w.Parts {
		writePartLiteral(&b, part)
	}
	return b.String()
}

func writePartLiteral(b *strings.Builder, part syntax.WordPart) {
	switch p := part.(type) {
	case *syntax.Lit:
		b.WriteString(p.Value)
	case *syntax.SglQuoted:
		b.WriteString(p.Value)
	case *syntax.DblQuoted:
		for _, inner := range p.Parts {
			writePartLiteral(b, inner)
		}
	}
}

func wordSpan(w *syntax.Word) Span {
	return Span{
		Start: int(w.Pos().Offset()),
		End:   int(w.End().Offset()),
		Tag:   TagExecutable,
	}
}

func baseName(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func hasKey(m map[string]struct{}, key string) bool {
	_, ok := m[key]
	return ok
}
