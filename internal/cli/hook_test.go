package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hex/claude-guard/internal/protocol"
)

// captureStdout collects everything fn prints to stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	_ = w.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read captured stdout: %v", err)
	}
	return string(data)
}

func bashInput(command string) protocol.HookInput {
	return protocol.HookInput{
		ToolName:  "Bash",
		ToolInput: protocol.ToolInput{Command: command},
	}
}

func TestHookDeniesWhenAuditLoggerUnavailable(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	// Occupy the default log path with a directory so the logger cannot open
	// it. The built-in rules must still decide.
	if err := os.MkdirAll(filepath.Join(home, ".claude-guard", "audit.jsonl"), 0700); err != nil {
		t.Fatal(err)
	}

	out := captureStdout(t, func() {
		if err := hookCommandTool(bashInput("rm -rf /")); err != nil {
			t.Errorf("hookCommandTool returned error: %v", err)
		}
	})

	if !strings.Contains(out, `"permissionDecision":"deny"`) {
		t.Errorf("expected deny response despite logger failure, got %q", out)
	}
	if !strings.Contains(out, "Tier 1") {
		t.Errorf("deny response missing tier context: %q", out)
	}
}

func TestHookStaysSilentOnSafeCommandWhenLoggerUnavailable(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if err := os.MkdirAll(filepath.Join(home, ".claude-guard", "audit.jsonl"), 0700); err != nil {
		t.Fatal(err)
	}

	out := captureStdout(t, func() {
		if err := hookCommandTool(bashInput("ls -la")); err != nil {
			t.Errorf("hookCommandTool returned error: %v", err)
		}
	})

	if out != "" {
		t.Errorf("expected silence for a safe command, got %q", out)
	}
}
