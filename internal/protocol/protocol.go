// Package protocol implements the JSON hook I/O spoken with the invoking
// host: tool-call metadata in on stdin, permission decisions out on stdout.
package protocol

import (
	"encoding/json"
	"io"
	"strings"
)

// HookInput is the tool-call metadata the host sends. Only the fields the
// guard dispatches on are decoded; everything else is ignored.
type HookInput struct {
	HookEventName string    `json:"hook_event_name"`
	ToolName      string    `json:"tool_name"`
	ToolInput     ToolInput `json:"tool_input"`
}

// ToolInput carries the per-tool arguments the guard inspects.
type ToolInput struct {
	Command  string `json:"command"`
	FilePath string `json:"file_path"`
}

// IsCommandTool reports whether this tool call carries a shell command to
// classify.
func (in HookInput) IsCommandTool() bool {
	return in.ToolName == "Bash" && in.ToolInput.Command != ""
}

// IsWriteTool reports whether this tool call is a recognized file write.
func (in HookInput) IsWriteTool() bool {
	switch in.ToolName {
	case "Write", "Edit", "MultiEdit":
		return in.ToolInput.FilePath != ""
	}
	return false
}

// ReadInput decodes hook input from the host. A decode failure returns the
// zero input and the error; callers fail open on it.
func ReadInput(r io.Reader) (HookInput, error) {
	var in HookInput
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return HookInput{}, err
	}
	return in, nil
}

type hookSpecificOutput struct {
	HookEventName            string `json:"hookEventName"`
	PermissionDecision       string `json:"permissionDecision,omitempty"`
	PermissionDecisionReason string `json:"permissionDecisionReason,omitempty"`
	AdditionalContext        string `json:"additionalContext,omitempty"`
}

type hookResponse struct {
	HookSpecificOutput hookSpecificOutput `json:"hookSpecificOutput"`
}

// DenyResponse builds the pre-execution deny response: the host must not run
// the command.
func DenyResponse(reason string) ([]byte, error) {
	return json.Marshal(hookResponse{
		HookSpecificOutput: hookSpecificOutput{
			HookEventName:            "PreToolUse",
			PermissionDecision:       "deny",
			PermissionDecisionReason: reason,
		},
	})
}

// WarnResponse builds the post-write advisory response: the write already
// happened, the host just gets extra context.
func WarnResponse(context string) ([]byte, error) {
	return json.Marshal(hookResponse{
		HookSpecificOutput: hookSpecificOutput{
			HookEventName:     "PostToolUse",
			AdditionalContext: context,
		},
	})
}

var separator = strings.Repeat("─", 49)

// FormatTier1 renders a Tier 1 hard-deny message for the host to show.
func FormatTier1(reason, command string) string {
	return "\U0001F534 BLOCKED by claude-guard (Tier 1: Hard Deny)\n\n" +
		"Command: " + command + "\n\n" +
		separator + "\n" +
		reason + "\n" +
		separator + "\n\n" +
		"This command must be run manually by the user if truly needed."
}

// FormatTier2 renders a Tier 2 deny-with-redirect message.
func FormatTier2(reason, alternative, command string) string {
	return "\U0001F6E1️ BLOCKED by claude-guard (Tier 2: Safer Alternative Available)\n\n" +
		"Command: " + command + "\n\n" +
		separator + "\n" +
		reason + "\n" +
		separator + "\n\n" +
		"Alternative: " + alternative
}

// FormatFileWarning renders the Tier 3 advisory attached after a file write.
func FormatFileWarning(path string, warnings []string) string {
	return "CREDENTIAL/SAFETY WARNING in " + path + ":\n" +
		strings.Join(warnings, "\n") + "\n\n" +
		"Review the file and ensure no secrets are committed. " +
		"Use environment variables for sensitive values."
}
