package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/hex/claude-guard/internal/config"
	"github.com/hex/claude-guard/internal/guard"
	"github.com/hex/claude-guard/internal/logger"
	"github.com/hex/claude-guard/internal/protocol"
	"github.com/hex/claude-guard/internal/rules"
	"github.com/hex/claude-guard/internal/scanner"
	"github.com/spf13/cobra"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Hook handler - classify a tool call sent as JSON on stdin",
	Long: `Reads a PreToolUse/PostToolUse hook payload from stdin and responds on
stdout. Bash commands are classified before execution; a deny prints a
permissionDecision JSON response and the command never runs. Write, Edit,
and MultiEdit calls get their target file scanned for credentials after
the write, attaching a warning as additional context.

Silence means allow. Malformed input is allowed through (fail open): the
guard refuses to break the agent loop over its own parse errors.

Setup (in Claude Code settings.json hooks):
  {"type": "command", "command": "claude-guard hook"}`,
	RunE: hookCommand,
}

func init() {
	rootCmd.AddCommand(hookCmd)
}

func hookCommand(cmd *cobra.Command, args []string) error {
	if config.BypassEnabled() {
		return nil
	}

	input, err := protocol.ReadInput(os.Stdin)
	if err != nil {
		// Fail open: a broken payload is the host's bug, not a threat.
		fmt.Fprintf(os.Stderr, "[claude-guard] warning: could not parse hook input: %v\n", err)
		return nil
	}

	switch {
	case input.IsCommandTool():
		return hookCommandTool(input)
	case input.IsWriteTool():
		return hookWriteTool(input)
	default:
		// Unknown tools pass through untouched.
		return nil
	}
}

func hookCommandTool(input protocol.HookInput) error {
	// Fail open applies to host-protocol parse errors only. A config or
	// logger failure degrades logging and overlays, never the verdict:
	// the built-in catalog still decides.
	cfg, catalog, auditLogger, err := loadGuard()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[claude-guard] warning: %v; built-in rules still apply\n", err)
	}
	if auditLogger != nil {
		defer func() {
			_ = auditLogger.Close()
		}()
	}

	pipeline := guard.NewPipeline(catalog, tracerFor(cfg))
	verdict := pipeline.Evaluate(input.ToolInput.Command)

	if auditLogger != nil {
		event := logger.AuditEvent{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Source:    "hook",
			Command:   input.ToolInput.Command,
			Decision:  string(verdict.Decision),
			Tier:      verdict.Tier,
			RuleID:    verdict.RuleID,
			Category:  verdict.Category,
			Message:   verdict.Message,
		}
		if err := auditLogger.Log(event); err != nil {
			fmt.Fprintf(os.Stderr, "[claude-guard] warning: audit log failed: %v\n", err)
		}
	}

	if verdict.Decision != guard.DecisionDeny {
		return nil
	}

	reason := formatDeny(verdict, input.ToolInput.Command)
	data, err := protocol.DenyResponse(reason)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func hookWriteTool(input protocol.HookInput) error {
	path := input.ToolInput.FilePath
	if scanner.ShouldSkip(path) {
		return nil
	}

	warnings := scanner.ScanFile(path)
	if len(warnings) == 0 {
		return nil
	}

	if _, _, auditLogger, err := loadGuard(); err == nil {
		event := logger.AuditEvent{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Source:    "hook",
			FilePath:  path,
			Decision:  "WARN",
			Tier:      3,
			Category:  "file-scan",
			Warnings:  warnings,
		}
		if logErr := auditLogger.Log(event); logErr != nil {
			fmt.Fprintf(os.Stderr, "[claude-guard] warning: audit log failed: %v\n", logErr)
		}
		_ = auditLogger.Close()
	}

	data, err := protocol.WarnResponse(protocol.FormatFileWarning(path, warnings))
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// loadGuard resolves config, builds the catalog with overlays applied, and
// opens the audit log. The returned catalog is always usable: on error it
// holds at least the built-in rules, so callers can keep classifying with
// config or logging degraded.
func loadGuard() (*config.Config, *rules.Catalog, *logger.AuditLogger, error) {
	catalog := rules.NewCatalog()

	cfg, err := config.Load(logPath, explain)
	if err != nil {
		return nil, catalog, nil, fmt.Errorf("config load failed: %w", err)
	}

	infos, err := rules.LoadOverlays(resolvePacksDir(cfg), catalog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[claude-guard] warning: packs load failed: %v\n", err)
	}
	for _, info := range infos {
		if info.Err != nil {
			fmt.Fprintf(os.Stderr, "[claude-guard] warning: pack %s skipped: %v\n", info.Name, info.Err)
		}
	}

	auditLogger, err := logger.New(cfg.LogPath)
	if err != nil {
		return cfg, catalog, nil, fmt.Errorf("logger init failed: %w", err)
	}

	return cfg, catalog, auditLogger, nil
}

func resolvePacksDir(cfg *config.Config) string {
	if packsDir != "" {
		return packsDir
	}
	return cfg.PacksDir
}

func tracerFor(cfg *config.Config) guard.Tracer {
	if cfg == nil {
		if config.ExplainEnabled() {
			return guard.NewWriterTracer(os.Stderr)
		}
		return nil
	}
	if cfg.Explain {
		return guard.NewWriterTracer(os.Stderr)
	}
	return nil
}

func formatDeny(verdict guard.Verdict, command string) string {
	if verdict.Tier == 1 {
		return protocol.FormatTier1(verdict.Message, command)
	}
	return protocol.FormatTier2(verdict.Message, verdict.Alternative, command)
}
