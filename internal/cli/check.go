package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hex/claude-guard/internal/guard"
	"github.com/hex/claude-guard/internal/logger"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var checkExplain bool

var checkCmd = &cobra.Command{
	Use:   "check [flags] -- <command> [args...]",
	Short: "Classify a command without executing it",
	Long: `Classify a command exactly as the hook would, printing the verdict.
Nothing is executed. Exits 1 when the command would be denied.

Examples:
  claude-guard check -- git push --force
  claude-guard check --explain -- 'echo "rm -rf /" >> notes.md'`,
	RunE: checkCommand,
}

func init() {
	checkCmd.Flags().BoolVar(&checkExplain, "explain", false, "Trace pipeline stages on stderr")
	rootCmd.AddCommand(checkCmd)
}

func checkCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command provided. Usage: claude-guard check -- <command> [args...]")
	}

	cfg, catalog, auditLogger, err := loadGuard()
	if err != nil {
		return err
	}
	defer func() {
		_ = auditLogger.Close()
	}()

	cmdStr := strings.Join(args, " ")

	tracer := tracerFor(cfg)
	if checkExplain {
		tracer = guard.NewWriterTracer(os.Stderr)
	}

	pipeline := guard.NewPipeline(catalog, tracer)
	verdict := pipeline.Evaluate(cmdStr)

	event := logger.AuditEvent{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Source:    "check",
		Command:   cmdStr,
		Decision:  string(verdict.Decision),
		Tier:      verdict.Tier,
		RuleID:    verdict.RuleID,
		Category:  verdict.Category,
		Message:   verdict.Message,
	}
	if err := auditLogger.Log(event); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to write audit log: %v\n", err)
	}

	printVerdict(verdict, cmdStr)

	if verdict.Decision == guard.DecisionDeny {
		os.Exit(1)
	}
	return nil
}

// printVerdict renders the verdict, colorized when stdout is a terminal.
func printVerdict(verdict guard.Verdict, cmdStr string) {
	colored := term.IsTerminal(int(os.Stdout.Fd()))

	if verdict.Decision == guard.DecisionAllow {
		label := "ALLOW"
		if colored {
			label = "\x1b[32mALLOW\x1b[0m"
		}
		if verdict.RuleID != "" {
			fmt.Printf("%s  %s  (allowlist: %s)\n", label, cmdStr, verdict.RuleID)
		} else {
			fmt.Printf("%s  %s\n", label, cmdStr)
		}
		return
	}

	label := fmt.Sprintf("DENY (tier %d)", verdict.Tier)
	if colored {
		label = fmt.Sprintf("\x1b[31mDENY\x1b[0m (tier %d)", verdict.Tier)
	}
	fmt.Printf("%s  %s\n", label, cmdStr)
	fmt.Printf("  Rule:     %s [%s]\n", verdict.RuleID, verdict.Category)
	fmt.Printf("  Reason:   %s\n", verdict.Message)
	if verdict.Alternative != "" {
		fmt.Printf("  Instead:  %s\n", verdict.Alternative)
	}
}
