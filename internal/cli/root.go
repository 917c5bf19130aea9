package cli

import (
	"github.com/spf13/cobra"
)

var (
	logPath  string
	packsDir string
	explain  bool
)

var rootCmd = &cobra.Command{
	Use:   "claude-guard",
	Short: "claude-guard - Command safety guard for AI coding agents",
	Long: `claude-guard sits between an AI coding agent and the shell, classifying
every command before it runs. Destructive commands are denied outright
(Tier 1) or redirected to a safer alternative (Tier 2); file writes are
scanned for hardcoded credentials (Tier 3). Quoted data that a command
merely prints or stores is never matched against deny rules.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "Path to audit log file (default: ~/.claude-guard/audit.jsonl)")
	rootCmd.PersistentFlags().StringVar(&packsDir, "packs", "", "Path to overlay packs directory (default: ~/.claude-guard/packs)")
	rootCmd.PersistentFlags().BoolVar(&explain, "explain", false, "Trace pipeline stages on stderr (same as CLAUDE_GUARD_EXPLAIN=1)")
}

func Execute() error {
	return rootCmd.Execute()
}
