package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hex/claude-guard/internal/config"
	"github.com/hex/claude-guard/internal/logger"
	"github.com/spf13/cobra"
)

var (
	logFilterDecision string
	logFilterTier     int
	logLast           int
	logSummary        bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View and filter the audit log",
	Long: `View the claude-guard audit log with filtering and summary options.

Examples:
  claude-guard log                    # Show all entries
  claude-guard log --last 20          # Show last 20 entries
  claude-guard log --decision DENY    # Show only denied commands
  claude-guard log --tier 1           # Show only Tier 1 denies
  claude-guard log --summary          # Show summary statistics`,
	RunE: logCommand,
}

func init() {
	logCmd.Flags().StringVar(&logFilterDecision, "decision", "", "Filter by decision (ALLOW, DENY, WARN)")
	logCmd.Flags().IntVar(&logFilterTier, "tier", 0, "Filter by tier (1, 2, 3)")
	logCmd.Flags().IntVar(&logLast, "last", 0, "Show last N entries")
	logCmd.Flags().BoolVar(&logSummary, "summary", false, "Show summary statistics")
	rootCmd.AddCommand(logCmd)
}

func logCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(logPath, explain)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	events, err := readAuditLog(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}

	if len(events) == 0 {
		fmt.Println("No audit log entries found.")
		return nil
	}

	filtered := filterEvents(events)

	if logLast > 0 && logLast < len(filtered) {
		filtered = filtered[len(filtered)-logLast:]
	}

	if logSummary {
		printLogSummary(events)
		return nil
	}

	printEvents(filtered)
	return nil
}

func readAuditLog(path string) ([]logger.AuditEvent, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var events []logger.AuditEvent
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		var event logger.AuditEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue // skip malformed lines
		}
		events = append(events, event)
	}
	return events, sc.Err()
}

func filterEvents(events []logger.AuditEvent) []logger.AuditEvent {
	if logFilterDecision == "" && logFilterTier == 0 {
		return events
	}

	var filtered []logger.AuditEvent
	for _, e := range events {
		if logFilterDecision != "" && !strings.EqualFold(e.Decision, logFilterDecision) {
			continue
		}
		if logFilterTier != 0 && e.Tier != logFilterTier {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

func printEvents(events []logger.AuditEvent) {
	for _, e := range events {
		ts := formatTimestamp(e.Timestamp)
		icon := decisionIcon(e.Decision)

		subject := e.Command
		if subject == "" {
			subject = e.FilePath
		}
		fmt.Printf("%s %s %s\n", icon, ts, subject)

		if e.RuleID != "" {
			fmt.Printf("     Rule: %s [%s]", e.RuleID, e.Category)
			if e.Tier > 0 {
				fmt.Printf(" tier %d", e.Tier)
			}
			fmt.Println()
		}
		if e.Message != "" {
			fmt.Printf("     Reason: %s\n", e.Message)
		}
		for _, w := range e.Warnings {
			fmt.Printf("     Warning: %s\n", w)
		}
		fmt.Println()
	}
}

func printLogSummary(all []logger.AuditEvent) {
	counts := map[string]int{}
	tierCounts := map[int]int{}
	for _, e := range all {
		counts[e.Decision]++
		if e.Tier > 0 {
			tierCounts[e.Tier]++
		}
	}

	fmt.Println("═══════════════════════════════════════════")
	fmt.Println("  claude-guard Audit Summary")
	fmt.Println("═══════════════════════════════════════════")
	fmt.Printf("  Total events:   %d\n", len(all))
	fmt.Printf("  ALLOW:          %d\n", counts["ALLOW"])
	fmt.Printf("  DENY:           %d\n", counts["DENY"])
	fmt.Printf("  WARN:           %d\n", counts["WARN"])
	fmt.Printf("  Tier 1 denies:  %d\n", tierCounts[1])
	fmt.Printf("  Tier 2 denies:  %d\n", tierCounts[2])
	fmt.Println("═══════════════════════════════════════════")

	if len(all) > 0 {
		fmt.Printf("  First event:    %s\n", formatTimestamp(all[0].Timestamp))
		fmt.Printf("  Last event:     %s\n", formatTimestamp(all[len(all)-1].Timestamp))
	}

	var denied []logger.AuditEvent
	for _, e := range all {
		if e.Decision == "DENY" {
			denied = append(denied, e)
		}
	}
	if len(denied) > 0 {
		fmt.Println()
		fmt.Println("  Denied commands:")
		limit := len(denied)
		if limit > 10 {
			limit = 10
		}
		for _, e := range denied[len(denied)-limit:] {
			fmt.Printf("    %s %s\n", formatTimestamp(e.Timestamp), e.Command)
		}
	}

	fmt.Println()
}

func decisionIcon(decision string) string {
	switch decision {
	case "DENY":
		return "🛑"
	case "WARN":
		return "⚠️"
	case "ALLOW":
		return "✅"
	default:
		return "❓"
	}
}

func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
