package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hex/claude-guard/internal/config"
	"github.com/hex/claude-guard/internal/rules"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show claude-guard status — hook, rule catalog, packs, audit log",
	Long: `Check whether claude-guard is active: whether the hook is installed,
how many rules are loaded per tier, which overlay packs are enabled, and
whether the audit log exists.

  claude-guard status`,
	RunE: statusCommand,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(logPath, explain)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("═══════════════════════════════════════════════════════")
	fmt.Println("  claude-guard Status")
	fmt.Println("═══════════════════════════════════════════════════════")
	fmt.Println()

	binPath, err := os.Executable()
	if err != nil {
		binPath = "unknown"
	}
	fmt.Printf("  Binary:    %s (%s)\n", binPath, Version)
	fmt.Printf("  Config:    %s\n", cfg.ConfigDir)
	if config.BypassEnabled() {
		fmt.Printf("  ⚠  %s=1 — guard is DISABLED\n", config.EnvBypass)
	}
	fmt.Println()

	fmt.Println("─── Hook ──────────────────────────────────────────────")
	checkHookInstalled()
	fmt.Println()

	fmt.Println("─── Rule Catalog ──────────────────────────────────────")
	catalog := rules.NewCatalog()
	infos, _ := rules.LoadOverlays(resolvePacksDir(cfg), catalog)
	printCatalogStats(catalog)
	fmt.Println()

	fmt.Println("─── Overlay Packs ─────────────────────────────────────")
	printPackInfos(resolvePacksDir(cfg), infos)
	fmt.Println()

	fmt.Println("─── Audit Log ─────────────────────────────────────────")
	checkAuditLog(cfg.LogPath)
	fmt.Println()

	return nil
}

func checkHookInstalled() {
	settingsPath := filepath.Join(os.Getenv("HOME"), ".claude", "settings.json")
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		fmt.Printf("  ⬚  Hook: not configured (%s not found)\n", settingsPath)
		return
	}
	if strings.Contains(string(data), "claude-guard hook") {
		fmt.Printf("  ✅ Hook: active (%s)\n", settingsPath)
	} else {
		fmt.Printf("  ⬚  Hook: settings.json exists but no claude-guard hook\n")
	}
}

func printCatalogStats(catalog *rules.Catalog) {
	stats := catalog.Stats()
	fmt.Printf("  Rules:          %d total\n", stats.Total)
	fmt.Printf("    allowlist:    %d\n", stats.ByTier["allow"])
	fmt.Printf("    tier 1:       %d\n", stats.ByTier["tier1"])
	fmt.Printf("    tier 2:       %d\n", stats.ByTier["tier2"])
	fmt.Printf("  Safe consumers: %d\n", stats.Consumers)

	categories := make([]string, 0, len(stats.ByCategory))
	for cat := range stats.ByCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	fmt.Printf("  Categories:     %s\n", strings.Join(categories, ", "))
}

func printPackInfos(dir string, infos []rules.PackInfo) {
	if len(infos) == 0 {
		fmt.Printf("  ⬚  No overlay packs (%s)\n", dir)
		return
	}
	for _, info := range infos {
		switch {
		case info.Err != nil:
			fmt.Printf("  ❌ %s: broken, skipped (%v)\n", info.Name, info.Err)
		case !info.Enabled:
			fmt.Printf("  ⬚  %s: disabled\n", info.Name)
		default:
			fmt.Printf("  ✅ %s: %d rule(s)\n", info.Name, info.RuleCount)
		}
	}
}

func checkAuditLog(path string) {
	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("  ⬚  %s (not yet created — will start on first event)\n", path)
		return
	}

	sizeKB := info.Size() / 1024
	if sizeKB == 0 {
		fmt.Printf("  ✅ %s (<1 KB)\n", path)
	} else {
		fmt.Printf("  ✅ %s (%d KB)\n", path, sizeKB)
	}
}
