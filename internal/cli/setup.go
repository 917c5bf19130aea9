package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"
)

var setupDisable bool

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Install the claude-guard hooks into Claude Code settings",
	Long: `Install or remove the PreToolUse and PostToolUse hooks so every Bash
command and every file write Claude Code makes passes through claude-guard.

  claude-guard setup             # install hooks
  claude-guard setup --disable   # remove hooks`,
	RunE: setupCommand,
}

func init() {
	setupCmd.Flags().BoolVar(&setupDisable, "disable", false, "Remove the claude-guard hooks")
	rootCmd.AddCommand(setupCmd)
}

const hookCommandLine = "claude-guard hook"

// guardHookEntry builds the hook object inserted into settings.json.
func guardHookEntry(matcher string) map[string]interface{} {
	return map[string]interface{}{
		"matcher": matcher,
		"hooks": []interface{}{
			map[string]interface{}{
				"type":    "command",
				"command": hookCommandLine,
			},
		},
	}
}

func setupCommand(cmd *cobra.Command, args []string) error {
	settingsPath := filepath.Join(os.Getenv("HOME"), ".claude", "settings.json")

	if setupDisable {
		return disableHooks(settingsPath)
	}

	fmt.Println("═══════════════════════════════════════════════════════")
	fmt.Println("  claude-guard Setup")
	fmt.Println("═══════════════════════════════════════════════════════")
	fmt.Println()

	binPath, err := exec.LookPath("claude-guard")
	if err != nil {
		fmt.Println("⚠  claude-guard not found in PATH. Install it first:")
		fmt.Println("   go install github.com/hex/claude-guard/cmd/claude-guard@latest")
		return nil
	}
	fmt.Printf("✅ claude-guard found: %s\n", binPath)

	settings, err := readSettings(settingsPath)
	if err != nil {
		return err
	}

	hooks := getOrCreateMap(settings, "hooks")

	changed := false
	if appendHookEntry(hooks, "PreToolUse", "Bash") {
		changed = true
	}
	if appendHookEntry(hooks, "PostToolUse", "Write|Edit|MultiEdit") {
		changed = true
	}
	settings["hooks"] = hooks

	if !changed {
		fmt.Printf("✅ Hooks already configured: %s\n", settingsPath)
		fmt.Println()
		fmt.Println("To disable: claude-guard setup --disable")
		return nil
	}

	if err := writeSettings(settingsPath, settings); err != nil {
		return err
	}

	fmt.Printf("✅ Hooks installed: %s\n", settingsPath)
	fmt.Println()
	fmt.Println("How it works:")
	fmt.Println("  1. Claude Code is about to run a Bash tool call")
	fmt.Println("  2. The PreToolUse hook calls `claude-guard hook`")
	fmt.Println("  3. The command is classified; quoted data never triggers a deny")
	fmt.Println("  4. If denied: Claude Code never runs the command")
	fmt.Println("  5. File writes are scanned for credentials after the fact")
	fmt.Println()
	fmt.Println("To disable: claude-guard setup --disable")
	fmt.Println()
	fmt.Println("Test by asking Claude Code to run: rm -rf /")
	return nil
}

// appendHookEntry adds the guard entry under the named event unless one is
// already present. Returns true when the settings were modified.
func appendHookEntry(hooks map[string]interface{}, event, matcher string) bool {
	entries, _ := hooks[event].([]interface{})
	for _, entry := range entries {
		if isGuardHookEntry(entry) {
			return false
		}
	}
	hooks[event] = append(entries, guardHookEntry(matcher))
	return true
}

func disableHooks(settingsPath string) error {
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		fmt.Println("ℹ  No settings.json found — nothing to disable.")
		return nil
	}

	settings, err := readSettings(settingsPath)
	if err != nil {
		return err
	}

	hooks, ok := settings["hooks"].(map[string]interface{})
	if !ok {
		fmt.Println("ℹ  settings.json has no hooks — nothing to disable.")
		return nil
	}

	removed := false
	for _, event := range []string{"PreToolUse", "PostToolUse"} {
		entries, _ := hooks[event].([]interface{})
		filtered := entries[:0]
		for _, entry := range entries {
			if isGuardHookEntry(entry) {
				removed = true
				continue
			}
			filtered = append(filtered, entry)
		}
		if len(filtered) == 0 {
			delete(hooks, event)
		} else {
			hooks[event] = filtered
		}
	}

	if !removed {
		fmt.Println("ℹ  claude-guard hooks not found in settings — nothing to disable.")
		return nil
	}

	if len(hooks) == 0 {
		delete(settings, "hooks")
	} else {
		settings["hooks"] = hooks
	}

	if err := writeSettings(settingsPath, settings); err != nil {
		return err
	}

	fmt.Printf("✅ claude-guard hooks disabled\n")
	fmt.Printf("   Settings: %s\n", settingsPath)
	fmt.Println()
	fmt.Println("Re-enable anytime with: claude-guard setup")
	return nil
}

func isGuardHookEntry(entry interface{}) bool {
	m, ok := entry.(map[string]interface{})
	if !ok {
		return false
	}
	subHooks, _ := m["hooks"].([]interface{})
	for _, h := range subHooks {
		if hm, ok := h.(map[string]interface{}); ok {
			if hm["command"] == hookCommandLine {
				return true
			}
		}
	}
	return false
}

func readSettings(path string) (map[string]interface{}, error) {
	settings := make(map[string]interface{})
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &settings); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	return settings, nil
}

func writeSettings(path string, settings map[string]interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	out, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func getOrCreateMap(parent map[string]interface{}, key string) map[string]interface{} {
	if v, ok := parent[key].(map[string]interface{}); ok {
		return v
	}
	m := make(map[string]interface{})
	parent[key] = m
	return m
}
