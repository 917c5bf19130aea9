package config

import (
	"os"
	"path/filepath"
)

const (
	DefaultConfigDir = ".claude-guard"
	DefaultLogFile   = "audit.jsonl"
	PacksDirName     = "packs"

	// EnvExplain enables pipeline tracing on stderr when set to "1".
	EnvExplain = "CLAUDE_GUARD_EXPLAIN"
	// EnvBypass disables the guard entirely when set to "1".
	EnvBypass = "CLAUDE_GUARD_BYPASS"
)

// Config holds the resolved paths and toggles for one invocation.
type Config struct {
	ConfigDir string
	PacksDir  string
	LogPath   string
	Explain   bool
}

// Load resolves the configuration. Explicit paths win over defaults under
// ~/.claude-guard; the explain flag is OR-ed with the environment toggle.
func Load(logPath string, explain bool) (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configDir := filepath.Join(homeDir, DefaultConfigDir)
	if err := ensureDir(configDir); err != nil {
		return nil, err
	}

	cfg := &Config{
		ConfigDir: configDir,
		PacksDir:  filepath.Join(configDir, PacksDirName),
		Explain:   explain || ExplainEnabled(),
	}

	if logPath != "" {
		cfg.LogPath = logPath
	} else {
		cfg.LogPath = filepath.Join(configDir, DefaultLogFile)
	}

	return cfg, nil
}

// ExplainEnabled reports whether the environment requests pipeline tracing.
func ExplainEnabled() bool {
	return os.Getenv(EnvExplain) == "1"
}

// BypassEnabled reports whether the environment disables the guard.
func BypassEnabled() bool {
	return os.Getenv(EnvBypass) == "1"
}

func ensureDir(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, 0700)
	}
	return nil
}
