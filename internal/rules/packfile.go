package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// PackFile is a YAML overlay pack: extra rules layered on top of the
// compiled-in catalog. Overlay rules run after built-ins within their tier,
// so built-in ordering (and its tie-break behavior) is never disturbed.
type PackFile struct {
	Name          string     `yaml:"name"`
	Description   string     `yaml:"description"`
	Version       string     `yaml:"version"`
	Author        string     `yaml:"author"`
	SafeConsumers []string   `yaml:"safe_consumers"`
	Rules         []PackRule `yaml:"rules"`
}

// PackRule is one overlay rule as written in YAML.
type PackRule struct {
	ID          string `yaml:"id"`
	Category    string `yaml:"category"`
	Tier        string `yaml:"tier"`
	Pattern     string `yaml:"pattern"`
	Exclude     string `yaml:"exclude,omitempty"`
	Message     string `yaml:"message"`
	Alternative string `yaml:"alternative,omitempty"`
}

// PackInfo summarizes one overlay pack for listing.
type PackInfo struct {
	Name      string
	Path      string
	Enabled   bool
	RuleCount int
	Err       error
}

// LoadOverlays reads every .yaml/.yml pack from packsDir and merges the
// enabled ones into the catalog. Packs prefixed with an underscore are
// disabled. A broken pack is reported in its PackInfo and skipped; the
// compiled-in rules always remain, so overlay failure never weakens the
// guard below its built-in baseline.
func LoadOverlays(packsDir string, c *Catalog) ([]PackInfo, error) {
	entries, err := os.ReadDir(packsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var infos []PackInfo
	for _, entry := range entries {
		if entry.IsDir() || !isYAMLFile(entry.Name()) {
			continue
		}

		path := filepath.Join(packsDir, entry.Name())
		baseName := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		enabled := !strings.HasPrefix(baseName, "_")

		info := PackInfo{Name: baseName, Path: path, Enabled: enabled}

		pack, err := loadPackFile(path)
		if err != nil {
			info.Err = err
			infos = append(infos, info)
			continue
		}
		if pack.Name != "" {
			info.Name = pack.Name
		}
		info.RuleCount = len(pack.Rules)

		if enabled {
			if err := mergePack(c, pack); err != nil {
				info.Err = err
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func loadPackFile(path string) (*PackFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pack PackFile
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("parse pack %s: %w", path, err)
	}
	return &pack, nil
}

func mergePack(c *Catalog, pack *PackFile) error {
	c.safeConsumers(pack.SafeConsumers...)

	for _, pr := range pack.Rules {
		tier, err := ParseTier(pr.Tier)
		if err != nil {
			return fmt.Errorf("rule %s: %w", pr.ID, err)
		}
		rule := Rule{
			ID:          pr.ID,
			Category:    pr.Category,
			Tier:        tier,
			Pattern:     pr.Pattern,
			Exclude:     pr.Exclude,
			Message:     pr.Message,
			Alternative: pr.Alternative,
		}
		if err := c.Add(rule); err != nil {
			return err
		}
	}
	return nil
}

func isYAMLFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
