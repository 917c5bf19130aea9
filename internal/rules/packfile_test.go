package rules

import (
	"os"
	"path/filepath"
	"testing"
)

const testPackYAML = `name: homelab
description: Home lab safety rules
version: "1.0"
safe_consumers:
  - jq
rules:
  - id: homelab-nas-wipe
    category: homelab
    tier: tier1
    pattern: 'wipe-nas'
    message: "NAS wipe is not allowed."
  - id: homelab-restart
    category: homelab
    tier: tier2
    pattern: 'systemctl\s+restart\s+plex'
    message: "Restarting plex drops active streams."
    alternative: "Schedule the restart for off-hours."
`

func writePack(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadOverlays_MergesRules(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "homelab.yaml", testPackYAML)

	c := NewCatalog()
	baseTier1 := len(c.Tier1Rules())

	infos, err := LoadOverlays(dir, c)
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 {
		t.Fatalf("expected 1 pack, got %d", len(infos))
	}
	if infos[0].Name != "homelab" || !infos[0].Enabled || infos[0].RuleCount != 2 {
		t.Errorf("unexpected pack info: %+v", infos[0])
	}

	if len(c.Tier1Rules()) != baseTier1+1 {
		t.Errorf("tier 1 rule not merged")
	}
	merged := c.Tier1Rules()[len(c.Tier1Rules())-1]
	if merged.ID != "homelab-nas-wipe" || !merged.Matches("wipe-nas --now") {
		t.Errorf("merged rule broken: %+v", merged)
	}
	if !c.IsSafeConsumer("jq") {
		t.Error("pack safe consumer not merged")
	}
}

func TestLoadOverlays_OverlayRunsAfterBuiltins(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "homelab.yaml", testPackYAML)

	c := NewCatalog()
	if _, err := LoadOverlays(dir, c); err != nil {
		t.Fatal(err)
	}
	last := c.Tier2Rules()[len(c.Tier2Rules())-1]
	if last.ID != "homelab-restart" {
		t.Errorf("overlay rule should sort after built-ins, got %s last", last.ID)
	}
}

func TestLoadOverlays_DisabledPackSkipped(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "_homelab.yaml", testPackYAML)

	c := NewCatalog()
	baseTier1 := len(c.Tier1Rules())

	infos, err := LoadOverlays(dir, c)
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 || infos[0].Enabled {
		t.Fatalf("expected one disabled pack, got %+v", infos)
	}
	if len(c.Tier1Rules()) != baseTier1 {
		t.Error("disabled pack rules were merged")
	}
}

func TestLoadOverlays_BrokenPackReported(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "broken.yaml", "rules: [not: {valid")
	writePack(t, dir, "ok.yaml", testPackYAML)

	c := NewCatalog()
	base := c.Stats().Total

	infos, err := LoadOverlays(dir, c)
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 packs, got %d", len(infos))
	}

	var brokenSeen, okSeen bool
	for _, info := range infos {
		switch info.Name {
		case "broken":
			brokenSeen = true
			if info.Err == nil {
				t.Error("broken pack has no error")
			}
		case "homelab":
			okSeen = true
			if info.Err != nil {
				t.Errorf("valid pack errored: %v", info.Err)
			}
		}
	}
	if !brokenSeen || !okSeen {
		t.Errorf("missing pack infos: %+v", infos)
	}

	if c.Stats().Total != base+2 {
		t.Errorf("expected only the valid pack's 2 rules merged")
	}
}

func TestLoadOverlays_BadTierReported(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "bad.yaml", `name: bad
rules:
  - id: x
    tier: tier9
    pattern: 'x'
`)
	c := NewCatalog()
	infos, err := LoadOverlays(dir, c)
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 || infos[0].Err == nil {
		t.Errorf("expected tier error in pack info, got %+v", infos)
	}
}

func TestLoadOverlays_MissingDir(t *testing.T) {
	c := NewCatalog()
	infos, err := LoadOverlays(filepath.Join(t.TempDir(), "nope"), c)
	if err != nil || infos != nil {
		t.Errorf("missing dir should be a no-op, got %v, %v", infos, err)
	}
}

func TestLoadOverlays_IgnoresNonYAML(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "notes.txt", "not a pack")

	c := NewCatalog()
	infos, err := LoadOverlays(dir, c)
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 0 {
		t.Errorf("non-YAML file loaded as pack: %+v", infos)
	}
}
