package rules

import "testing"

func TestNewCatalog_Stats(t *testing.T) {
	c := NewCatalog()
	stats := c.Stats()

	if stats.Total == 0 {
		t.Fatal("catalog is empty")
	}
	if stats.ByTier["tier1"] == 0 || stats.ByTier["tier2"] == 0 || stats.ByTier["allow"] == 0 {
		t.Errorf("expected rules in every tier, got %v", stats.ByTier)
	}
	if stats.Consumers == 0 {
		t.Error("expected a non-empty safe-consumer table")
	}
	for _, category := range []string{"git", "filesystem", "database", "cloud", "cicd", "dns", "infra"} {
		if stats.ByCategory[category] == 0 {
			t.Errorf("expected rules in category %s", category)
		}
	}
}

func TestCatalog_UniqueRuleIDs(t *testing.T) {
	c := NewCatalog()
	seen := make(map[string]bool)
	for _, tier := range [][]Rule{c.Allowlist(), c.Tier1Rules(), c.Tier2Rules()} {
		for _, r := range tier {
			if seen[r.ID] {
				t.Errorf("duplicate rule ID %s", r.ID)
			}
			seen[r.ID] = true
			if r.Message == "" && r.Tier != TierAllow {
				t.Errorf("rule %s has no message", r.ID)
			}
		}
	}
}

func TestCatalog_Tier2HasAlternatives(t *testing.T) {
	c := NewCatalog()
	for _, r := range c.Tier2Rules() {
		if r.Alternative == "" {
			t.Errorf("tier 2 rule %s has no alternative", r.ID)
		}
	}
}

func TestCatalog_DeclarationOrderStable(t *testing.T) {
	a := NewCatalog()
	b := NewCatalog()
	if len(a.Tier1Rules()) != len(b.Tier1Rules()) {
		t.Fatal("catalog size differs between builds")
	}
	for i := range a.Tier1Rules() {
		if a.Tier1Rules()[i].ID != b.Tier1Rules()[i].ID {
			t.Fatalf("tier 1 order differs at %d: %s vs %s",
				i, a.Tier1Rules()[i].ID, b.Tier1Rules()[i].ID)
		}
	}
}

func TestRule_Matches(t *testing.T) {
	c := NewCatalog()
	if err := c.Add(Rule{
		ID:      "test-rule",
		Tier:    Tier2,
		Pattern: `foo\s+bar`,
		Exclude: `--baz`,
		Message: "m",
	}); err != nil {
		t.Fatal(err)
	}

	added := c.Tier2Rules()[len(c.Tier2Rules())-1]
	if !added.Matches("foo bar") {
		t.Error("pattern did not match")
	}
	if added.Matches("foo bar --baz") {
		t.Error("exclude did not suppress the match")
	}
}

func TestCatalog_AddRejectsBadPattern(t *testing.T) {
	c := NewCatalog()
	if err := c.Add(Rule{ID: "bad", Tier: Tier1, Pattern: `(unclosed`}); err == nil {
		t.Error("expected error for invalid pattern")
	}
	if err := c.Add(Rule{ID: "bad2", Tier: Tier1, Pattern: `ok`, Exclude: `(unclosed`}); err == nil {
		t.Error("expected error for invalid exclude")
	}
}

func TestParseTier(t *testing.T) {
	cases := []struct {
		in   string
		want Tier
		ok   bool
	}{
		{"allow", TierAllow, true},
		{"tier1", Tier1, true},
		{"tier2", Tier2, true},
		{"tier3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseTier(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("ParseTier(%q) = %v, %v", tc.in, got, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("ParseTier(%q): expected error", tc.in)
		}
	}
}

func TestIsSafeConsumer(t *testing.T) {
	c := NewCatalog()
	for _, name := range []string{"echo", "printf", "grep", "tee", "xargs"} {
		if !c.IsSafeConsumer(name) {
			t.Errorf("%s should be a safe consumer", name)
		}
	}
	for _, name := range []string{"bash", "psql", "rm", "eval", ""} {
		if c.IsSafeConsumer(name) {
			t.Errorf("%s should not be a safe consumer", name)
		}
	}
}

func TestIsMessageFlag(t *testing.T) {
	c := NewCatalog()
	if !c.IsMessageFlag("-m") || !c.IsMessageFlag("--message") {
		t.Error("expected -m and --message to be message flags")
	}
	if c.IsMessageFlag("-f") {
		t.Error("-f should not be a message flag")
	}
}
