// Package rules holds the immutable rule catalog: allowlist, Tier 1 (hard
// deny) and Tier 2 (deny + redirect) patterns, plus the safe-consumer table
// the context classifier consults. The catalog is built once at startup from
// the compiled-in packs and optional YAML overlay packs; it is read-only
// afterwards and safe for concurrent readers.
package rules

import (
	"fmt"
	"regexp"
)

// Tier is the severity class of a rule.
type Tier int

const (
	// TierAllow rules force ALLOW even when a deny rule also matches.
	TierAllow Tier = iota
	// Tier1 rules hard-deny with no safe rewrite.
	Tier1
	// Tier2 rules deny and carry a suggested alternative.
	Tier2
)

func (t Tier) String() string {
	switch t {
	case TierAllow:
		return "allow"
	case Tier1:
		return "tier1"
	case Tier2:
		return "tier2"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// ParseTier parses "allow", "tier1" or "tier2".
func ParseTier(s string) (Tier, error) {
	switch s {
	case "allow":
		return TierAllow, nil
	case "tier1":
		return Tier1, nil
	case "tier2":
		return Tier2, nil
	default:
		return 0, fmt.Errorf("unknown tier %q", s)
	}
}

// Rule pairs a match predicate with its metadata. Case policy is part of the
// pattern itself: rules that need it (SQL keywords) carry an inline (?i).
// Exclude is an optional negative guard, standing in for the lookaheads RE2
// does not support: a rule matches only if Pattern matches and Exclude does
// not.
type Rule struct {
	ID          string
	Category    string
	Tier        Tier
	Pattern     string
	Exclude     string
	Message     string
	Alternative string

	re        *regexp.Regexp
	excludeRe *regexp.Regexp
}

// Matches applies the rule's predicate to the effective command.
func (r *Rule) Matches(effective string) bool {
	if !r.re.MatchString(effective) {
		return false
	}
	if r.excludeRe != nil && r.excludeRe.MatchString(effective) {
		return false
	}
	return true
}

// Catalog is the loaded rule set. Rules keep their declaration order within
// each tier; the decision engine's tie-break depends on it.
type Catalog struct {
	allow []Rule
	tier1 []Rule
	tier2 []Rule

	consumers    map[string]struct{}
	messageFlags map[string]struct{}
}

// registerFns lists the compiled-in packs in their fixed load order. An
// explicit list, not discovery: the ordering is part of the contract.
var registerFns = []func(*Catalog){
	registerCore,
	registerCloud,
	registerCICD,
	registerDNS,
	registerInfra,
}

// NewCatalog builds the catalog from the compiled-in packs. An invalid
// built-in pattern panics here, before any classification runs: a corrupt
// catalog must fail startup loudly rather than degrade to allow-all.
func NewCatalog() *Catalog {
	c := &Catalog{
		consumers:    make(map[string]struct{}),
		messageFlags: make(map[string]struct{}),
	}
	for _, register := range registerFns {
		register(c)
	}
	return c
}

func (c *Catalog) allowRule(id, category, pattern string) {
	c.allow = append(c.allow, Rule{
		ID:       id,
		Category: category,
		Tier:     TierAllow,
		Pattern:  pattern,
		re:       regexp.MustCompile(pattern),
	})
}

func (c *Catalog) allowRuleExcept(id, category, pattern, exclude string) {
	c.allow = append(c.allow, Rule{
		ID:        id,
		Category:  category,
		Tier:      TierAllow,
		Pattern:   pattern,
		Exclude:   exclude,
		re:        regexp.MustCompile(pattern),
		excludeRe: regexp.MustCompile(exclude),
	})
}

func (c *Catalog) tier1Rule(id, category, pattern, message string) {
	c.tier1 = append(c.tier1, Rule{
		ID:       id,
		Category: category,
		Tier:     Tier1,
		Pattern:  pattern,
		Message:  message,
		re:       regexp.MustCompile(pattern),
	})
}

func (c *Catalog) tier2Rule(id, category, pattern, message, alternative string) {
	c.tier2 = append(c.tier2, Rule{
		ID:          id,
		Category:    category,
		Tier:        Tier2,
		Pattern:     pattern,
		Message:     message,
		Alternative: alternative,
		re:          regexp.MustCompile(pattern),
	})
}

func (c *Catalog) safeConsumers(names ...string) {
	for _, name := range names {
		c.consumers[name] = struct{}{}
	}
}

func (c *Catalog) messageFlagNames(flags ...string) {
	for _, flag := range flags {
		c.messageFlags[flag] = struct{}{}
	}
}

// Add appends an overlay rule, compiling its patterns. Unlike built-ins this
// returns an error: a bad user pack must not take the guard down.
func (c *Catalog) Add(r Rule) error {
	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		return fmt.Errorf("rule %s: invalid pattern: %w", r.ID, err)
	}
	r.re = re
	if r.Exclude != "" {
		excludeRe, err := regexp.Compile(r.Exclude)
		if err != nil {
			return fmt.Errorf("rule %s: invalid exclude: %w", r.ID, err)
		}
		r.excludeRe = excludeRe
	}
	switch r.Tier {
	case TierAllow:
		c.allow = append(c.allow, r)
	case Tier1:
		c.tier1 = append(c.tier1, r)
	case Tier2:
		c.tier2 = append(c.tier2, r)
	default:
		return fmt.Errorf("rule %s: unknown tier %d", r.ID, r.Tier)
	}
	return nil
}

// Allowlist returns allowlist rules in declaration order.
func (c *Catalog) Allowlist() []Rule { return c.allow }

// Tier1Rules returns hard-deny rules in declaration order.
func (c *Catalog) Tier1Rules() []Rule { return c.tier1 }

// Tier2Rules returns deny-with-alternative rules in declaration order.
func (c *Catalog) Tier2Rules() []Rule { return c.tier2 }

// IsSafeConsumer reports whether the named command consumes its quoted
// arguments as data (echo, grep, ...).
func (c *Catalog) IsSafeConsumer(name string) bool {
	_, ok := c.consumers[name]
	return ok
}

// IsMessageFlag reports whether the flag introduces a message argument
// (-m, --message).
func (c *Catalog) IsMessageFlag(flag string) bool {
	_, ok := c.messageFlags[flag]
	return ok
}

// Stats summarizes the catalog for introspection.
type Stats struct {
	Total      int
	ByTier     map[string]int
	ByCategory map[string]int
	Consumers  int
}

// Stats enumerates rule counts per tier and category without re-deriving
// them from the rule text.
func (c *Catalog) Stats() Stats {
	stats := Stats{
		ByTier:     make(map[string]int),
		ByCategory: make(map[string]int),
		Consumers:  len(c.consumers),
	}
	for _, rules := range [][]Rule{c.allow, c.tier1, c.tier2} {
		for _, r := range rules {
			stats.Total++
			stats.ByTier[r.Tier.String()]++
			stats.ByCategory[r.Category]++
		}
	}
	return stats
}
