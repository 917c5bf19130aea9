package guard

import (
	"github.com/hex/claude-guard/internal/rules"
)

// Decision is the final answer for one command.
type Decision string

const (
	DecisionAllow Decision = "ALLOW"
	DecisionDeny  Decision = "DENY"
)

// Verdict is the outcome of classifying one command. Tier is 0 when no rule
// matched or an allowlist rule matched.
type Verdict struct {
	Decision    Decision
	Tier        int
	RuleID      string
	Category    string
	Message     string
	Alternative string
}

// Decide runs the effective command through the catalog: allowlist first,
// then Tier 1, then Tier 2, first match wins. Within a tier the first rule
// in catalog declaration order wins; the ordering is part of the contract.
func Decide(effective string, catalog *rules.Catalog) Verdict {
	for i := range catalog.Allowlist() {
		r := &catalog.Allowlist()[i]
		if r.Matches(effective) {
			return Verdict{Decision: DecisionAllow, RuleID: r.ID, Category: r.Category}
		}
	}

	for i := range catalog.Tier1Rules() {
		r := &catalog.Tier1Rules()[i]
		if r.Matches(effective) {
			return Verdict{
				Decision: DecisionDeny,
				Tier:     1,
				RuleID:   r.ID,
				Category: r.Category,
				Message:  r.Message,
			}
		}
	}

	for i := range catalog.Tier2Rules() {
		r := &catalog.Tier2Rules()[i]
		if r.Matches(effective) {
			return Verdict{
				Decision:    DecisionDeny,
				Tier:        2,
				RuleID:      r.ID,
				Category:    r.Category,
				Message:     r.Message,
				Alternative: r.Alternative,
			}
		}
	}

	return Verdict{Decision: DecisionAllow}
}
