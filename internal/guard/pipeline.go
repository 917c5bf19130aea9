// Package guard implements the command decision pipeline: obfuscation scan,
// normalization, execution-bridge detection, context classification, and
// tiered pattern matching with allowlist override. The pipeline is a pure
// function of (command, catalog): stateless, no I/O, safe for concurrent use.
package guard

import (
	"fmt"

	"github.com/hex/claude-guard/internal/rules"
)

// Pipeline classifies one command string per call. The catalog must be fully
// built before the first Evaluate call and is never mutated afterwards.
type Pipeline struct {
	catalog *rules.Catalog
	tracer  Tracer
}

// NewPipeline wires a pipeline to a catalog and an optional tracer.
// A nil tracer disables tracing.
func NewPipeline(catalog *rules.Catalog, tracer Tracer) *Pipeline {
	if tracer == nil {
		tracer = NopTracer
	}
	return &Pipeline{catalog: catalog, tracer: tracer}
}

// Evaluate classifies a raw command string and returns the verdict.
func (p *Pipeline) Evaluate(raw string) Verdict {
	p.tracer.Trace("input", raw)

	if findings := scanObfuscation(raw); len(findings) > 0 {
		f := findings[0]
		p.tracer.Trace("obfuscation", fmt.Sprintf("%s character %s at byte %d", f.Category, f.Codepoint, f.Position))
		return Verdict{
			Decision: DecisionDeny,
			Tier:     1,
			RuleID:   "obfuscation-" + f.Category,
			Category: "obfuscation",
			Message: fmt.Sprintf(
				"Command contains a %s character (%s) that can hide its real content. This will NOT be executed.",
				f.Category, f.Codepoint),
		}
	}

	n := Normalize(raw)
	p.tracer.Trace("normalize", n.Text)
	if n.EnvWrapped {
		p.tracer.Trace("normalize", fmt.Sprintf("stripped env wrapper with %d assignment(s)", len(n.EnvAssignments)))
	}

	bridges := DetectBridges(n)
	p.tracer.Trace("bridge", fmt.Sprintf("%d bridge span(s), pipe-to-shell=%v", len(bridges.Spans), bridges.PipeToShell))
	for _, note := range bridges.Notes {
		p.tracer.Trace("bridge", note)
	}

	if bridges.PipeToShell {
		verdict := pipeToShellVerdict(p.catalog)
		p.tracer.Trace("decide", describeVerdict(verdict))
		return verdict
	}

	effective, spans := Classify(n.Text, bridges.Spans, p.catalog)
	p.tracer.Trace("classify", "effective command: "+effective)
	p.tracer.Trace("classify", fmt.Sprintf("%d span(s), %d data", len(spans), countData(spans)))

	verdict := Decide(effective, p.catalog)
	p.tracer.Trace("decide", describeVerdict(verdict))
	return verdict
}

// pipeToShellVerdict denies a structurally detected pipe into a shell. The
// parser catches shapes the pattern misses (bash -s -- with arguments), so
// the flag short-circuits straight to the Tier 1 rule.
func pipeToShellVerdict(catalog *rules.Catalog) Verdict {
	for i := range catalog.Tier1Rules() {
		r := &catalog.Tier1Rules()[i]
		if r.ID == "shell-pipe-to-shell" {
			return Verdict{Decision: DecisionDeny, Tier: 1, RuleID: r.ID, Category: r.Category, Message: r.Message}
		}
	}
	return Verdict{
		Decision: DecisionDeny,
		Tier:     1,
		RuleID:   "shell-pipe-to-shell",
		Category: "shell",
		Message:  "Piping output to a shell interpreter executes arbitrary code. This will NOT be executed.",
	}
}

func countData(spans []Span) int {
	n := 0
	for _, s := range spans {
		if s.Tag == TagData {
			n++
		}
	}
	return n
}

func describeVerdict(v Verdict) string {
	switch {
	case v.Decision == DecisionAllow && v.RuleID != "":
		return "allowlist match: " + v.RuleID
	case v.Decision == DecisionAllow:
		return "allow (no rule matched)"
	case v.Tier == 1:
		return "tier 1 deny: " + v.RuleID
	default:
		return "tier 2 deny: " + v.RuleID
	}
}
