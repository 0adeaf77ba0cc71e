package classify

import (
	"github.com/platinummonkey/japicc/pkg/diff"
	"github.com/platinummonkey/japicc/pkg/model"
)

// versionFieldNames matches the version-stamp convention that downgrades a
// changed final-field-value problem.
var versionFieldNames = map[string]bool{"VERSION": true, "VERNUM": true}

// Classified pairs a Problem with its resolved severity.
type Classified struct {
	Problem  *diff.Problem
	Severity Severity
}

// Classifier assigns severities to a ProblemSet, applies the
// context-sensitive overrides, and reduces to one maximum severity per
// (type, kind, target) triple.
type Classifier struct {
	Level Level
	// Quick mirrors the CLI's "quick" mode: added-abstract-method
	// downgrades land on Low instead of Safe.
	Quick bool
	V2    *model.Bundle
}

// NewClassifier returns a Classifier for the given level against v2's usage
// tables (needed by the no-caller overrides).
func NewClassifier(level Level, quick bool, v2 *model.Bundle) *Classifier {
	return &Classifier{Level: level, Quick: quick, V2: v2}
}

// Classify assigns and reduces severities for every problem in ps.
func (c *Classifier) Classify(ps *diff.ProblemSet) []Classified {
	var out []Classified
	for _, p := range ps.All() {
		sev := severityFor(c.Level, p.Kind)
		sev = c.applyOverrides(p, sev)
		out = append(out, Classified{Problem: p, Severity: sev})
	}
	return reduceToMaxPerTriple(out)
}

func (c *Classifier) applyOverrides(p *diff.Problem, sev Severity) Severity {
	switch p.Kind {
	case diff.InterfaceAddedAbstractMethod, diff.AbstractClassAddedAbstractMethod:
		if p.AddEffect == "" {
			return c.noCallerFloor()
		}
	case diff.InterfaceAddedSuperInterface, diff.AbstractClassAddedSuperInterface, diff.AbstractClassAddedSuperAbstractClass:
		if _, used := c.V2.AddedInvokedByClass[p.TypeName]; !used {
			return c.noCallerFloor()
		}
	case diff.ChangedFinalFieldValue:
		if versionFieldNames[p.Target] {
			return Low
		}
	}
	return sev
}

func (c *Classifier) noCallerFloor() Severity {
	if c.Quick {
		return Low
	}
	return Safe
}

type triple struct {
	typeName string
	kind     diff.Kind
	target   string
}

// reduceToMaxPerTriple keeps, for each (type, kind, target) triple, only the
// single Classified entry with the highest severity — the final pass that
// avoids counting the same underlying type change once per touching method.
func reduceToMaxPerTriple(in []Classified) []Classified {
	best := make(map[triple]Classified)
	var order []triple
	for _, c := range in {
		key := triple{typeName: c.Problem.TypeName, kind: c.Problem.Kind, target: c.Problem.Target}
		existing, ok := best[key]
		if !ok {
			best[key] = c
			order = append(order, key)
			continue
		}
		if c.Severity > existing.Severity {
			best[key] = c
		}
	}
	out := make([]Classified, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}
