package diff

import (
	"fmt"

	"github.com/platinummonkey/japicc/pkg/model"
)

// Detector runs the three-pass difference detection between two ingested
// versions and produces a ProblemSet.
type Detector struct {
	V1, V2 *model.Bundle

	// AddedAbstract maps a v2 class name to the short names of abstract
	// methods added to it, for later consumption by type merge.
	AddedAbstract map[string][]string
	// RemovedAbstract maps a v1 class name to the short names of abstract
	// methods removed from it.
	RemovedAbstract map[string][]string

	// ChangedReturnFromVoid holds the canonical ids (in both versions) of
	// methods whose only difference is a void->T return change; these are
	// suppressed from Added/Removed listings in the source report.
	ChangedReturnFromVoid map[string]bool

	problems *ProblemSet
	merger   *typeMerger
}

// NewDetector returns a Detector ready to run against v1 and v2.
func NewDetector(v1, v2 *model.Bundle) *Detector {
	d := &Detector{
		V1:                    v1,
		V2:                    v2,
		AddedAbstract:         make(map[string][]string),
		RemovedAbstract:       make(map[string][]string),
		ChangedReturnFromVoid: make(map[string]bool),
		problems:              NewProblemSet(),
	}
	d.merger = newTypeMerger(d)
	return d
}

// Run executes passes A, B, and C in order and returns the accumulated
// ProblemSet. The receiver's AddedAbstract/RemovedAbstract maps are
// populated as a side effect of pass A/B, and consumed by the merge pass's
// type-merge step.
func (d *Detector) Run() *ProblemSet {
	d.passAddedMethods()
	d.passRemovedMethods()
	d.passMerge()
	return d.problems
}

func classNameOf(b *model.Bundle, m *model.Method) string {
	t := b.TypeByID(m.Class)
	if t == nil {
		return ""
	}
	return t.Name
}

func paramTypeNames(b *model.Bundle, m *model.Method) []string {
	out := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		out[i] = b.Names.Name(p.Type)
	}
	return out
}

func sameParamTypes(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// passAddedMethods implements spec §4.3 Pass A.
func (d *Detector) passAddedMethods() {
	for id, m2 := range d.V2.Methods {
		if _, inV1 := d.V1.Methods[id]; inV1 {
			continue // handled by the merge pass
		}
		if m2.Access == model.AccessPrivate {
			continue
		}
		cls2 := d.V2.TypeByID(m2.Class)
		if cls2 == nil || cls2.Access == model.AccessPrivate {
			continue
		}

		if v1ID, ok := d.findVoidToTypeMatch(m2, cls2); ok {
			d.problems.Add(Problem{
				MethodID: v1ID,
				Kind:     ChangedMethodReturnFromVoid,
				Location: "RetVal",
				TypeName: cls2.Name,
			})
			d.ChangedReturnFromVoid[v1ID] = true
			d.ChangedReturnFromVoid[id] = true
			continue
		}

		if overriddenID, ok := d.overridesPreexistingSuper(m2, cls2); ok {
			d.problems.Add(Problem{
				MethodID: overriddenID,
				Kind:     ClassOverriddenMethod,
				Location: "this",
				TypeName: cls2.Name,
				Target:   cls2.Name,
			})
		} else {
			d.problems.Add(Problem{
				MethodID: id,
				Kind:     AddedMethod,
				Location: "this",
				TypeName: cls2.Name,
			})
		}

		if m2.Abstract && (cls2.Kind == model.KindClass || cls2.Kind == model.KindInterface) {
			d.AddedAbstract[cls2.Name] = append(d.AddedAbstract[cls2.Name], m2.ShortName)
		}
	}
}

// findVoidToTypeMatch looks for a v1 method on the same class with the same
// short name and parameter types, whose return is absent (void) while m2's
// return is present (non-void).
func (d *Detector) findVoidToTypeMatch(m2 *model.Method, cls2 *model.Type) (string, bool) {
	if !m2.HasReturn || m2.Constructor {
		return "", false
	}
	v1cls, ok := d.V1.TypeByName(cls2.Name)
	if !ok {
		return "", false
	}
	params2 := paramTypeNames(d.V2, m2)
	for v1ID, m1 := range d.V1.Methods {
		if m1.ShortName != m2.ShortName || m1.HasReturn || m1.Constructor {
			continue
		}
		if classNameOf(d.V1, m1) != v1cls.Name {
			continue
		}
		if sameParamTypes(paramTypeNames(d.V1, m1), params2) {
			return v1ID, true
		}
	}
	return "", false
}

// overridesPreexistingSuper reports whether m2 overrides a method declared
// in v2 on a supertype of cls2 that already existed (by name) in v1.
func (d *Detector) overridesPreexistingSuper(m2 *model.Method, cls2 *model.Type) (string, bool) {
	for _, super := range d.V2.SuperClassChain(cls2) {
		id, _, ok := d.V2.MethodDeclaredOn(super.Name, m2.ShortName, m2.Descriptor)
		if !ok {
			continue
		}
		if _, existedInV1 := d.V1.TypeByName(super.Name); existedInV1 {
			return id, true
		}
	}
	return "", false
}

// passRemovedMethods implements spec §4.3 Pass B.
func (d *Detector) passRemovedMethods() {
	for id, m1 := range d.V1.Methods {
		if _, inV2 := d.V2.Methods[id]; inV2 {
			continue
		}
		if m1.Access == model.AccessPrivate {
			continue
		}
		cls1 := d.V1.TypeByID(m1.Class)
		if cls1 == nil || cls1.Access == model.AccessPrivate {
			continue
		}
		if d.ChangedReturnFromVoid[id] {
			continue
		}

		if !m1.Abstract && cls1.Kind == model.KindClass {
			if movedID, ok := d.reachableViaV2Hierarchy(m1, cls1); ok {
				d.problems.Add(Problem{
					MethodID: movedID,
					Kind:     ClassMethodMovedUpHierarchy,
					Location: "this",
					TypeName: cls1.Name,
				})
				continue
			}
		}

		d.problems.Add(Problem{
			MethodID: id,
			Kind:     RemovedMethod,
			Location: "this",
			TypeName: cls1.Name,
		})

		if m1.Abstract && (cls1.Kind == model.KindClass || cls1.Kind == model.KindInterface) {
			d.RemovedAbstract[cls1.Name] = append(d.RemovedAbstract[cls1.Name], m1.ShortName)
		}
	}
}

// reachableViaV2Hierarchy reports whether a method matching m1's signature
// is still reachable on cls1's name in v2 via some supertype (i.e. the
// method moved up the hierarchy rather than vanishing).
func (d *Detector) reachableViaV2Hierarchy(m1 *model.Method, cls1 *model.Type) (string, bool) {
	cls2, ok := d.V2.TypeByName(cls1.Name)
	if !ok {
		return "", false
	}
	for _, super := range d.V2.SuperClassChain(cls2) {
		if id, m, ok := d.V2.MethodDeclaredOn(super.Name, m1.ShortName, m1.Descriptor); ok && !m.Abstract {
			return id, true
		}
	}
	return "", false
}

// passMerge implements spec §4.3 Pass C.
func (d *Detector) passMerge() {
	for id, m1 := range d.V1.Methods {
		m2, ok := d.V2.Methods[id]
		if !ok {
			continue
		}
		if m1.Access != model.AccessPublic && m1.Access != model.AccessProtected {
			continue
		}

		cls1 := d.V1.TypeByID(m1.Class)
		cls2 := d.V2.TypeByID(m2.Class)
		if cls1 == nil || cls2 == nil {
			continue
		}

		if !m1.Static && !isExternallyReachable(d.V1, cls1) {
			continue
		}

		d.mergeAttributes(id, m1, m2, cls1)
		d.mergeExceptions(id, m1, m2)
		d.mergeParameters(id, m1, m2)
		d.merger.mergeTypes(m1.Class, m2.Class, id, "this")
		if m1.HasReturn && m2.HasReturn {
			d.merger.mergeTypes(m1.Return, m2.Return, id, "RetVal")
		}
	}
}

// isExternallyReachable approximates "constructible or extensible": the
// class has at least one non-private constructor, or is an interface (which
// has no constructors but is reachable through implementers), or is
// abstract (reachable through subclasses).
func isExternallyReachable(b *model.Bundle, t *model.Type) bool {
	if t.Kind == model.KindInterface || t.Abstract {
		return true
	}
	for _, m := range b.Methods {
		if m.Constructor && m.Access != model.AccessPrivate {
			if b.TypeByID(m.Class) == t {
				return true
			}
		}
	}
	return false
}

func (d *Detector) mergeAttributes(id string, m1, m2 *model.Method, cls1 *model.Type) {
	if m1.Static != m2.Static {
		if m2.Static {
			d.problems.Add(Problem{MethodID: id, Kind: MethodBecameStatic, Location: "this"})
		} else {
			d.problems.Add(Problem{MethodID: id, Kind: MethodBecameNonStatic, Location: "this"})
		}
	}
	if m1.Synchronized != m2.Synchronized {
		if m2.Synchronized {
			d.problems.Add(Problem{MethodID: id, Kind: MethodBecameSynchronized, Location: "this"})
		} else {
			d.problems.Add(Problem{MethodID: id, Kind: MethodBecameNonSynchronized, Location: "this"})
		}
	}
	if !m1.Final && m2.Final {
		if m1.Static {
			d.problems.Add(Problem{MethodID: id, Kind: MethodBecameFinal, Location: "this"})
		} else {
			d.problems.Add(Problem{MethodID: id, Kind: NonAbstractMethodBecameFinal, Location: "this"})
		}
	}
	if accessNarrowed(m1.Access, m2.Access) {
		d.problems.Add(Problem{
			MethodID: id, Kind: ChangedMethodAccess, Location: "this",
			OldValue: m1.Access.String(), NewValue: m2.Access.String(),
		})
	}
	if cls1.Kind == model.KindClass && m1.Abstract != m2.Abstract {
		if m2.Abstract {
			d.problems.Add(Problem{MethodID: id, Kind: ClassMethodBecameAbstract, Location: "this", TypeName: cls1.Name})
		} else {
			d.problems.Add(Problem{MethodID: id, Kind: ClassMethodBecameNonAbstract, Location: "this", TypeName: cls1.Name})
		}
	}
}

func accessRank(a model.Access) int {
	switch a {
	case model.AccessPublic:
		return 3
	case model.AccessProtected:
		return 2
	case model.AccessPackagePrivate:
		return 1
	default:
		return 0
	}
}

func accessNarrowed(oldA, newA model.Access) bool {
	return accessRank(newA) < accessRank(oldA)
}

func (d *Detector) mergeExceptions(id string, m1, m2 *model.Method) {
	excNames := func(b *model.Bundle, m *model.Method) map[string]bool {
		out := make(map[string]bool, len(m.Exceptions))
		for eid := range m.Exceptions {
			out[b.Names.Name(eid)] = true
		}
		return out
	}
	e1 := excNames(d.V1, m1)
	e2 := excNames(d.V2, m2)

	for name := range e2 {
		if e1[name] {
			continue
		}
		if isUnchecked(d.V2, name) {
			if !m1.Abstract && !m2.Abstract {
				d.problems.Add(Problem{MethodID: id, Kind: AddedUncheckedException, Location: "this", Target: name})
			}
			continue
		}
		if m1.Abstract {
			d.problems.Add(Problem{MethodID: id, Kind: AbstractMethodAddedCheckedException, Location: "this", Target: name})
		} else {
			d.problems.Add(Problem{MethodID: id, Kind: NonAbstractMethodAddedCheckedException, Location: "this", Target: name})
		}
	}
	for name := range e1 {
		if e2[name] {
			continue
		}
		if isUnchecked(d.V1, name) {
			if !m1.Abstract && !m2.Abstract {
				d.problems.Add(Problem{MethodID: id, Kind: RemovedUncheckedException, Location: "this", Target: name})
			}
			continue
		}
		if m1.Abstract {
			d.problems.Add(Problem{MethodID: id, Kind: AbstractMethodRemovedCheckedException, Location: "this", Target: name})
		} else {
			d.problems.Add(Problem{MethodID: id, Kind: NonAbstractMethodRemovedCheckedException, Location: "this", Target: name})
		}
	}
}

func (d *Detector) mergeParameters(id string, m1, m2 *model.Method) {
	n := len(m1.Parameters)
	if len(m2.Parameters) < n {
		n = len(m2.Parameters)
	}
	for i := 0; i < n; i++ {
		p1, p2 := m1.Parameters[i], m2.Parameters[i]
		loc := p1.Name
		if loc == "" {
			loc = fmt.Sprintf("arg%d", i)
		}
		d.merger.mergeTypes(p1.Type, p2.Type, id, loc)
	}
}
