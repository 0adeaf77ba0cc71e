package diff

import (
	"github.com/platinummonkey/japicc/pkg/intern"
	"github.com/platinummonkey/japicc/pkg/model"
)

// typeFact is one structural finding produced by computing the merge of a
// single (v1, v2) type pair, independent of which method's signature led to
// the comparison. subPath, when non-empty, is appended (dot-joined) to
// whatever location the caller attributes the fact to — used for field-level
// findings ("RetVal.fieldName").
type typeFact struct {
	kind       Kind
	target     string
	oldValue   string
	newValue   string
	addEffect  string
	subPath    string
}

// typeMerger implements merge_types: a recursive, cycle-guarded, memoized
// comparison of a type as it appears in both versions, attributing findings
// to whichever method's signature is currently being walked.
type typeMerger struct {
	d        *Detector
	cache    *factCache
	visiting map[typePairKey]bool
}

func newTypeMerger(d *Detector) *typeMerger {
	return &typeMerger{d: d, cache: newFactCache(), visiting: make(map[typePairKey]bool)}
}

// mergeTypes is the entry point used by the merge pass: it resolves id1/id2
// to type names in their respective bundles, computes (or retrieves from
// cache) the structural facts for that pair, and records a Problem for each
// fact against methodID at location (or location+"."+subPath for
// field-level facts).
func (tm *typeMerger) mergeTypes(id1, id2 intern.ID, methodID, location string) {
	t1 := tm.d.V1.TypeByID(id1)
	t2 := tm.d.V2.TypeByID(id2)
	if t1 == nil || t2 == nil {
		return
	}
	facts := tm.factsFor(t1, t2)
	for _, f := range facts {
		loc := location
		if f.subPath != "" {
			loc = location + "." + f.subPath
		}
		tm.d.problems.Add(Problem{
			MethodID:  methodID,
			Kind:      f.kind,
			Location:  loc,
			TypeName:  t1.Name,
			Target:    f.target,
			OldValue:  f.oldValue,
			NewValue:  f.newValue,
			AddEffect: f.addEffect,
		})
	}
}

// factsFor returns the memoized structural facts for the (t1, t2) pair,
// computing them on first request. The visiting set guards against cycles
// (e.g. a field whose type refers back to the enclosing type).
func (tm *typeMerger) factsFor(t1, t2 *model.Type) []typeFact {
	key := typePairKey{v1Name: t1.Name, v2Name: t2.Name}
	if cached, ok := tm.cache.get(key); ok {
		return cached
	}
	if tm.visiting[key] {
		return nil
	}
	tm.visiting[key] = true
	defer delete(tm.visiting, key)

	facts := tm.computeFacts(t1, t2)
	tm.cache.put(key, facts)
	return facts
}

func (tm *typeMerger) computeFacts(t1, t2 *model.Type) []typeFact {
	if t1.Name != t2.Name {
		return nil
	}
	if t1.Archive == "" || t2.Archive == "" {
		return nil // synthetic, never part of the analyzed API
	}
	if !isExternallyReachable(tm.d.V1, t1) {
		return nil
	}

	var facts []typeFact

	if t1.Kind == model.KindArray && t2.Kind == model.KindArray {
		base1 := tm.d.V1.TypeByID(t1.BaseType)
		base2 := tm.d.V2.TypeByID(t2.BaseType)
		if base1 != nil && base2 != nil {
			facts = append(facts, tm.factsFor(base1, base2)...)
		}
		return facts
	}

	if t1.Kind == model.KindClass && t2.Kind == model.KindInterface {
		facts = append(facts, typeFact{kind: ClassBecameInterface, target: t1.Name})
	}
	if t1.Kind == model.KindInterface && t2.Kind == model.KindClass {
		facts = append(facts, typeFact{kind: InterfaceBecameClass, target: t1.Name})
	}

	if t1.Kind == model.KindClass {
		if !t1.Final && t2.Final {
			facts = append(facts, typeFact{kind: ClassBecameFinal, target: t1.Name})
		}
		if t1.Final && !t2.Final {
			facts = append(facts, typeFact{kind: ClassRemovedFinal, target: t1.Name})
		}
		if !t1.Abstract && t2.Abstract {
			facts = append(facts, typeFact{kind: ClassBecameAbstract, target: t1.Name})
		}
		if t1.Abstract && !t2.Abstract {
			facts = append(facts, typeFact{kind: ClassRemovedAbstract, target: t1.Name})
		}
	}

	facts = append(facts, tm.addedAbstractFacts(t1, t2)...)
	facts = append(facts, tm.removedAbstractFacts(t1)...)
	facts = append(facts, tm.superClassFacts(t1, t2)...)
	facts = append(facts, tm.superInterfaceFacts(t1, t2)...)
	facts = append(facts, tm.fieldFacts(t1, t2)...)

	return facts
}

func (tm *typeMerger) addedAbstractFacts(t1, t2 *model.Type) []typeFact {
	added, ok := tm.d.AddedAbstract[t2.Name]
	if !ok {
		return nil
	}
	var facts []typeFact
	for _, shortName := range added {
		var kind Kind
		switch {
		case t2.Kind == model.KindInterface:
			kind = InterfaceAddedAbstractMethod
		case t1.Abstract:
			kind = AbstractClassAddedAbstractMethod
		default:
			kind = NonAbstractClassAddedAbstractMethod
		}
		effect := tm.firstCallerInV2(t2.Name, shortName)
		facts = append(facts, typeFact{kind: kind, target: shortName, addEffect: effect})
	}
	return facts
}

func (tm *typeMerger) removedAbstractFacts(t1 *model.Type) []typeFact {
	removed, ok := tm.d.RemovedAbstract[t1.Name]
	if !ok {
		return nil
	}
	kind := ClassRemovedAbstractMethod
	if t1.Kind == model.KindInterface {
		kind = InterfaceRemovedAbstractMethod
	}
	var facts []typeFact
	for _, shortName := range removed {
		facts = append(facts, typeFact{kind: kind, target: shortName})
	}
	return facts
}

// firstCallerInV2 returns the first caller method id recorded in v2's
// AddedInvokedByClass for className/methodName, or "" if the method appears
// unused in the analyzed archives.
func (tm *typeMerger) firstCallerInV2(className, methodName string) string {
	byName, ok := tm.d.V2.AddedInvokedByClass[className]
	if !ok {
		return ""
	}
	return byName[methodName]
}

func (tm *typeMerger) superClassFacts(t1, t2 *model.Type) []typeFact {
	var facts []typeFact
	name1, name2 := "", ""
	if t1.HasSuperClass {
		if s := tm.d.V1.TypeByID(t1.SuperClass); s != nil {
			name1 = s.Name
		}
	}
	if t2.HasSuperClass {
		if s := tm.d.V2.TypeByID(t2.SuperClass); s != nil {
			name2 = s.Name
		}
	}
	switch {
	case name1 == "" && name2 != "":
		facts = append(facts, typeFact{kind: AddedSuperClass, target: name2})
		if t1.Kind == model.KindClass && t1.Abstract {
			if s2, ok := tm.d.V2.TypeByName(name2); ok && s2.Abstract {
				effect := tm.firstCallerInV2(t1.Name, "")
				facts = append(facts, typeFact{kind: AbstractClassAddedSuperAbstractClass, target: name2, addEffect: effect})
			}
		}
	case name1 != "" && name2 == "":
		facts = append(facts, typeFact{kind: RemovedSuperClass, target: name1})
	case name1 != "" && name2 != "" && name1 != name2:
		facts = append(facts, typeFact{kind: ChangedSuperClass, oldValue: name1, newValue: name2})
	}
	return facts
}

func (tm *typeMerger) superInterfaceFacts(t1, t2 *model.Type) []typeFact {
	names1 := interfaceNameSet(tm.d.V1, t1)
	names2 := interfaceNameSet(tm.d.V2, t2)

	var facts []typeFact
	for name := range names2 {
		if names1[name] {
			continue
		}
		iface, ok := tm.d.V2.TypeByName(name)
		constantOnly := ok && !hasAbstractMethod(tm.d.V2, iface)
		switch {
		case t1.Kind == model.KindInterface && constantOnly:
			facts = append(facts, typeFact{kind: InterfaceAddedSuperConstantInterface, target: name})
		case t1.Kind == model.KindInterface:
			facts = append(facts, typeFact{kind: InterfaceAddedSuperInterface, target: name})
		case t1.Abstract:
			facts = append(facts, typeFact{kind: AbstractClassAddedSuperInterface, target: name})
		}
	}
	for name := range names1 {
		if names2[name] {
			continue
		}
		switch {
		case t1.Kind == model.KindInterface:
			facts = append(facts, typeFact{kind: InterfaceRemovedSuperInterface, target: name})
		case t1.Abstract:
			facts = append(facts, typeFact{kind: AbstractClassRemovedSuperInterface, target: name})
		}
	}
	return facts
}

func interfaceNameSet(b *model.Bundle, t *model.Type) map[string]bool {
	out := make(map[string]bool, len(t.SuperInterfaces))
	for id := range t.SuperInterfaces {
		out[b.Names.Name(id)] = true
	}
	return out
}

func hasAbstractMethod(b *model.Bundle, t *model.Type) bool {
	for _, m := range b.Methods {
		if m.Abstract && b.TypeByID(m.Class) == t {
			return true
		}
	}
	return false
}

func (tm *typeMerger) fieldFacts(t1, t2 *model.Type) []typeFact {
	var facts []typeFact
	for _, f1 := range t1.OrderedFields() {
		if f1.Access != model.AccessPublic && f1.Access != model.AccessProtected {
			continue
		}
		f2, stillPresent := t2.Fields[f1.Name]
		if !stillPresent {
			if renamed := tm.findRenamedField(t2, f1); renamed != nil {
				kind := RenamedField
				if f1.Value != "" {
					kind = RenamedConstantField
				}
				facts = append(facts, typeFact{kind: kind, target: f1.Name, newValue: renamed.Name, subPath: f1.Name})
				continue
			}
			kind := RemovedNonConstantField
			if f1.Value != "" {
				kind = RemovedConstantField
			}
			facts = append(facts, typeFact{kind: kind, target: f1.Name, subPath: f1.Name})
			continue
		}

		if tm.d.V1.Names.Name(f1.Type) != tm.d.V2.Names.Name(f2.Type) {
			facts = append(facts, typeFact{kind: ChangedFieldType, target: f1.Name, subPath: f1.Name})
		}
		if accessNarrowed(f1.Access, f2.Access) {
			facts = append(facts, typeFact{kind: ChangedFieldAccess, target: f1.Name, subPath: f1.Name, oldValue: f1.Access.String(), newValue: f2.Access.String()})
		}
		if f1.Final && f1.Value != "" && f2.Value != "" && f1.Value != f2.Value {
			kind := ChangedFinalFieldValue
			facts = append(facts, typeFact{kind: kind, target: f1.Name, subPath: f1.Name, oldValue: f1.Value, newValue: f2.Value})
		}
		if !f1.Final && f2.Final {
			facts = append(facts, typeFact{kind: FieldBecameFinal, target: f1.Name, subPath: f1.Name})
		}
		if f1.Final && !f2.Final {
			facts = append(facts, typeFact{kind: FieldRemovedFinal, target: f1.Name, subPath: f1.Name})
		}
		if f1.Static != f2.Static {
			if f2.Static {
				facts = append(facts, typeFact{kind: FieldBecameStatic, target: f1.Name, subPath: f1.Name})
			} else if f1.Value != "" {
				facts = append(facts, typeFact{kind: ConstantFieldBecameNonStatic, target: f1.Name, subPath: f1.Name})
			} else {
				facts = append(facts, typeFact{kind: FieldBecameNonStatic, target: f1.Name, subPath: f1.Name})
			}
		}

		ft1 := tm.d.V1.TypeByID(f1.Type)
		ft2 := tm.d.V2.TypeByID(f2.Type)
		if ft1 != nil && ft2 != nil {
			for _, nested := range tm.factsFor(ft1, ft2) {
				nested.subPath = joinPath(f1.Name, nested.subPath)
				facts = append(facts, nested)
			}
		}
	}
	for _, f2 := range t2.OrderedFields() {
		if f2.Access != model.AccessPublic && f2.Access != model.AccessProtected {
			continue
		}
		if _, existedInV1 := t1.Fields[f2.Name]; existedInV1 {
			continue
		}
		kind := ClassAddedField
		if t1.Kind == model.KindInterface {
			kind = InterfaceAddedField
		}
		facts = append(facts, typeFact{kind: kind, target: f2.Name, subPath: f2.Name})
	}
	return facts
}

func joinPath(parent, child string) string {
	if child == "" {
		return parent
	}
	return parent + "." + child
}

// findRenamedField looks in t2 for a field occupying f1's positional slot
// with the same type but a different name. f1.Type and f2.Type are
// intern.IDs into per-version tables, so the comparison goes through each
// version's Names table rather than comparing ids directly.
func (tm *typeMerger) findRenamedField(t2 *model.Type, f1 *model.Field) *model.Field {
	for _, f2 := range t2.OrderedFields() {
		if f2.Position == f1.Position && f2.Name != f1.Name &&
			tm.d.V1.Names.Name(f1.Type) == tm.d.V2.Names.Name(f2.Type) {
			return f2
		}
	}
	return nil
}
