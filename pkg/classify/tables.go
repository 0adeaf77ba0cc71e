package classify

import "github.com/platinummonkey/japicc/pkg/diff"

// binarySeverity and sourceSeverity are the two declarative severity
// tables. A kind absent from a table defaults to Medium via severityFor,
// rather than panicking, so a newly added Kind fails safe instead of
// crashing classification.
var binarySeverity = map[diff.Kind]Severity{
	diff.AddedMethod:                 Safe,
	diff.RemovedMethod:               High,
	diff.ChangedMethodReturnFromVoid: High,
	diff.ClassOverriddenMethod:       Low,
	diff.ClassMethodMovedUpHierarchy: Safe,

	diff.ChangedMethodAccess: High,

	diff.MethodBecameStatic:    High,
	diff.MethodBecameNonStatic: High,

	diff.MethodBecameSynchronized:    Safe,
	diff.MethodBecameNonSynchronized: Safe,

	diff.MethodBecameFinal:            High,
	diff.NonAbstractMethodBecameFinal: High,

	diff.ClassMethodBecameAbstract:    High,
	diff.ClassMethodBecameNonAbstract: Safe,

	diff.AbstractMethodAddedCheckedException:      Safe,
	diff.AbstractMethodRemovedCheckedException:    Safe,
	diff.NonAbstractMethodAddedCheckedException:   Low,
	diff.NonAbstractMethodRemovedCheckedException: Low,
	diff.AddedUncheckedException:                  Safe,
	diff.RemovedUncheckedException:                Safe,

	diff.ClassBecameInterface: High,
	diff.InterfaceBecameClass: High,

	diff.ClassBecameFinal:     High,
	diff.ClassBecameAbstract:  High,
	diff.ClassRemovedFinal:    Safe,
	diff.ClassRemovedAbstract: Safe,

	diff.NonAbstractClassAddedAbstractMethod: High,
	diff.AbstractClassAddedAbstractMethod:    Medium,
	diff.InterfaceAddedAbstractMethod:        High,

	diff.ClassRemovedAbstractMethod:     Safe,
	diff.InterfaceRemovedAbstractMethod: Safe,

	diff.AddedSuperClass:                        Low,
	diff.RemovedSuperClass:                      High,
	diff.ChangedSuperClass:                      High,
	diff.AbstractClassAddedSuperAbstractClass:   Medium,

	diff.InterfaceAddedSuperInterface:         Medium,
	diff.InterfaceAddedSuperConstantInterface: Safe,
	diff.AbstractClassAddedSuperInterface:     Medium,
	diff.InterfaceRemovedSuperInterface:       High,
	diff.AbstractClassRemovedSuperInterface:   Medium,

	diff.RemovedConstantField:    Low,
	diff.RemovedNonConstantField: High,
	diff.RenamedField:            High,
	diff.RenamedConstantField:    Low,
	diff.ChangedFieldType:        High,
	diff.ChangedFieldAccess:      High,
	diff.ChangedFinalFieldValue:  Medium,
	diff.FieldBecameFinal:        Medium,
	diff.FieldRemovedFinal:       Safe,
	diff.FieldBecameStatic:       High,
	diff.FieldBecameNonStatic:    High,
	diff.ConstantFieldBecameNonStatic: High,

	diff.ClassAddedField:     Safe,
	diff.InterfaceAddedField: Safe,
}

var sourceSeverity = map[diff.Kind]Severity{
	diff.AddedMethod:                 Safe,
	diff.RemovedMethod:               High,
	diff.ChangedMethodReturnFromVoid: Safe,
	diff.ClassOverriddenMethod:       Low,
	diff.ClassMethodMovedUpHierarchy: Safe,

	diff.ChangedMethodAccess: High,

	diff.MethodBecameStatic:    Medium,
	diff.MethodBecameNonStatic: Medium,

	diff.MethodBecameSynchronized:    Safe,
	diff.MethodBecameNonSynchronized: Safe,

	diff.MethodBecameFinal:            Medium,
	diff.NonAbstractMethodBecameFinal: Medium,

	diff.ClassMethodBecameAbstract:    High,
	diff.ClassMethodBecameNonAbstract: Safe,

	diff.AbstractMethodAddedCheckedException:      Safe,
	diff.AbstractMethodRemovedCheckedException:    Safe,
	diff.NonAbstractMethodAddedCheckedException:   High,
	diff.NonAbstractMethodRemovedCheckedException: Safe,
	diff.AddedUncheckedException:                  Safe,
	diff.RemovedUncheckedException:                Safe,

	diff.ClassBecameInterface: High,
	diff.InterfaceBecameClass: High,

	diff.ClassBecameFinal:     High,
	diff.ClassBecameAbstract:  High,
	diff.ClassRemovedFinal:    Safe,
	diff.ClassRemovedAbstract: Safe,

	diff.NonAbstractClassAddedAbstractMethod: High,
	diff.AbstractClassAddedAbstractMethod:    Medium,
	diff.InterfaceAddedAbstractMethod:        High,

	diff.ClassRemovedAbstractMethod:     Safe,
	diff.InterfaceRemovedAbstractMethod: Safe,

	diff.AddedSuperClass:                      Low,
	diff.RemovedSuperClass:                    High,
	diff.ChangedSuperClass:                    High,
	diff.AbstractClassAddedSuperAbstractClass: Medium,

	diff.InterfaceAddedSuperInterface:         Medium,
	diff.InterfaceAddedSuperConstantInterface: Safe,
	diff.AbstractClassAddedSuperInterface:     Medium,
	diff.InterfaceRemovedSuperInterface:       High,
	diff.AbstractClassRemovedSuperInterface:   Medium,

	diff.RemovedConstantField:        High,
	diff.RemovedNonConstantField:     High,
	diff.RenamedField:                High,
	diff.RenamedConstantField:        High,
	diff.ChangedFieldType:            High,
	diff.ChangedFieldAccess:          High,
	diff.ChangedFinalFieldValue:      High,
	diff.FieldBecameFinal:            Medium,
	diff.FieldRemovedFinal:           Safe,
	diff.FieldBecameStatic:           High,
	diff.FieldBecameNonStatic:        High,
	diff.ConstantFieldBecameNonStatic: High,

	diff.ClassAddedField:     Safe,
	diff.InterfaceAddedField: Safe,
}

func severityFor(level Level, kind diff.Kind) Severity {
	table := binarySeverity
	if level == Source {
		table = sourceSeverity
	}
	if sev, ok := table[kind]; ok {
		return sev
	}
	return Medium
}
