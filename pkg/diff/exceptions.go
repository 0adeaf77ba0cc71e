package diff

import "github.com/platinummonkey/japicc/pkg/model"

// uncheckedExceptionNames is the fixed whitelist of runtime-exception types
// treated as unchecked regardless of their declared hierarchy.
var uncheckedExceptionNames = map[string]bool{
	"java.lang.RuntimeException":          true,
	"java.lang.NullPointerException":      true,
	"java.lang.IllegalArgumentException":  true,
	"java.lang.IllegalStateException":     true,
	"java.lang.IndexOutOfBoundsException": true,
	"java.lang.ClassCastException":        true,
	"java.lang.UnsupportedOperationException": true,
	"java.lang.ArithmeticException":       true,
	"java.lang.NumberFormatException":     true,
	"java.lang.ConcurrentModificationException": true,
	"java.lang.Error":                     true,
}

// isUnchecked reports whether the exception type named name is unchecked:
// either it's on the fixed whitelist, or its super class in bundle is
// java.lang.RuntimeException.
func isUnchecked(bundle *model.Bundle, name string) bool {
	if uncheckedExceptionNames[name] {
		return true
	}
	ty, ok := bundle.TypeByName(name)
	if !ok || !ty.HasSuperClass {
		return false
	}
	super := bundle.TypeByID(ty.SuperClass)
	return super != nil && super.Name == "java.lang.RuntimeException"
}
