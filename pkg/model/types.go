package model

import "github.com/platinummonkey/japicc/pkg/intern"

// EmptyString is the sentinel retained for a compile-time constant whose
// literal value is the zero-length string, so a comparator can distinguish
// "unknown value" (empty Value field) from "known to be empty".
const EmptyString = "EMPTY_STRING"

// Kind classifies a Type record. A Type's Kind is never mutated after first
// registration.
type Kind int

const (
	KindClass Kind = iota
	KindInterface
	KindPrimitive
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindPrimitive:
		return "primitive"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Access is the visibility modifier shared by Type, Field, and Method.
type Access int

const (
	AccessPublic Access = iota
	AccessProtected
	AccessPrivate
	AccessPackagePrivate
)

func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessProtected:
		return "protected"
	case AccessPrivate:
		return "private"
	case AccessPackagePrivate:
		return "package-private"
	default:
		return "unknown"
	}
}

// PrimitiveNames is the closed set of valid primitive type names.
var PrimitiveNames = map[string]bool{
	"void": true, "boolean": true, "char": true, "byte": true, "short": true,
	"int": true, "float": true, "long": true, "double": true,
}

// Type is one record per class, interface, array, or primitive in a single
// version's symbol table.
type Type struct {
	Name    string
	Kind    Kind
	Package string
	Archive string

	Access     Access
	Abstract   bool
	Final      bool
	Static     bool
	Annotation bool
	Deprecated bool

	// SuperClass is absent (NoID) for interfaces and for java.lang.Object.
	SuperClass      intern.ID
	HasSuperClass   bool
	SuperInterfaces map[intern.ID]bool

	// Fields is insertion-ordered; FieldOrder records the order so that a
	// field's positional index can be recovered for rename detection.
	Fields     map[string]*Field
	FieldOrder []string

	Annotations map[intern.ID]bool

	// BaseType is the element type id for array kinds; it resolves
	// transitively to a non-array type.
	BaseType    intern.ID
	HasBaseType bool
}

// NoID is the sentinel value signaling "absent" for an optional intern.ID field;
// callers must consult the accompanying Has* flag rather than compare to
// NoID directly, since 0 is itself a valid interned id.
const NoID intern.ID = -1

// NewType returns a Type with its maps initialized and no optional id set.
func NewType(name string, kind Kind) *Type {
	return &Type{
		Name:            name,
		Kind:            kind,
		SuperClass:      NoID,
		SuperInterfaces: make(map[intern.ID]bool),
		Fields:          make(map[string]*Field),
		Annotations:     make(map[intern.ID]bool),
		BaseType:        NoID,
	}
}

// AddField registers a field in positional order. Re-adding a field by the
// same name overwrites it in place without disturbing its original position.
func (t *Type) AddField(f *Field) {
	if _, exists := t.Fields[f.Name]; !exists {
		f.Position = len(t.FieldOrder)
		t.FieldOrder = append(t.FieldOrder, f.Name)
	} else {
		f.Position = t.Fields[f.Name].Position
	}
	t.Fields[f.Name] = f
}

// OrderedFields returns the type's fields in their original insertion order.
func (t *Type) OrderedFields() []*Field {
	out := make([]*Field, 0, len(t.FieldOrder))
	for _, name := range t.FieldOrder {
		out = append(out, t.Fields[name])
	}
	return out
}

// Field is one field record belonging to a Type.
type Field struct {
	Name      string
	Type      intern.ID
	Access    Access
	Final     bool
	Static    bool
	Transient bool
	Volatile  bool

	// Position is the insertion index among the owning type's fields. It is
	// assigned by Type.AddField and used to detect field renames when a
	// field vanishes from one version but another field occupies the same
	// slot in the next.
	Position int

	// Value is the compile-time constant as a textual token, or the empty
	// Go string if the field has no known constant value. EmptyString is
	// used when the known value IS the zero-length string literal.
	Value string

	// Mangled is the field's canonical JVM type descriptor.
	Mangled string
}

// Parameter is one method parameter: its type and, when recoverable from a
// LocalVariableTable, its declared name.
type Parameter struct {
	Type intern.ID
	Name string
}

// Method is one record per method or constructor, keyed externally by its
// canonical id "[package/]class.\"name\":descriptor".
type Method struct {
	ShortName  string
	Class      intern.ID
	Descriptor string

	// Return is absent for constructors.
	Return    intern.ID
	HasReturn bool

	Parameters []Parameter
	Exceptions map[intern.ID]bool

	Access        Access
	Abstract      bool
	Final         bool
	Static        bool
	Native        bool
	Synchronized  bool
	Constructor   bool
	Deprecated    bool
	Annotations   map[intern.ID]bool
	Archive       string
}

// CanonicalID formats the method's canonical cross-version identifier:
// "[package/]class.\"name\":descriptor".
func CanonicalID(className, shortName, descriptor string) string {
	return className + ".\"" + shortName + "\":" + descriptor
}

// NewMethod returns a Method with its set fields initialized.
func NewMethod(shortName string, class intern.ID, descriptor string) *Method {
	return &Method{
		ShortName:   shortName,
		Class:       class,
		Descriptor:  descriptor,
		Return:      NoID,
		Exceptions:  make(map[intern.ID]bool),
		Annotations: make(map[intern.ID]bool),
	}
}
