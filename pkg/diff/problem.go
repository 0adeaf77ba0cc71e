package diff

// Problem is one detected API difference, keyed externally by the triple
// (MethodID, Kind, Location).
type Problem struct {
	MethodID string
	Kind     Kind
	// Location is a dotted path such as "this", "RetVal", "RetVal.fieldName",
	// or "<paramName>.subfield".
	Location string

	TypeName         string
	Target           string
	OldValue         string
	NewValue         string
	ParameterPos     int
	HasParameterPos  bool
	ParameterName    string
	FieldType        string
	FieldValue       string
	AddEffect        string
}

type problemKey struct {
	methodID string
	kind     Kind
	location string
}

// ProblemSet is a collection of Problems, indexed by their triple
// key so a repeated (method, kind, location) observation overwrites rather
// than duplicates.
type ProblemSet struct {
	byKey map[problemKey]*Problem
	order []problemKey
}

// NewProblemSet returns an empty ProblemSet.
func NewProblemSet() *ProblemSet {
	return &ProblemSet{byKey: make(map[problemKey]*Problem)}
}

// Add records p, keyed by (p.MethodID, p.Kind, p.Location).
func (ps *ProblemSet) Add(p Problem) {
	key := problemKey{methodID: p.MethodID, kind: p.Kind, location: p.Location}
	if _, exists := ps.byKey[key]; !exists {
		ps.order = append(ps.order, key)
	}
	stored := p
	ps.byKey[key] = &stored
}

// All returns every Problem in insertion order.
func (ps *ProblemSet) All() []*Problem {
	out := make([]*Problem, 0, len(ps.order))
	for _, key := range ps.order {
		out = append(out, ps.byKey[key])
	}
	return out
}

// Len returns the number of distinct problems recorded.
func (ps *ProblemSet) Len() int {
	return len(ps.order)
}
