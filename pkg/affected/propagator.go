package affected

import (
	"fmt"

	"github.com/platinummonkey/japicc/pkg/intern"
	"github.com/platinummonkey/japicc/pkg/model"
)

// Role describes how a method's signature touches the affected type.
type Role int

const (
	RoleReceiver Role = iota
	RoleReturn
	RoleParameter
)

// Record is one "affected by" entry: a public method whose signature
// touches the propagated type, and how.
type Record struct {
	MethodID string
	Role     Role
	// Path is "" for a direct touch, or a dotted field path for a touch
	// reached transitively through a field (e.g. "address.city").
	Path string
	// ParameterPosition and ParameterName are set only when Role is
	// RoleParameter.
	ParameterPosition int
	ParameterName     string
}

func (r Record) describe() string {
	switch r.Role {
	case RoleReceiver:
		return withPath("this", r.Path)
	case RoleReturn:
		return withPath("RetVal", r.Path)
	default:
		label := fmt.Sprintf("arg%d parameter", r.ParameterPosition)
		if r.ParameterName != "" {
			label = fmt.Sprintf("%d parameter [%s]", r.ParameterPosition, r.ParameterName)
		}
		return withPath(label, r.Path)
	}
}

func withPath(base, path string) string {
	if path == "" {
		return base
	}
	return base + "." + path
}

// Propagator finds the public methods affected by a change to a given type
// name, capping the number of records returned.
type Propagator struct {
	Bundle *model.Bundle
	// MaxResults caps the number of records returned; zero means
	// unlimited. A report renderer appends an "and others..." marker when
	// the cap is hit.
	MaxResults int
	// maxFieldDepth bounds transitive field recursion to avoid runaway
	// traversal through deeply nested or mutually-referential types.
	maxFieldDepth int
}

const defaultMaxFieldDepth = 4

// NewPropagator returns a Propagator over bundle with the given result cap
// (0 = unlimited).
func NewPropagator(bundle *model.Bundle, maxResults int) *Propagator {
	return &Propagator{Bundle: bundle, MaxResults: maxResults, maxFieldDepth: defaultMaxFieldDepth}
}

// Result is the outcome of a propagation: the records found, and whether
// the cap truncated the list.
type Result struct {
	Records   []Record
	Truncated bool
}

// Affected returns every public method whose receiver, parameter, or return
// touches typeName, directly or transitively through a field.
func (p *Propagator) Affected(typeName string) Result {
	targetID, ok := p.Bundle.Names.Lookup(typeName)
	if !ok {
		return Result{}
	}

	var records []Record
	for id, m := range p.Bundle.Methods {
		if m.Access != model.AccessPublic {
			continue
		}
		if m.Class == targetID {
			records = append(records, Record{MethodID: id, Role: RoleReceiver})
		}
		if m.HasReturn {
			if path, ok := p.touches(m.Return, targetID); ok {
				records = append(records, Record{MethodID: id, Role: RoleReturn, Path: path})
			}
		}
		for i, param := range m.Parameters {
			if path, ok := p.touches(param.Type, targetID); ok {
				records = append(records, Record{
					MethodID: id, Role: RoleParameter, Path: path,
					ParameterPosition: i, ParameterName: param.Name,
				})
			}
		}
	}

	if p.MaxResults > 0 && len(records) > p.MaxResults {
		return Result{Records: records[:p.MaxResults], Truncated: true}
	}
	return Result{Records: records}
}

// touches reports whether typeID is reachable from candidateID, either
// directly or through candidateID's fields up to maxFieldDepth, returning
// the dotted field path of the first reachable occurrence.
func (p *Propagator) touches(candidateID, typeID intern.ID) (string, bool) {
	if candidateID == typeID {
		return "", true
	}
	visited := map[intern.ID]bool{candidateID: true}
	return p.touchesViaFields(candidateID, typeID, visited, p.maxFieldDepth)
}

func (p *Propagator) touchesViaFields(candidateID, typeID intern.ID, visited map[intern.ID]bool, depth int) (string, bool) {
	if depth <= 0 {
		return "", false
	}
	t := p.Bundle.TypeByID(candidateID)
	if t == nil {
		return "", false
	}
	for _, f := range t.OrderedFields() {
		if f.Type == typeID {
			return f.Name, true
		}
		if visited[f.Type] {
			continue
		}
		visited[f.Type] = true
		if subPath, ok := p.touchesViaFields(f.Type, typeID, visited, depth-1); ok {
			return f.Name + "." + subPath, true
		}
	}
	return "", false
}
