package model

import (
	"strings"

	"github.com/platinummonkey/japicc/pkg/intern"
)

// Bundle is the complete symbol table for one library version: the name
// table, every registered Type and Method, and the usage tables populated
// from bytecode during ingestion. A Bundle is built once by pkg/disasm and
// is read-only for the remainder of a run.
type Bundle struct {
	Names *intern.Table

	Types   map[intern.ID]*Type
	Methods map[string]*Method // canonical id -> Method

	// InvokedBy maps an invoked method descriptor to the set of caller
	// method ids that invoke it, populated from invoke* instructions.
	InvokedBy map[string]map[string]bool

	// AddedInvokedByClass maps target-class-name -> invoked-method-name ->
	// caller method id, recorded for every invocation whose target class is
	// not the calling class; whether the target class itself declares the
	// method is not checked. Used to tell whether an added abstract method
	// is actually exercised.
	AddedInvokedByClass map[string]map[string]string

	// FieldUsedBy maps a field descriptor to the set of caller method ids;
	// populated only when implementation-level checking is enabled.
	FieldUsedBy map[string]map[string]bool
}

// NewBundle returns an empty Bundle backed by a fresh interning table.
func NewBundle() *Bundle {
	return &Bundle{
		Names:               intern.New(),
		Types:               make(map[intern.ID]*Type),
		Methods:             make(map[string]*Method),
		InvokedBy:           make(map[string]map[string]bool),
		AddedInvokedByClass: make(map[string]map[string]string),
		FieldUsedBy:         make(map[string]map[string]bool),
	}
}

// InternType interns name and registers an empty Type record of the given
// kind for it if one doesn't already exist, returning the type's id.
func (b *Bundle) InternType(name string, kind Kind) intern.ID {
	id := b.Names.Intern(name)
	if _, ok := b.Types[id]; !ok {
		t := NewType(name, kind)
		b.Types[id] = t
	}
	return id
}

// TypeByID returns the Type registered for id, or nil if none was registered
// (e.g. a referenced but never-ingested type).
func (b *Bundle) TypeByID(id intern.ID) *Type {
	return b.Types[id]
}

// TypeByName looks up a Type by its canonical name.
func (b *Bundle) TypeByName(name string) (*Type, bool) {
	id, ok := b.Names.Lookup(name)
	if !ok {
		return nil, false
	}
	t, ok := b.Types[id]
	return t, ok
}

// RecordInvocation adds a caller -> invoked-descriptor edge to InvokedBy.
// It does not touch AddedInvokedByClass; see RecordAddedInvocation.
func (b *Bundle) RecordInvocation(invokedDescriptor, callerMethodID string) {
	set, ok := b.InvokedBy[invokedDescriptor]
	if !ok {
		set = make(map[string]bool)
		b.InvokedBy[invokedDescriptor] = set
	}
	set[callerMethodID] = true
}

// RecordAddedInvocation records that callerMethodID invokes a method named
// invokedShortName on targetClass. targetClass
// is keyed in dotted form so it matches the type names readers look it up
// by, regardless of whether the caller has a slash-form (JVM-internal) or
// dotted name on hand.
func (b *Bundle) RecordAddedInvocation(targetClass, invokedShortName, callerMethodID string) {
	targetClass = strings.ReplaceAll(targetClass, "/", ".")
	byName, ok := b.AddedInvokedByClass[targetClass]
	if !ok {
		byName = make(map[string]string)
		b.AddedInvokedByClass[targetClass] = byName
	}
	byName[invokedShortName] = callerMethodID
}

// RecordFieldUsage adds a caller -> field-descriptor edge to FieldUsedBy.
func (b *Bundle) RecordFieldUsage(fieldDescriptor, callerMethodID string) {
	set, ok := b.FieldUsedBy[fieldDescriptor]
	if !ok {
		set = make(map[string]bool)
		b.FieldUsedBy[fieldDescriptor] = set
	}
	set[callerMethodID] = true
}
