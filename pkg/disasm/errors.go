package disasm

import "fmt"

// InternalError signals a disassembly stream that violates an assumption the
// parser relies on to stay correct — for example a method signature line not
// followed by its descriptor. It is fatal to the ingestion of the version
// that produced it.
type InternalError struct {
	Line    int
	Context string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("disasm: internal error at line %d: %s", e.Line, e.Context)
}

func newInternalError(line int, context string) *InternalError {
	return &InternalError{Line: line, Context: context}
}
