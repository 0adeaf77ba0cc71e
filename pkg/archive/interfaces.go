package archive

import "context"

// Extractor pulls class-file entries out of an archive (jar, war, ear, or a
// bare directory of .class files) into a scratch directory, returning the
// absolute paths of the extracted class files.
type Extractor interface {
	Extract(ctx context.Context, archivePath string, destDir string) ([]string, error)
}

// Disassembler renders a chunk of class files to their textual disassembly
// (constant pool, code, LocalVariableTable, annotations). Implementations
// may shell out to a local javap-equivalent or run it inside a container.
type Disassembler interface {
	Disassemble(ctx context.Context, classFiles []string) (string, error)
}
