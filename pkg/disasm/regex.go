package disasm

import "regexp"

var (
	// typeLineRe matches "[access] [modifiers] (class|interface) Name [extends X] [implements Y, Z] {"
	typeLineRe = regexp.MustCompile(
		`^(?:(public|protected|private)\s+)?((?:abstract|final|static)\s+)*(class|interface)\s+([\w.$]+)(?:\s+extends\s+([\w.$]+))?(?:\s+implements\s+([\w.$,\s]+))?\s*\{?\s*$`)

	// methodLineRe matches "<return> name(params) [throws list];"
	methodLineRe = regexp.MustCompile(
		`^(?:(public|protected|private)\s+)?((?:abstract|final|static|native|synchronized)\s+)*([\w.$\[\]]+)\s+([\w$<>]+)\(([^)]*)\)(?:\s+throws\s+([\w.$,\s]+))?;\s*$`)

	// fieldLineRe matches "<modifiers> type name;"
	fieldLineRe = regexp.MustCompile(
		`^(?:(public|protected|private)\s+)?((?:final|static|transient|volatile)\s+)*([\w.$\[\]]+)\s+([\w$]+);\s*$`)

	descriptorLineRe    = regexp.MustCompile(`^\s*descriptor:\s*(\S+)\s*$`)
	signatureLineRe     = regexp.MustCompile(`^\s*Signature:\s*#?\d*\s*(\S+)\s*$`)
	constantValueLineRe = regexp.MustCompile(`^\s*Constant value:\s*(\S+)\s+(.*)$`)
	deprecatedLineRe    = regexp.MustCompile(`^\s*Deprecated:\s*true\s*$`)

	invokeCommentRe = regexp.MustCompile(`//\s*(Method|InterfaceMethod)\s+([\w./$]+)\.([\w$<>]+):(\S+)`)

	annotationsHeaderRe = regexp.MustCompile(`^\s*Runtime(Visible|Invisible)Annotations:\s*$`)
	annotationEntryRe   = regexp.MustCompile(`^\s*\d+:\s*#\d+\(\)\s*//\s*([\w.$]+)\s*$`)

	localVarTableHeaderRe = regexp.MustCompile(`^\s*LocalVariableTable:\s*$`)
	localVarEntryRe       = regexp.MustCompile(`^\s*\d+\s+\d+\s+\d+\s+(\w+)\s+(\S+)\s*$`)

	codeHeaderRe = regexp.MustCompile(`^\s*Code:\s*$`)

	// genericParamRe strips "<T extends Bound>" to "T".
	genericParamRe = regexp.MustCompile(`<(\w+)\s+extends[^>]*>`)

	// syntheticNameRe flags bridge/synthetic constructs by name heuristics.
	syntheticNameRe = regexp.MustCompile(`(\$\d+$|access\$\d+|class\$|^lambda\$)`)

	ignoredInvokeTargetRe = regexp.MustCompile(`^java/(lang|util|io)/`)
)

// stripGenerics reduces a generic type parameter declaration to its bare
// name, e.g. "<T extends java.lang.Object>" -> "T".
func stripGenerics(s string) string {
	return genericParamRe.ReplaceAllString(s, "$1")
}

// isSynthetic reports whether name looks like a compiler-generated
// construct that is never part of the public API.
func isSynthetic(name string) bool {
	return syntheticNameRe.MatchString(name)
}
