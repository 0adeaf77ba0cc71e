package dump

// APIDumpMajorVersion is the major format version this build writes and
// reads. A dump whose major version differs is rejected by Read, even if
// the minor component differs only cosmetically — compatibility is gated
// on the major component alone.
const APIDumpMajorVersion = 2

// APIDumpVersion is the full format version string written into new dumps.
const APIDumpVersion = "2.0"

// ToolVersion is the version of this tool embedded in dumps it writes, for
// diagnostics only — it plays no part in compatibility gating.
var ToolVersion = "dev"

// Record is the top-level, self-describing API dump.
type Record struct {
	APIDumpVersion string                `json:"api_dump_version"`
	ToolVersion    string                `json:"tool_version"`
	Library        string                `json:"library"`
	Version        string                `json:"version"`
	Methods        map[string]MethodInfo `json:"method_info"`
	Types          map[string]TypeInfo   `json:"type_info"`
}

// TypeInfo is the portable, name-keyed rendering of a model.Type: every
// cross-reference that was an intern.ID in memory becomes a canonical name
// string so a dump is self-contained and independent of any in-process
// interning table.
type TypeInfo struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Package string `json:"package"`
	Archive string `json:"archive"`

	Access     string `json:"access"`
	Abstract   bool   `json:"abstract"`
	Final      bool   `json:"final"`
	Static     bool   `json:"static"`
	Annotation bool   `json:"annotation"`
	Deprecated bool   `json:"deprecated"`

	SuperClass      string   `json:"super_class,omitempty"`
	SuperInterfaces []string `json:"super_interfaces,omitempty"`

	Fields []FieldInfo `json:"fields,omitempty"`

	Annotations []string `json:"annotations,omitempty"`
	BaseType    string   `json:"base_type,omitempty"`
}

// FieldInfo is the portable rendering of a model.Field.
type FieldInfo struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Access    string `json:"access"`
	Final     bool   `json:"final"`
	Static    bool   `json:"static"`
	Transient bool   `json:"transient"`
	Volatile  bool   `json:"volatile"`
	Position  int    `json:"position"`
	Value     string `json:"value,omitempty"`
	Mangled   string `json:"mangled,omitempty"`
}

// ParameterInfo is the portable rendering of a model.Parameter.
type ParameterInfo struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

// MethodInfo is the portable rendering of a model.Method, keyed in Record
// by its canonical id.
type MethodInfo struct {
	ShortName  string `json:"short_name"`
	Class      string `json:"class"`
	Descriptor string `json:"descriptor"`

	Return    string `json:"return,omitempty"`
	HasReturn bool   `json:"has_return"`

	Parameters []ParameterInfo `json:"parameters,omitempty"`
	Exceptions []string        `json:"exceptions,omitempty"`

	Access       string `json:"access"`
	Abstract     bool   `json:"abstract"`
	Final        bool   `json:"final"`
	Static       bool   `json:"static"`
	Native       bool   `json:"native"`
	Synchronized bool   `json:"synchronized"`
	Constructor  bool   `json:"constructor"`
	Deprecated   bool   `json:"deprecated"`
	Annotations  []string `json:"annotations,omitempty"`
	Archive      string   `json:"archive"`
}
