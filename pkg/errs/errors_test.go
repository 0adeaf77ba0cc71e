package errs

import (
	"errors"
	"testing"
)

func TestCodeOfMapsEachTaxonomyMember(t *testing.T) {
	cases := []struct {
		err  error
		want ExitCode
	}{
		{&AccessError{Path: "foo.jar", Err: errors.New("denied")}, ExitAccessError},
		{&NotFound{Tool: "javap"}, ExitMissingTool},
		{&InvalidDump{Reason: "bad header"}, ExitMalformedDump},
		{&DumpVersion{Found: 3, Supported: 2}, ExitDumpVersion},
		{&InternalError{Reason: "no descriptor"}, ExitGeneric},
		{&MissingModule{Module: "storage"}, ExitMissingModule},
		{errors.New("plain error"), ExitGeneric},
		{nil, ExitCompatible},
	}
	for _, c := range cases {
		if got := CodeOf(c.err); got != c.want {
			t.Errorf("CodeOf(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestCodeOfUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmtWrap(&NotFound{Tool: "javap"})
	if got := CodeOf(wrapped); got != ExitMissingTool {
		t.Errorf("CodeOf(wrapped) = %d, want %d", got, ExitMissingTool)
	}
}

func fmtWrap(err error) error {
	return &wrapper{err}
}

type wrapper struct{ err error }

func (w *wrapper) Error() string { return "wrapped: " + w.err.Error() }
func (w *wrapper) Unwrap() error { return w.err }
