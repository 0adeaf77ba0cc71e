// Package xmlconfig defines the shape of the XML archive-set descriptor
// the CLI's old/new path arguments may reference, per the grammar: a root
// element carrying <version>, <archives> (newline-separated paths), an
// optional <skip_packages>, and a <packages> keep-list, with comments
// stripped before parsing. The full parsing engine is an external
// collaborator outside this tool's scope; this package defines the
// boundary (the parsed shape and the interface that produces it) a caller
// plugs a parser into.
package xmlconfig

import "io"

// Descriptor is the parsed form of an XML archive-set descriptor.
type Descriptor struct {
	Version      string
	Archives     []string
	SkipPackages []string
	Packages     []string
}

// Parser produces a Descriptor from an XML descriptor document. Comment
// stripping and the XML grammar itself are implemented by whatever
// concrete Parser a caller supplies; this package only fixes the contract.
type Parser interface {
	Parse(r io.Reader) (*Descriptor, error)
}
