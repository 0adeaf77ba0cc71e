// Package dump serializes a model.Bundle to and from a self-describing API
// dump record: the format is JSON, packed into a single-file archive
// (.zip on Windows, .tar.gz elsewhere) so a dump remains a single artifact
// to pass around. Reading a dump validates both the wrapping archive and
// the dump format's major version before trusting its contents.
package dump
