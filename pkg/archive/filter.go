package archive

import (
	"regexp"
	"strings"
)

// implicitInternalPrefixes are package prefixes that are internal even
// without an explicit skip list, matching the historical javac/OpenJDK
// convention for non-API packages.
var implicitInternalPrefixes = []string{"com.oracle", "com.sun", "COM.rsa", "sun", "sunw"}

var implicitInternalSegments = map[string]bool{
	"internal": true, "impl": true, "examples": true,
}

var dollarDigitRe = regexp.MustCompile(`\$\d`)

// FilterOptions configures the filter pipeline applied to candidate class
// file paths before they're handed to the disassembler.
type FilterOptions struct {
	// KeepInternals disables the implicit-internal-package rule.
	KeepInternals bool
	// Skip blacklists by package prefix (dotted).
	Skip []string
	// Keep, when non-empty, whitelists by package prefix; it composes
	// additively with Skip — a class must satisfy both.
	Keep []string
}

// candidate is one discovered class file path paired with the dotted
// package name the filter pipeline derives from it.
type candidate struct {
	path    string
	pkg     string
	simple  string
}

// Filter applies the four-stage rule pipeline to paths (relative class file
// paths inside the archive, using '/' directory separators and '.class'
// suffix) and returns the subset to keep.
func Filter(paths []string, opts FilterOptions) []string {
	var kept []string
	for _, p := range paths {
		c := classify(p)
		if dollarDigitRe.MatchString(c.simple) {
			continue
		}
		if hasDottedDirectoryComponent(p) {
			continue
		}
		if !opts.KeepInternals && isImplicitInternal(c.pkg, p) {
			continue
		}
		if !matchesSkipKeep(c.pkg, opts) {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

func classify(path string) candidate {
	trimmed := strings.TrimSuffix(path, ".class")
	parts := strings.Split(trimmed, "/")
	simple := parts[len(parts)-1]
	pkg := strings.Join(parts[:len(parts)-1], ".")
	return candidate{path: path, pkg: pkg, simple: simple}
}

func hasDottedDirectoryComponent(path string) bool {
	dir := path
	if idx := strings.LastIndex(dir, "/"); idx >= 0 {
		dir = dir[:idx]
	} else {
		return false
	}
	for _, component := range strings.Split(dir, "/") {
		if strings.Contains(component, ".") {
			return true
		}
	}
	return false
}

func isImplicitInternal(pkg, path string) bool {
	for _, prefix := range implicitInternalPrefixes {
		if pkg == prefix || strings.HasPrefix(pkg, prefix+".") {
			return true
		}
	}
	for _, segment := range strings.Split(path, "/") {
		if implicitInternalSegments[segment] {
			return true
		}
	}
	return false
}

func matchesSkipKeep(pkg string, opts FilterOptions) bool {
	for _, skip := range opts.Skip {
		if pkg == skip || strings.HasPrefix(pkg, skip+".") {
			return false
		}
	}
	if len(opts.Keep) == 0 {
		return true
	}
	for _, keep := range opts.Keep {
		if pkg == keep || strings.HasPrefix(pkg, keep+".") {
			return true
		}
	}
	return false
}
