// Package imports tracks the Go import paths a generated file actually
// needs, per the data model's "required-imports set": membership is
// determined by which fragments actually appear, never predicted ahead of
// time, so that §4.7's invariant I3 (required-imports set equals the set
// of import paths textually referenced by the body) holds by construction.
package imports

import "sort"

// Set is a per-file set of Go import paths.
type Set struct {
	paths map[string]bool
}

// NewSet creates an empty set.
func NewSet() *Set { return &Set{paths: make(map[string]bool)} }

// Add records path as required.
func (s *Set) Add(path string) { s.paths[path] = true }

// Sorted returns the required paths in stable lexical order, so the
// bindings assembler's output is deterministic byte-for-byte (L2).
func (s *Set) Sorted() []string {
	out := make([]string, 0, len(s.paths))
	for p := range s.paths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
