// Package ident turns WIT's kebab-case names into Go identifiers.
//
// Identifier generation is pure and deterministic: the same kebab-case
// input always yields the same Go identifier, and none of the functions
// here consult any state beyond their arguments.
package ident

import "strings"

// goKeywords are the reserved Go keywords, plus the predeclared "error"
// type name, which a generated parameter must not shadow. Names colliding
// with one are suffixed with "_".
var goKeywords = map[string]bool{
	"break": true, "default": true, "func": true, "interface": true,
	"select": true, "case": true, "defer": true, "go": true, "map": true,
	"struct": true, "chan": true, "else": true, "goto": true, "package": true,
	"switch": true, "const": true, "fallthrough": true, "if": true,
	"range": true, "type": true, "continue": true, "for": true,
	"import": true, "return": true, "var": true, "error": true,
}

// wordSeparators lists every rune that splits a name into words: "-" and
// "_" for kebab/snake-case WIT identifiers, plus ":", "/", and "." for the
// fully qualified "namespace:package/interface" names WIT worlds use as
// import keys.
func isWordSeparator(r rune) bool {
	switch r {
	case '-', '_', ':', '/', '.':
		return true
	default:
		return false
	}
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, isWordSeparator)
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	r := []rune(word)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] = r[0] - ('a' - 'A')
	}
	return string(r)
}

// Pascal converts a kebab-case WIT name ("get-status") into PascalCase
// ("GetStatus"). Used for world-derived prefixes and exported method names.
func Pascal(kebab string) string {
	var b strings.Builder
	for _, w := range splitWords(kebab) {
		b.WriteString(capitalize(w))
	}
	return Keyword(b.String())
}

// Camel converts a kebab-case WIT name ("input-path") into camelCase
// ("inputPath"). Used for parameter names.
func Camel(kebab string) string {
	words := splitWords(kebab)
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(strings.ToLower(w))
		} else {
			b.WriteString(capitalize(w))
		}
	}
	return Keyword(b.String())
}

// Keyword suffixes s with "_" if it collides with a reserved Go keyword.
func Keyword(s string) string {
	if goKeywords[s] {
		return s + "_"
	}
	return s
}

// Iface derives the "I<World><Iface>" interface name for an imported WIT
// interface within a given world.
func Iface(world, iface string) string {
	return "I" + Pascal(world) + Pascal(iface)
}

// Factory derives "<World>Factory".
func Factory(world string) string {
	return Pascal(world) + "Factory"
}

// Instance derives "<World>Instance".
func Instance(world string) string {
	return Pascal(world) + "Instance"
}
