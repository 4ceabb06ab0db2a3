// Package classify infers semantic types for fields and entity kinds for
// tables from their names.
//
// Both classifiers evaluate an ordered rule table with first-match-wins
// semantics: the tables are literal slices scanned front to back, and earlier
// rules always beat later ones. The tables are plain data (pattern string,
// allowed storage types, result tag) so they stay inspectable and testable;
// see field_rules.go and table_rules.go.
//
// Matching is case-insensitive: names are NFKC-folded and lowercased before
// matching, and the caller's stored name is never mutated. Each pattern
// carries its own anchoring; some rules intentionally match substrings
// ("amount" anywhere in "amount_paid"), others pin the whole name with ^$.
// That per-rule distinction is part of the rule data, not a global mode.
//
// The classifiers are pure functions over immutable package-level tables and
// are safe for unlimited concurrent use. The only external touch point is
// the engine-kind lookup consulted by Table as its second fallback stage;
// any failure there degrades to the generic entity kind, never to an error.
//
// Rule-table hygiene (valid patterns, registered tags) is checked by
// Validate, which bootstrap code runs in non-production builds only. A rule
// with an invalid pattern is never a runtime fault: it simply never matches.
package classify

import (
	"errors"
	"regexp"

	"metascan/internal/semtype"
)

// ErrEmptyName is returned when a caller passes an empty (or all-whitespace)
// field or table name. Empty names are an input-contract violation, not a
// "no inference" outcome.
var ErrEmptyName = errors.New("classify: name must not be empty")

// FieldRule maps a name pattern plus allowed storage types to a semantic
// type. Rules are evaluated in table order; the first rule whose pattern
// matches the normalized name AND whose storage set admits the field's
// storage type wins.
type FieldRule struct {
	// Pattern is a regular expression evaluated against the normalized
	// (lowercased) field name. Unanchored patterns match anywhere in the
	// name; anchored patterns (^...$) require an exact match.
	Pattern string

	// Storage lists the storage types this rule applies to. A field
	// satisfies the set when its storage type is-a any listed type
	// (subtype-aware, so "integer" satisfies a "number" entry).
	// An empty set admits every storage type.
	Storage []semtype.Type

	// Result is the semantic type inferred when the rule matches.
	Result semtype.Type

	re *regexp.Regexp // compiled Pattern; nil when Pattern does not compile
}

// TableNameRule maps a name pattern to an entity kind. Table rules have no
// storage-type dimension.
type TableNameRule struct {
	Pattern string
	Result  semtype.Type

	re *regexp.Regexp
}

// compileFieldRules compiles rule patterns in place and returns the table.
//
// Compilation failures are deliberately swallowed here: the rule keeps a nil
// regexp and never matches. Validate surfaces the defect; production runs
// must not crash over one bad table entry.
func compileFieldRules(rules []FieldRule) []FieldRule {
	for i := range rules {
		if re, err := regexp.Compile(rules[i].Pattern); err == nil {
			rules[i].re = re
		}
	}
	return rules
}

func compileTableRules(rules []TableNameRule) []TableNameRule {
	for i := range rules {
		if re, err := regexp.Compile(rules[i].Pattern); err == nil {
			rules[i].re = re
		}
	}
	return rules
}

// allowsStorage reports whether the rule admits the given storage type.
func (r FieldRule) allowsStorage(h *semtype.Hierarchy, storage semtype.Type) bool {
	if len(r.Storage) == 0 {
		return true
	}
	for _, allowed := range r.Storage {
		if h.IsA(storage, allowed) {
			return true
		}
	}
	return false
}
