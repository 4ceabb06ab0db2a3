package classify

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizeName folds a field or table name into the canonical form rule
// patterns are written against: NFKC-normalized, lowercased, with
// surrounding whitespace removed.
//
// NFKC matters for schemas that round-tripped through documents or
// spreadsheets, where width/compatibility variants of ASCII letters show up
// in column names. The caller's stored name is never mutated.
func normalizeName(name string) string {
	return strings.ToLower(norm.NFKC.String(strings.TrimSpace(name)))
}
