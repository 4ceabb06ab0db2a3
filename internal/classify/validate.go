package classify

import (
	"fmt"
	"regexp"

	"metascan/internal/semtype"
)

// Violation describes one rule-table or hierarchy defect found by Validate.
type Violation struct {
	// Where identifies the table: "hierarchy", "field_rules",
	// "table_rules", or "engine_kinds".
	Where string
	// Rule identifies the offending entry (pattern or engine kind).
	Rule string
	// Detail is a human-readable description of the defect.
	Detail string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: rule %q: %s", v.Where, v.Rule, v.Detail)
}

// Validate runs the startup self-check over the hierarchy and both rule
// tables and returns every violation found (empty when all is well).
//
// This is a development-time assertion, not part of the classification path:
// bootstrap runs it in non-production builds and decides whether to abort.
// Production builds skip it entirely; an invalid rule then simply never
// matches (see compileFieldRules).
//
// Checks:
//   - hierarchy is acyclic and fully registered (semtype.Hierarchy.Validate)
//   - every rule pattern is a valid regular expression
//   - every allowed storage type and every result tag is registered
//   - every engine-kind mapping result is registered
func Validate() []Violation {
	h := semtype.Default()

	var out []Violation

	for _, detail := range h.Validate() {
		out = append(out, Violation{Where: "hierarchy", Detail: detail})
	}

	for _, r := range fieldRules {
		if _, err := regexp.Compile(r.Pattern); err != nil {
			out = append(out, Violation{
				Where: "field_rules", Rule: r.Pattern,
				Detail: fmt.Sprintf("invalid pattern: %v", err),
			})
		}
		for _, st := range r.Storage {
			if !h.Registered(st) {
				out = append(out, Violation{
					Where: "field_rules", Rule: r.Pattern,
					Detail: fmt.Sprintf("unregistered storage type %q", st),
				})
			}
		}
		if !h.Registered(r.Result) {
			out = append(out, Violation{
				Where: "field_rules", Rule: r.Pattern,
				Detail: fmt.Sprintf("unregistered result type %q", r.Result),
			})
		}
	}

	for _, r := range tableNameRules {
		if _, err := regexp.Compile(r.Pattern); err != nil {
			out = append(out, Violation{
				Where: "table_rules", Rule: r.Pattern,
				Detail: fmt.Sprintf("invalid pattern: %v", err),
			})
		}
		if !h.Registered(r.Result) {
			out = append(out, Violation{
				Where: "table_rules", Rule: r.Pattern,
				Detail: fmt.Sprintf("unregistered result kind %q", r.Result),
			})
		}
	}

	for kind, entity := range engineEntityKinds {
		if !h.Registered(entity) {
			out = append(out, Violation{
				Where: "engine_kinds", Rule: kind,
				Detail: fmt.Sprintf("unregistered entity kind %q", entity),
			})
		}
	}

	return out
}
