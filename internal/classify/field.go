package classify

import "metascan/internal/semtype"

// Field infers a semantic type for a field from its name and storage type.
//
// Algorithm:
//  1. Normalize the name (lowercase, NFKC). The stored name is untouched.
//  2. A name that is exactly "id" is a primary key, regardless of storage
//     type. This check runs before the rule table and is not part of it.
//  3. Scan the ordered field rule table; the first rule whose storage set
//     admits the field's storage type and whose pattern matches the
//     normalized name supplies the result.
//
// A zero return with nil error means "no inference": the caller leaves any
// previously assigned semantic type untouched. Field never logs; decision
// records are the caller's concern.
//
// Errors:
//   - ErrEmptyName when name is empty or all whitespace.
func Field(name string, storage semtype.Type) (semtype.Type, error) {
	n := normalizeName(name)
	if n == "" {
		return "", ErrEmptyName
	}

	if n == "id" {
		return semtype.PrimaryKey, nil
	}

	h := semtype.Default()
	for _, r := range fieldRules {
		if r.re == nil {
			// Invalid pattern; surfaced by Validate, never matched here.
			continue
		}
		if !r.allowsStorage(h, storage) {
			continue
		}
		if r.re.MatchString(n) {
			return r.Result, nil
		}
	}

	return "", nil
}
