package dict

import (
	"strings"

	"metascan/internal/semtype"
)

// StorageTypeFromDeclared folds a declared SQL type, as printed in a data
// dictionary, into a storage type tag. Precision and length suffixes are
// ignored, so "VARCHAR(255)" and "numeric(10,2)" resolve the same as their
// bare names.
//
// Edge cases:
//   - "datetime"/"timestamp" variants are checked before "date" and "time",
//     which they contain as substrings.
//   - Anything unrecognized, including an empty declaration, resolves to
//     text. Text gates the fewest field rules, so a wrong guess here can
//     suppress an inference but never produce a type-incompatible one.
func StorageTypeFromDeclared(declared string) semtype.Type {
	d := strings.ToLower(strings.TrimSpace(declared))
	if i := strings.IndexByte(d, '('); i >= 0 {
		d = strings.TrimSpace(d[:i])
	}

	switch {
	case strings.Contains(d, "timestamp"), strings.Contains(d, "datetime"):
		return semtype.DateTime
	case d == "date":
		return semtype.Date
	case d == "time", strings.HasPrefix(d, "time "): // "time with time zone"
		return semtype.Time
	case strings.Contains(d, "bool"), d == "bit":
		return semtype.Boolean
	case strings.Contains(d, "int"), strings.Contains(d, "serial"):
		return semtype.Integer
	case strings.Contains(d, "float"), strings.Contains(d, "double"), d == "real":
		return semtype.Float
	case strings.Contains(d, "decimal"), strings.Contains(d, "numeric"), d == "money":
		return semtype.Decimal
	default:
		return semtype.Text
	}
}
