package classify

import (
	"context"

	"metascan/internal/registry"
	"metascan/internal/semtype"
)

// Table infers an entity kind for a table. Unlike Field it always resolves:
// every table is at least a generic table.
//
// The three fallback stages run in a fixed order that must not change:
//
//  1. Ordered name rules (first match wins).
//  2. The owning data source's engine kind, resolved through lookup and
//     mapped via engineEntityKinds ("druid" tables are event tables even
//     when their names say nothing).
//  3. semtype.GenericTable.
//
// Stage 2 consults an external catalog; any failure there (not found,
// unreachable, unrecognized engine kind) means "no mapping" and falls
// through to stage 3. Lookup errors never propagate to the caller. A nil
// lookup simply skips stage 2.
//
// Errors:
//   - ErrEmptyName when name is empty or all whitespace.
func Table(ctx context.Context, name, dataSourceID string, lookup registry.KindLookup) (semtype.Type, error) {
	n := normalizeName(name)
	if n == "" {
		return "", ErrEmptyName
	}

	for _, r := range tableNameRules {
		if r.re == nil {
			continue
		}
		if r.re.MatchString(n) {
			return r.Result, nil
		}
	}

	if lookup != nil {
		kind, err := lookup.EngineKind(ctx, dataSourceID)
		if err == nil {
			if entity, ok := engineEntityKinds[kind]; ok {
				return entity, nil
			}
		}
	}

	return semtype.GenericTable, nil
}
