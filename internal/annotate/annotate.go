// Package annotate runs the classification sweep over a schema snapshot.
//
// The classifiers in internal/classify are pure; this package owns everything
// around them: walking tables and fields, consulting the data-source
// registry, recording human-readable decisions, and emitting metrics. It
// reads a snapshot and returns an annotated copy. Results are handed back to
// the caller as JSON-ready structs, never persisted here.
package annotate

import "metascan/internal/semtype"

// Field is one column of a table in a schema snapshot.
//
// SemanticType is both input and output: a field that already carries a
// semantic type is left untouched, and a field the classifier cannot infer
// keeps whatever it had (usually empty).
type Field struct {
	Name         string       `json:"name"`
	StorageType  semtype.Type `json:"storage_type"`
	SemanticType semtype.Type `json:"semantic_type,omitempty"`
}

// Table is one table of a schema snapshot.
//
// EntityKind is output-only here: classification always resolves it, at
// minimum to the generic kind.
type Table struct {
	Name         string       `json:"name"`
	DataSourceID string       `json:"data_source_id"`
	EntityKind   semtype.Type `json:"entity_kind,omitempty"`
	Fields       []Field      `json:"fields"`
}

// Snapshot is the schema input/output of a sweep.
type Snapshot struct {
	Tables []Table `json:"tables"`
}
