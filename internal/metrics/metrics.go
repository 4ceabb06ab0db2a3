// Package metrics defines the minimal metrics surface the classification
// pipeline emits through.
//
// The core packages never import a metrics vendor; they depend only on
// Backend. Vendor-specific code lives in subpackages (see metrics/datadog).
package metrics

// Labels attach dimensions to a metric sample (e.g. semantic_type, entity_kind).
type Labels map[string]string

// Backend receives counters and histogram samples.
//
// Implementations must be safe for concurrent use; the annotation engine
// calls them from multiple workers.
type Backend interface {
	// IncCounter adds delta to the named counter. Deltas <= 0 are ignored.
	IncCounter(name string, delta float64, labels Labels)

	// ObserveHistogram records one sample of the named distribution.
	ObserveHistogram(name string, value float64, labels Labels)
}

// Metric names emitted by the annotation engine. Backends may ignore names
// they do not recognize.
const (
	FieldsTotal        = "metascan_fields_total"        // label: semantic_type ("" counts as none)
	TablesTotal        = "metascan_tables_total"        // label: entity_kind
	LookupErrorsTotal  = "metascan_lookup_errors_total" // registry lookup failures
	ClassifyDurSeconds = "metascan_classify_duration_seconds"
)

// Noop is a Backend that discards everything. Useful as a default so callers
// never need nil checks.
type Noop struct{}

func (Noop) IncCounter(string, float64, Labels)       {}
func (Noop) ObserveHistogram(string, float64, Labels) {}

var _ Backend = Noop{}
