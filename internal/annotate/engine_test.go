package annotate

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"metascan/internal/metrics"
	"metascan/internal/registry"
	"metascan/internal/semtype"
)

// fakeLookup is a deterministic registry for engine tests.
type fakeLookup struct {
	kinds map[string]string
	err   error
}

func (f *fakeLookup) EngineKind(_ context.Context, id string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	kind, ok := f.kinds[id]
	if !ok {
		return "", registry.ErrNotFound
	}
	return kind, nil
}

// memBackend is a concurrency-safe metrics.Backend that records counters.
type memBackend struct {
	mu       sync.Mutex
	counters map[string]float64 // "name|labelvalue" -> total
	samples  int
}

func newMemBackend() *memBackend {
	return &memBackend{counters: map[string]float64{}}
}

func (m *memBackend) IncCounter(name string, delta float64, labels metrics.Labels) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := name
	for _, v := range labels {
		key += "|" + v
	}
	m.counters[key] += delta
}

func (m *memBackend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples++
}

func (m *memBackend) get(key string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[key]
}

// memRecorder collects decision records.
type memRecorder struct {
	mu     sync.Mutex
	fields int
	tables int
}

func (r *memRecorder) FieldClassified(string, string, semtype.Type, semtype.Type) {
	r.mu.Lock()
	r.fields++
	r.mu.Unlock()
}

func (r *memRecorder) TableClassified(string, semtype.Type) {
	r.mu.Lock()
	r.tables++
	r.mu.Unlock()
}

func testSnapshot() Snapshot {
	return Snapshot{Tables: []Table{
		{
			Name:         "orders",
			DataSourceID: "ds-pg",
			Fields: []Field{
				{Name: "id", StorageType: semtype.Integer},
				{Name: "user_lat", StorageType: semtype.Float},
				{Name: "total", StorageType: semtype.Float},
				{Name: "frobnication", StorageType: semtype.Text},
			},
		},
		{
			Name:         "widgets",
			DataSourceID: "ds-druid",
			Fields: []Field{
				{Name: "page_count", StorageType: semtype.Integer},
				// Pre-classified fields are left untouched.
				{Name: "total", StorageType: semtype.Float, SemanticType: semtype.Cost},
			},
		},
	}}
}

// TestEngineRun verifies a full sweep: classification results, metrics,
// decision records, and that the input snapshot stays unmodified.
func TestEngineRun(t *testing.T) {
	t.Parallel()

	in := testSnapshot()
	inCopy := cloneSnapshot(in)

	mb := newMemBackend()
	rec := &memRecorder{}

	e := &Engine{
		Lookup:   &fakeLookup{kinds: map[string]string{"ds-druid": "druid", "ds-pg": "postgres"}},
		Recorder: rec,
		Metrics:  mb,
		Workers:  2,
	}

	out, err := e.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !reflect.DeepEqual(in, inCopy) {
		t.Fatal("Run mutated its input snapshot")
	}

	orders := out.Tables[0]
	if orders.EntityKind != semtype.TransactionTable {
		t.Errorf("orders entity kind = %q, want transaction_table", orders.EntityKind)
	}
	wantFields := []Field{
		{Name: "id", StorageType: semtype.Integer, SemanticType: semtype.PrimaryKey},
		{Name: "user_lat", StorageType: semtype.Float, SemanticType: semtype.Latitude},
		{Name: "total", StorageType: semtype.Float, SemanticType: semtype.Income},
		{Name: "frobnication", StorageType: semtype.Text},
	}
	if !reflect.DeepEqual(orders.Fields, wantFields) {
		t.Errorf("orders fields = %+v, want %+v", orders.Fields, wantFields)
	}

	widgets := out.Tables[1]
	if widgets.EntityKind != semtype.EventTable {
		t.Errorf("widgets entity kind = %q, want event_table (druid engine)", widgets.EntityKind)
	}
	if widgets.Fields[1].SemanticType != semtype.Cost {
		t.Errorf("pre-classified field changed to %q", widgets.Fields[1].SemanticType)
	}

	// Decision records: 2 tables, 5 unclassified fields (the pre-classified
	// one is skipped).
	if rec.tables != 2 || rec.fields != 5 {
		t.Errorf("records = %d tables / %d fields, want 2 / 5", rec.tables, rec.fields)
	}

	if got := mb.get(metrics.TablesTotal + "|" + string(semtype.TransactionTable)); got != 1 {
		t.Errorf("tables_total{transaction_table} = %v, want 1", got)
	}
	if got := mb.get(metrics.FieldsTotal + "|" + string(semtype.Latitude)); got != 1 {
		t.Errorf("fields_total{latitude} = %v, want 1", got)
	}
	// The unmatched field counts with an empty label.
	if got := mb.get(metrics.FieldsTotal + "|"); got != 1 {
		t.Errorf("fields_total{} = %v, want 1", got)
	}
	if mb.samples != 2 {
		t.Errorf("duration samples = %d, want 2", mb.samples)
	}
}

// TestEngineLookupFailure verifies a broken registry degrades to the generic
// entity kind, is counted as a lookup error, and never fails the sweep.
func TestEngineLookupFailure(t *testing.T) {
	t.Parallel()

	mb := newMemBackend()
	e := &Engine{
		Lookup:  &fakeLookup{err: errors.New("registry down")},
		Metrics: mb,
	}

	out, err := e.Run(context.Background(), Snapshot{Tables: []Table{
		{Name: "widgets", DataSourceID: "ds-1"},
	}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := out.Tables[0].EntityKind; got != semtype.GenericTable {
		t.Fatalf("entity kind = %q, want generic_table", got)
	}
	if got := mb.get(metrics.LookupErrorsTotal); got != 1 {
		t.Fatalf("lookup_errors_total = %v, want 1", got)
	}
}

// TestEngineNotFoundIsNotAnError verifies ErrNotFound is a normal outcome:
// generic fallback, no lookup-error count.
func TestEngineNotFoundIsNotAnError(t *testing.T) {
	t.Parallel()

	mb := newMemBackend()
	e := &Engine{Lookup: &fakeLookup{}, Metrics: mb}

	out, err := e.Run(context.Background(), Snapshot{Tables: []Table{
		{Name: "widgets", DataSourceID: "ds-unknown"},
	}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := out.Tables[0].EntityKind; got != semtype.GenericTable {
		t.Fatalf("entity kind = %q, want generic_table", got)
	}
	if got := mb.get(metrics.LookupErrorsTotal); got != 0 {
		t.Fatalf("lookup_errors_total = %v, want 0", got)
	}
}

// TestEngineMalformedSnapshot verifies empty names abort the sweep with an
// input-contract error instead of being silently defaulted.
func TestEngineMalformedSnapshot(t *testing.T) {
	t.Parallel()

	e := &Engine{}

	_, err := e.Run(context.Background(), Snapshot{Tables: []Table{
		{Name: "orders", Fields: []Field{{Name: "   ", StorageType: semtype.Text}}},
	}})
	if err == nil {
		t.Fatal("Run succeeded on a field with an empty name")
	}

	_, err = e.Run(context.Background(), Snapshot{Tables: []Table{
		{Name: ""},
	}})
	if err == nil {
		t.Fatal("Run succeeded on a table with an empty name")
	}
}

// TestEngineNilCollaborators verifies the zero-value engine works: nil
// lookup, recorder, and metrics all have safe defaults.
func TestEngineNilCollaborators(t *testing.T) {
	t.Parallel()

	var e Engine
	out, err := e.Run(context.Background(), testSnapshot())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Without a registry, widgets resolves generically.
	if got := out.Tables[1].EntityKind; got != semtype.GenericTable {
		t.Fatalf("widgets entity kind = %q, want generic_table", got)
	}
}

// TestEngineCanceledContext verifies cancellation aborts the sweep.
func TestEngineCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var e Engine
	if _, err := e.Run(ctx, testSnapshot()); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run err = %v, want context.Canceled", err)
	}
}
