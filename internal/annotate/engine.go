package annotate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"metascan/internal/classify"
	"metascan/internal/metrics"
	"metascan/internal/registry"
)

// DefaultWorkers bounds sweep concurrency when the config does not say
// otherwise. Classification is cheap; the pool exists so registry lookups
// for many tables can overlap.
const DefaultWorkers = 4

// Engine sweeps a snapshot through the classifiers.
//
// All fields are optional except Lookup being nil, which is allowed too:
// table classification then skips its engine-kind stage and falls through to
// the generic kind.
type Engine struct {
	// Lookup resolves data source ids to engine kinds. Typically a
	// registry.Catalog; nil disables the engine-kind fallback stage.
	Lookup registry.KindLookup

	// Recorder receives decision records. Nil means NopRecorder.
	Recorder Recorder

	// Metrics receives sweep counters and timings. Nil means metrics.Noop.
	Metrics metrics.Backend

	// Workers bounds concurrent table sweeps. <= 0 means DefaultWorkers.
	Workers int
}

// Run classifies every table and field of the snapshot and returns an
// annotated copy. The input snapshot is never mutated.
//
// Per-field behavior:
//   - fields that already carry a semantic type are left untouched and
//     produce no decision record
//   - fields the classifier cannot infer keep their (empty) semantic type
//
// Errors:
//   - An empty table or field name aborts the sweep: that is a malformed
//     snapshot, not a classification outcome. Registry failures never abort
//     (they degrade to the generic entity kind inside classification).
//   - ctx cancellation aborts between tables.
func (e *Engine) Run(ctx context.Context, snap Snapshot) (Snapshot, error) {
	rec := e.Recorder
	if rec == nil {
		rec = NopRecorder{}
	}
	var mb metrics.Backend = metrics.Noop{}
	if e.Metrics != nil {
		mb = e.Metrics
	}
	lookup := e.Lookup
	if lookup != nil {
		// Count hard lookup failures without changing fallback behavior.
		lookup = &countingLookup{next: e.Lookup, metrics: mb}
	}

	workers := e.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(snap.Tables) && len(snap.Tables) > 0 {
		workers = len(snap.Tables)
	}

	out := cloneSnapshot(snap)

	jobs := make(chan int)
	errCh := make(chan error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// A failed worker keeps draining jobs so the feeder never
			// blocks; it just stops doing work.
			failed := false
			for i := range jobs {
				if failed {
					continue
				}
				if err := e.sweepTable(ctx, &out.Tables[i], lookup, rec, mb); err != nil {
					errCh <- err
					failed = true
				}
			}
		}()
	}

feed:
	for i := range out.Tables {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(errCh)

	if err := <-errCh; err != nil {
		return Snapshot{}, err
	}
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	return out, nil
}

// sweepTable classifies one table and all of its fields in place.
func (e *Engine) sweepTable(ctx context.Context, t *Table, lookup registry.KindLookup, rec Recorder, mb metrics.Backend) error {
	start := time.Now()

	entity, err := classify.Table(ctx, t.Name, t.DataSourceID, lookup)
	if err != nil {
		return fmt.Errorf("table %q: %w", t.Name, err)
	}
	t.EntityKind = entity
	rec.TableClassified(t.Name, entity)
	mb.IncCounter(metrics.TablesTotal, 1, metrics.Labels{"entity_kind": string(entity)})

	for i := range t.Fields {
		f := &t.Fields[i]
		if f.SemanticType != "" {
			continue
		}

		semantic, err := classify.Field(f.Name, f.StorageType)
		if err != nil {
			return fmt.Errorf("table %q field %q: %w", t.Name, f.Name, err)
		}
		f.SemanticType = semantic
		rec.FieldClassified(t.Name, f.Name, f.StorageType, semantic)
		mb.IncCounter(metrics.FieldsTotal, 1, metrics.Labels{"semantic_type": string(semantic)})
	}

	mb.ObserveHistogram(metrics.ClassifyDurSeconds, time.Since(start).Seconds(), nil)
	return nil
}

// countingLookup forwards to the real lookup and counts hard failures.
// ErrNotFound is a normal outcome and is not counted.
type countingLookup struct {
	next    registry.KindLookup
	metrics metrics.Backend
}

func (c *countingLookup) EngineKind(ctx context.Context, dataSourceID string) (string, error) {
	kind, err := c.next.EngineKind(ctx, dataSourceID)
	if err != nil && !errors.Is(err, registry.ErrNotFound) {
		c.metrics.IncCounter(metrics.LookupErrorsTotal, 1, nil)
	}
	return kind, err
}

func cloneSnapshot(in Snapshot) Snapshot {
	out := Snapshot{Tables: make([]Table, len(in.Tables))}
	for i, t := range in.Tables {
		t.Fields = append([]Field(nil), t.Fields...)
		out.Tables[i] = t
	}
	return out
}
