// Package datadog implements a Datadog backend for the internal/metrics package.
//
// Classification sweeps can be short-lived (one-shot CLI runs) or embedded in
// a long-running sync service. Submitting once at exit would turn a long run
// into a single spike on dashboards, so this backend:
//
//   - buffers metrics in-memory (fast, lock-protected)
//   - periodically Flush()es on a ticker (default: once per minute)
//   - Flush()es one final time on Close()
//
// Concurrency model:
//   - annotation workers can call IncCounter/ObserveHistogram at any time
//   - Flush snapshots+resets buffers under a mutex, then submits out-of-lock
//   - the flush loop calls Flush() periodically; Close() stops the loop
//
// The core pipeline depends only on metrics.Backend; nothing Datadog-specific
// leaks out of this package.
package datadog

import (
	"context"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"metascan/internal/metrics"

	dd "github.com/DataDog/datadog-api-client-go/v2/api/datadog"
	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"
)

// Options controls Datadog backend configuration.
type Options struct {
	// JobName becomes tag "job:<name>" on every metric.
	// If empty, defaults to "metascan".
	JobName string

	// Tags are extra Datadog tags (e.g. []string{"env:prod", "service:metascan"}).
	Tags []string

	// FlushEvery controls how often buffered metrics are submitted.
	// If <= 0, defaults to 60 seconds.
	FlushEvery time.Duration

	// The following fields are unexported test seams. Production code never
	// sets them; unit tests use them to avoid real network submission and
	// nondeterministic clocks/tickers.
	now       func() time.Time
	newTicker func(d time.Duration) *time.Ticker
	submitter metricsSubmitter
}

// metricsSubmitter is the minimal interface needed to submit metrics.
//
// The Datadog SDK exposes a concrete *datadogV2.MetricsApi, which cannot be
// stubbed without real HTTP. Backend depends on this interface instead,
// enabling deterministic tests with a fake submitter.
type metricsSubmitter interface {
	SubmitMetrics(ctx context.Context, body datadogV2.MetricPayload, params ...datadogV2.SubmitMetricsOptionalParameters) (datadogV2.IntakePayloadAccepted, *http.Response, error)
}

// Backend implements metrics.Backend for Datadog.
type Backend struct {
	api metricsSubmitter
	ctx context.Context

	flushEvery time.Duration
	stopCh     chan struct{}
	doneCh     chan struct{}

	baseTags []string

	// now is injected for deterministic tests. Production uses time.Now.
	now func() time.Time

	// newTicker is injected for deterministic tests. Production uses time.NewTicker.
	newTicker func(d time.Duration) *time.Ticker

	mu sync.Mutex

	fieldCounts     map[string]float64 // semantic_type -> classified fields
	tableCounts     map[string]float64 // entity_kind -> classified tables
	lookupErrCount  float64
	durationSamples []float64
}

func resolveEnvTag() string {
	if v := strings.TrimSpace(os.Getenv("ENV")); v != "" {
		return "env:" + v
	}
	if v := strings.TrimSpace(os.Getenv("DD_ENV")); v != "" {
		return "env:" + v
	}
	return "env:unknown"
}

// NewBackend constructs a Datadog backend using the official client.
//
// Edge cases:
//   - If opts.FlushEvery <= 0, defaults to 60s.
//   - If opts.JobName is empty, defaults to "metascan".
//   - Environment tag selection uses ENV then DD_ENV, otherwise env:unknown.
//
// Errors:
//   - Datadog client construction is not expected to fail; network errors
//     surface later, from Flush().
func NewBackend(parent context.Context, opts Options) (*Backend, error) {
	job := opts.JobName
	if job == "" {
		job = "metascan"
	}

	flushEvery := opts.FlushEvery
	if flushEvery <= 0 {
		flushEvery = 60 * time.Second
	}

	baseTags := make([]string, 0, 2+len(opts.Tags))
	baseTags = append(baseTags, resolveEnvTag(), "job:"+job)
	baseTags = append(baseTags, opts.Tags...)

	nowFn := opts.now
	if nowFn == nil {
		nowFn = time.Now
	}
	newTicker := opts.newTicker
	if newTicker == nil {
		newTicker = time.NewTicker
	}

	submitter := opts.submitter
	if submitter == nil {
		cfg := dd.NewConfiguration()
		client := dd.NewAPIClient(cfg)
		submitter = datadogV2.NewMetricsApi(client)
	}

	b := &Backend{
		api:        submitter,
		ctx:        dd.NewDefaultContext(parent),
		flushEvery: flushEvery,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),

		baseTags: baseTags,

		now:       nowFn,
		newTicker: newTicker,

		fieldCounts: make(map[string]float64),
		tableCounts: make(map[string]float64),
	}

	go b.loop()
	return b, nil
}

func (b *Backend) loop() {
	defer close(b.doneCh)

	t := b.newTicker(b.flushEvery)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			_ = b.Flush()
		case <-b.stopCh:
			return
		}
	}
}

// Close stops the background flush loop and performs one final Flush().
//
// Errors:
//   - Returns any error from the final Flush() submission.
//   - Close must be called at most once; a second call panics on the closed
//     stop channel, mirroring typical Go "Close once" semantics.
func (b *Backend) Close() error {
	close(b.stopCh)
	<-b.doneCh
	return b.Flush()
}

// IncCounter implements metrics.Backend.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	if delta <= 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch name {
	case metrics.FieldsTotal:
		semantic := labels["semantic_type"]
		if semantic == "" {
			semantic = "none"
		}
		b.fieldCounts[semantic] += delta

	case metrics.TablesTotal:
		entity := labels["entity_kind"]
		if entity == "" {
			return
		}
		b.tableCounts[entity] += delta

	case metrics.LookupErrorsTotal:
		b.lookupErrCount += delta

	default:
		// Ignore unknown metrics by design.
	}
}

// ObserveHistogram implements metrics.Backend.
func (b *Backend) ObserveHistogram(name string, value float64, _ metrics.Labels) {
	if value < 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch name {
	case metrics.ClassifyDurSeconds:
		b.durationSamples = append(b.durationSamples, value)

	default:
		// Ignore unknown histograms by design.
	}
}

// snapshot is the detached buffered state used to build one flush payload.
// Flush must reset buffers under the lock but submit out-of-lock; snapshot
// separates collect+reset from payload building+submission.
type snapshot struct {
	fieldCounts     map[string]float64
	tableCounts     map[string]float64
	lookupErrCount  float64
	durationSamples []float64
}

// snapshotAndReset grabs current buffered metrics and resets internal buffers.
func (b *Backend) snapshotAndReset() snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := snapshot{
		fieldCounts:     b.fieldCounts,
		tableCounts:     b.tableCounts,
		lookupErrCount:  b.lookupErrCount,
		durationSamples: b.durationSamples,
	}

	b.fieldCounts = make(map[string]float64)
	b.tableCounts = make(map[string]float64)
	b.lookupErrCount = 0
	b.durationSamples = nil

	return s
}

func (s snapshot) isEmpty() bool {
	return len(s.fieldCounts) == 0 &&
		len(s.tableCounts) == 0 &&
		s.lookupErrCount == 0 &&
		len(s.durationSamples) == 0
}

// Flush submits buffered metrics to Datadog and resets local buffers.
//
// Edge cases:
//   - Safe to call concurrently with IncCounter/ObserveHistogram.
//   - Returns nil when there is nothing to submit.
//   - Buffers are reset even if submission fails, so a slow or broken intake
//     never blocks classification work.
func (b *Backend) Flush() error {
	snap := b.snapshotAndReset()
	if snap.isEmpty() {
		return nil
	}

	series := b.buildSeries(snap, b.now().Unix())
	payload := datadogV2.MetricPayload{Series: series}

	_, _, err := b.api.SubmitMetrics(b.ctx, payload, *datadogV2.NewSubmitMetricsOptionalParameters())
	return err
}

// buildSeries constructs Datadog series for a snapshot at a fixed timestamp.
//
// It is pure (no locks, no network, no clocks), which keeps the naming and
// tagging behavior, which is an operational contract, unit-testable.
func (b *Backend) buildSeries(s snapshot, nowUnix int64) []datadogV2.MetricSeries {
	series := make([]datadogV2.MetricSeries, 0, len(s.fieldCounts)+len(s.tableCounts)+8)

	for semantic, v := range s.fieldCounts {
		if v == 0 {
			continue
		}
		tags := withTags(b.baseTags, "semantic_type:"+semantic)
		series = append(series, countSeries("metascan.fields.total", v, tags, nowUnix))
	}

	for entity, v := range s.tableCounts {
		if v == 0 {
			continue
		}
		tags := withTags(b.baseTags, "entity_kind:"+entity)
		series = append(series, countSeries("metascan.tables.total", v, tags, nowUnix))
	}

	if s.lookupErrCount != 0 {
		series = append(series, countSeries("metascan.lookup_errors.total", s.lookupErrCount, b.baseTags, nowUnix))
	}

	if len(s.durationSamples) > 0 {
		cp := append([]float64(nil), s.durationSamples...)
		sort.Float64s(cp)

		prefix := "metascan.classify.duration_seconds"
		series = append(series,
			gaugeSeries(prefix+".p50", percentileNearestRank(cp, 0.50), b.baseTags, nowUnix),
			gaugeSeries(prefix+".p90", percentileNearestRank(cp, 0.90), b.baseTags, nowUnix),
			gaugeSeries(prefix+".p95", percentileNearestRank(cp, 0.95), b.baseTags, nowUnix),
			gaugeSeries(prefix+".p99", percentileNearestRank(cp, 0.99), b.baseTags, nowUnix),
			gaugeSeries(prefix+".max", cp[len(cp)-1], b.baseTags, nowUnix),
			gaugeSeries(prefix+".samples", float64(len(cp)), b.baseTags, nowUnix),
		)
	}

	return series
}

func countSeries(metric string, value float64, tags []string, nowUnix int64) datadogV2.MetricSeries {
	return datadogV2.MetricSeries{
		Metric: metric,
		Type:   datadogV2.METRICINTAKETYPE_COUNT.Ptr(),
		Points: []datadogV2.MetricPoint{
			{Timestamp: dd.PtrInt64(nowUnix), Value: dd.PtrFloat64(value)},
		},
		Tags: tags,
	}
}

func gaugeSeries(metric string, value float64, tags []string, nowUnix int64) datadogV2.MetricSeries {
	return datadogV2.MetricSeries{
		Metric: metric,
		Type:   datadogV2.METRICINTAKETYPE_GAUGE.Ptr(),
		Points: []datadogV2.MetricPoint{
			{Timestamp: dd.PtrInt64(nowUnix), Value: dd.PtrFloat64(value)},
		},
		Tags: tags,
	}
}

func withTags(base []string, extras ...string) []string {
	out := make([]string, 0, len(base)+len(extras))
	out = append(out, base...)
	out = append(out, extras...)
	return out
}

func percentileNearestRank(s []float64, p float64) float64 {
	n := len(s)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return s[0]
	}
	if p >= 1 {
		return s[n-1]
	}
	idx := int(p*float64(n-1) + 0.5)
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return s[idx]
}

var _ metrics.Backend = (*Backend)(nil)
