// Command classify annotates a schema snapshot with semantic types.
//
// It reads a snapshot from one of two sources:
//
//   - -schema <path>: a JSON snapshot ({"tables": [...]}) as produced by a
//     metadata sync, or "-" for stdin
//   - -html <path>: an HTML data dictionary page, extracted into a
//     single-table snapshot (-table names it, -datasource is optional)
//
// and writes the annotated snapshot as JSON to stdout. Field and table
// names alone drive classification; no data is sampled.
//
// # Registry
//
// When the config names a registry backend ("postgres", "sqlite", "mssql",
// "memory"), tables whose names match no rule are resolved through the data
// source's engine kind. A missing or unreachable registry never fails a
// sweep; affected tables fall back to the generic kind.
//
// # DSN overrides
//
// Checked-in configs rarely carry real credentials. The registry DSN can be
// overridden without editing JSON, with strict precedence:
//
//  1. -dsn flag
//  2. DSN env var (full DSN string)
//  3. DSN_HOST / DSN_PORT / DSN_USER / DSN_PASSWORD / DSN_DB component env
//     vars, plus DSN_SSLMODE (postgres), DSN_ENCRYPT (mssql), DSN_SQLITE
//     (sqlite) and DSN_PARAMS
//  4. the config file's registry.dsn value
//
// # Output modes
//
//   - Default: annotated snapshot JSON on stdout (-pretty controls indent).
//   - Report mode (-report): a per-type summary on stdout, no JSON. Useful
//     for eyeballing coverage of a new warehouse without sifting through
//     the full snapshot.
//   - -validate: run the rule-table self-check and exit without
//     classifying.
//
// Unless the config sets production, the self-check also runs before every
// sweep and refuses to start on a defective rule table.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"metascan/internal/annotate"
	"metascan/internal/classify"
	"metascan/internal/config"
	"metascan/internal/dict"
	"metascan/internal/metrics/datadog"
	"metascan/internal/registry"

	// Register all registry backends with the factory. The config selects
	// which one to use, but support for all of them is built in.
	_ "metascan/internal/registry/memory"
	_ "metascan/internal/registry/mssql"
	_ "metascan/internal/registry/postgres"
	_ "metascan/internal/registry/sqlite"

	// database/sql driver for the mssql registry backend.
	_ "github.com/microsoft/go-mssqldb"
)

func main() {
	var (
		flagConfig     = flag.String("config", "", "Config JSON path; empty means built-in defaults")
		flagSchema     = flag.String("schema", "", "Schema snapshot JSON path, or - for stdin")
		flagHTML       = flag.String("html", "", "HTML data dictionary path (alternative to -schema)")
		flagTable      = flag.String("table", "", "Table name for -html input")
		flagDataSource = flag.String("datasource", "", "Data source id for -html input")
		flagDSN        = flag.String("dsn", "", "Override registry DSN (highest priority)")
		flagPretty     = flag.Bool("pretty", true, "Pretty-print JSON output")
		flagReport     = flag.Bool("report", false, "Print a classification summary (suppresses JSON output)")
		flagValidate   = flag.Bool("validate", false, "Run the rule-table self-check and exit")
		flagVerbose    = flag.Bool("v", false, "Log every classification decision to stderr")
	)
	flag.Parse()

	if *flagValidate {
		os.Exit(runSelfCheck())
	}

	cfg, err := loadConfig(*flagConfig)
	if err != nil {
		fatalf("%v", err)
	}

	snap, err := loadSnapshot(*flagSchema, *flagHTML, *flagTable, *flagDataSource)
	if err != nil {
		fatalf("%v", err)
	}

	if !cfg.Production {
		if code := runSelfCheck(); code != 0 {
			os.Exit(code)
		}
	}

	ctx := context.Background()

	e := &annotate.Engine{Workers: cfg.Runtime.ClassifyWorkers}
	if *flagVerbose {
		e.Recorder = annotate.LogRecorder{}
	}

	if kind := cfg.Registry.NormalizedKind(); kind != "" {
		dsn, err := config.ResolveDSN(kind, *flagDSN, cfg.Registry.DSN)
		if err != nil {
			fatalf("resolve dsn: %v", err)
		}
		cat, err := registry.New(ctx, registry.Config{Kind: kind, DSN: dsn})
		if err != nil {
			fatalf("open registry: %v", err)
		}
		defer cat.Close()
		e.Lookup = cat
	}

	if cfg.Metrics.Enabled {
		b, err := datadog.NewBackend(ctx, datadog.Options{
			JobName:    cfg.Job,
			Tags:       cfg.Metrics.Tags,
			FlushEvery: time.Duration(cfg.Metrics.FlushSeconds) * time.Second,
		})
		if err != nil {
			log.Printf("metrics: datadog init failed: %v; continuing without", err)
		} else {
			// Close stops the flush loop and submits once more.
			defer func() {
				if err := b.Close(); err != nil {
					log.Printf("metrics: final flush: %v", err)
				}
			}()
			e.Metrics = b
		}
	}

	out, err := e.Run(ctx, snap)
	if err != nil {
		fatalf("classify: %v", err)
	}

	if *flagReport {
		fmt.Print(summarize(out))
		return
	}

	enc := json.NewEncoder(os.Stdout)
	if *flagPretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(out); err != nil {
		fatalf("encode snapshot: %v", err)
	}
}

// loadConfig loads the config file, or returns runnable defaults when no
// path is given.
func loadConfig(path string) (config.Config, error) {
	if strings.TrimSpace(path) == "" {
		return config.Config{Job: "metascan"}, nil
	}
	return config.Load(path)
}

// loadSnapshot builds the input snapshot from exactly one of the two input
// flags.
func loadSnapshot(schemaPath, htmlPath, tableName, dataSourceID string) (annotate.Snapshot, error) {
	schemaPath = strings.TrimSpace(schemaPath)
	htmlPath = strings.TrimSpace(htmlPath)

	switch {
	case schemaPath != "" && htmlPath != "":
		return annotate.Snapshot{}, fmt.Errorf("-schema and -html are mutually exclusive")
	case schemaPath != "":
		return loadSchemaSnapshot(schemaPath)
	case htmlPath != "":
		table, err := dict.Load(htmlPath, dict.Options{
			TableName:    tableName,
			DataSourceID: dataSourceID,
		})
		if err != nil {
			return annotate.Snapshot{}, err
		}
		return annotate.Snapshot{Tables: []annotate.Table{table}}, nil
	default:
		return annotate.Snapshot{}, fmt.Errorf("missing input: pass -schema or -html")
	}
}

func loadSchemaSnapshot(path string) (annotate.Snapshot, error) {
	var r *os.File
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return annotate.Snapshot{}, fmt.Errorf("open schema: %w", err)
		}
		defer f.Close()
		r = f
	}

	var snap annotate.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return annotate.Snapshot{}, fmt.Errorf("decode schema %s: %w", path, err)
	}
	return snap, nil
}

// runSelfCheck validates the shipped rule tables and reports violations to
// stderr. Returns a process exit code.
func runSelfCheck() int {
	violations := classify.Validate()
	for _, v := range violations {
		fmt.Fprintln(os.Stderr, v)
	}
	if len(violations) > 0 {
		log.Printf("rule tables are defective: %d violation(s)", len(violations))
		return 1
	}
	log.Print("rule tables ok")
	return 0
}

// summarize renders a human-readable coverage report for an annotated
// snapshot: entity kind per table, semantic-type counts, and how many fields
// stayed unclassified.
func summarize(snap annotate.Snapshot) string {
	var b strings.Builder

	typeCounts := map[string]int{}
	fields, unclassified := 0, 0

	for _, t := range snap.Tables {
		fmt.Fprintf(&b, "table %s: %s\n", t.Name, t.EntityKind)
		for _, f := range t.Fields {
			fields++
			if f.SemanticType == "" {
				unclassified++
				continue
			}
			typeCounts[string(f.SemanticType)]++
		}
	}

	types := make([]string, 0, len(typeCounts))
	for name := range typeCounts {
		types = append(types, name)
	}
	sort.Strings(types)
	for _, name := range types {
		fmt.Fprintf(&b, "  %-24s %d\n", name, typeCounts[name])
	}

	fmt.Fprintf(&b, "%d/%d fields classified across %d table(s)\n",
		fields-unclassified, fields, len(snap.Tables))
	return b.String()
}

func fatalf(format string, args ...any) {
	log.Printf(format, args...)
	os.Exit(1)
}
