// Package config loads and validates the classifier service configuration.
//
// Configuration is a single JSON document. A minimal config is valid: every
// section has working defaults, so an empty object `{}` yields a runnable
// setup (no registry, no metrics, default worker count).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Config is the top-level configuration document.
type Config struct {
	// Job names this deployment in decision records and metric tags.
	// Defaults to "metascan".
	Job string `json:"job"`

	// Production suppresses the startup rule-table self-check. The check is
	// cheap but its output is developer-facing; production deployments run
	// tables that already passed it in CI.
	Production bool `json:"production"`

	Registry RegistrySpec `json:"registry"`
	Metrics  MetricsSpec  `json:"metrics"`
	Runtime  RuntimeSpec  `json:"runtime"`
}

// RegistrySpec selects the data-source registry backend.
//
// An empty Kind disables the registry entirely; table classification then
// skips its engine-kind stage and falls through to the generic kind.
type RegistrySpec struct {
	// Kind is a registered backend name: "postgres", "sqlite", "mssql",
	// "memory".
	Kind string `json:"kind"`

	// DSN is backend-specific. For "memory" it is an optional JSON file
	// path. See ResolveDSN for the override mechanisms layered on top.
	DSN string `json:"dsn"`
}

// MetricsSpec configures the Datadog metrics backend.
type MetricsSpec struct {
	// Enabled turns metric submission on. Credentials come from the
	// DD_API_KEY / DD_APP_KEY env vars the Datadog client reads itself.
	Enabled bool `json:"enabled"`

	// FlushSeconds is the submission interval. 0 means the backend default.
	FlushSeconds int `json:"flush_seconds"`

	// Tags are extra "key:value" tags added to every series.
	Tags []string `json:"tags,omitempty"`
}

// RuntimeSpec holds sweep tuning knobs.
type RuntimeSpec struct {
	// ClassifyWorkers bounds concurrent table sweeps. 0 means the engine
	// default.
	ClassifyWorkers int `json:"classify_workers"`
}

// Load reads and validates a JSON config file.
//
// Unknown keys are rejected so typos fail loudly at startup instead of
// silently running with defaults.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()

	var c Config
	if err := dec.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Job) == "" {
		c.Job = "metascan"
	}
}

// Validate checks cross-field consistency. It does not open connections;
// backend reachability is checked when the registry is constructed.
func (c Config) Validate() error {
	switch normalizeRegistryKind(c.Registry.Kind) {
	case "", "postgres", "sqlite", "mssql", "memory":
	default:
		return fmt.Errorf("unknown registry kind %q", c.Registry.Kind)
	}
	if c.Metrics.FlushSeconds < 0 {
		return fmt.Errorf("metrics.flush_seconds must not be negative, got %d", c.Metrics.FlushSeconds)
	}
	if c.Runtime.ClassifyWorkers < 0 {
		return fmt.Errorf("runtime.classify_workers must not be negative, got %d", c.Runtime.ClassifyWorkers)
	}
	for _, tag := range c.Metrics.Tags {
		if !strings.Contains(tag, ":") {
			return fmt.Errorf("metrics tag %q is not key:value", tag)
		}
	}
	return nil
}

// NormalizedKind returns the canonical backend name for the configured kind,
// folding aliases like "postgresql" and "sqlserver".
func (r RegistrySpec) NormalizedKind() string {
	return normalizeRegistryKind(r.Kind)
}

// normalizeRegistryKind converts a user-specified registry kind into one of
// the canonical backend names.
func normalizeRegistryKind(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "postgres", "postgresql":
		return "postgres"
	case "mssql", "sqlserver":
		return "mssql"
	default:
		return s
	}
}
