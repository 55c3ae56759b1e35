package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validServiceCUE = `
log_level:      "debug"
solver_workers: 8
sync_deadline:  5000000000
async_job_ttl:  86400000000000
backend:        "durable"
queue_depth:    128
table_name:     "jobs"
table_path:     "/var/lib/farmplan/jobs.db"
blob_root:      "/var/lib/farmplan/blobs"
`

func TestParseServiceConfigValid(t *testing.T) {
	loader := NewServiceConfigLoader()
	cfg, err := loader.ParseServiceConfig(validServiceCUE, "inline")
	if err != nil {
		t.Fatalf("expected valid config to parse, got %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log_level debug, got %s", cfg.LogLevel)
	}
	if cfg.SolverWorkers != 8 {
		t.Errorf("expected solver_workers 8, got %d", cfg.SolverWorkers)
	}
	if cfg.Backend != JobBackendDurable {
		t.Errorf("expected durable backend, got %s", cfg.Backend)
	}
}

func TestParseServiceConfigAppliesDefaults(t *testing.T) {
	loader := NewServiceConfigLoader()
	cfg, err := loader.ParseServiceConfig(`log_level: "info"
solver_workers: 2
sync_deadline: 1000000000
async_job_ttl: 1000000000
backend: "in_process"
queue_depth: 16
`, "inline")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TableName == "" {
		t.Error("expected table_name to fall back to default when unset")
	}
}

func TestParseServiceConfigRejectsBadSchema(t *testing.T) {
	loader := NewServiceConfigLoader()
	_, err := loader.ParseServiceConfig(`log_level: "deafening"
solver_workers: 8
sync_deadline: 1
async_job_ttl: 1
backend: "durable"
queue_depth: 1
`, "inline")
	if err == nil {
		t.Error("expected invalid log_level to be rejected")
	}
}

func TestParseServiceConfigRejectsMalformedCUE(t *testing.T) {
	loader := NewServiceConfigLoader()
	_, err := loader.ParseServiceConfig("this { is not : valid", "inline")
	if err == nil {
		t.Error("expected malformed CUE to fail to compile")
	}
}

func TestLoadServiceConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "farmplan.cue")
	if err := os.WriteFile(path, []byte(validServiceCUE), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	cfg, err := LoadServiceConfig(path)
	if err != nil {
		t.Fatalf("failed to load service config: %v", err)
	}
	if cfg.Backend != JobBackendDurable {
		t.Errorf("expected durable backend, got %s", cfg.Backend)
	}
}

func TestLoadServiceConfigMissingFile(t *testing.T) {
	_, err := LoadServiceConfig("/nonexistent/farmplan.cue")
	if err == nil {
		t.Error("expected missing file to error")
	}
}
