package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "farmplan.cue")
	if err := os.WriteFile(path, []byte(validServiceCUE), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	initial, err := LoadServiceConfig(path)
	if err != nil {
		t.Fatalf("failed to load initial config: %v", err)
	}

	w := NewWatcher(path, initial, zerolog.New(nil).Level(zerolog.Disabled))
	stop := make(chan struct{})
	defer close(stop)

	changed := make(chan *ServiceConfig, 1)
	if err := w.Watch(stop, func(cfg *ServiceConfig) {
		changed <- cfg
	}); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}

	updated := validServiceCUE[:len(validServiceCUE)-1] + "\nrate_limit: {enabled: true, requests_per_minute: 60}\n"
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("failed to rewrite test file: %v", err)
	}

	select {
	case cfg := <-changed:
		if !cfg.RateLimit.Enabled {
			t.Error("expected reloaded config to have rate limiting enabled")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}

func TestWatcherIgnoresUnchangedReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "farmplan.cue")
	if err := os.WriteFile(path, []byte(validServiceCUE), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	initial, err := LoadServiceConfig(path)
	if err != nil {
		t.Fatalf("failed to load initial config: %v", err)
	}

	w := NewWatcher(path, initial, zerolog.New(nil).Level(zerolog.Disabled))
	stop := make(chan struct{})
	defer close(stop)

	changed := make(chan *ServiceConfig, 1)
	if err := w.Watch(stop, func(cfg *ServiceConfig) {
		changed <- cfg
	}); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	// Rewrite with identical content plus a trailing comment; no
	// hot-reloadable field actually changes.
	if err := os.WriteFile(path, []byte(validServiceCUE+"\n// touch\n"), 0o644); err != nil {
		t.Fatalf("failed to rewrite test file: %v", err)
	}

	select {
	case <-changed:
		t.Error("expected no reload callback when hot-reloadable fields are unchanged")
	case <-time.After(500 * time.Millisecond):
	}
}
