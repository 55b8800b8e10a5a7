package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherDeliversReloadedConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prism.toml")
	if err := os.WriteFile(path, []byte("[pipeline]\nworkers = 1\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[pipeline]\nworkers = 3\n"), 0o644); err != nil {
		t.Fatalf("rewriting config: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case cfg, ok := <-w.Configs():
			if !ok {
				t.Fatal("config channel closed before delivery")
			}
			if cfg.Pipeline.Workers == 3 {
				return
			}
		case err := <-w.Errors():
			t.Fatalf("unexpected watcher error: %v", err)
		case <-deadline:
			t.Fatal("no reloaded config within the deadline")
		}
	}
}

func TestWatcherReportsParseErrorsAndRecovers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prism.toml")
	if err := os.WriteFile(path, []byte("[app]\nname = \"a\"\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("not toml at all ==\n"), 0o644); err != nil {
		t.Fatalf("writing broken config: %v", err)
	}

	select {
	case err := <-w.Errors():
		if err == nil {
			t.Fatal("nil error delivered")
		}
	case cfg := <-w.Configs():
		t.Fatalf("broken file produced a config: %+v", cfg)
	case <-time.After(3 * time.Second):
		t.Fatal("no error within the deadline")
	}

	// The watcher keeps running after a broken write.
	if err := os.WriteFile(path, []byte("[app]\nname = \"recovered\"\n"), 0o644); err != nil {
		t.Fatalf("writing repaired config: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case cfg, ok := <-w.Configs():
			if !ok {
				t.Fatal("config channel closed before recovery")
			}
			if cfg.App.Name == "recovered" {
				return
			}
		case <-w.Errors():
			// Editors can produce several events per save; later ones may
			// still see the broken content.
		case <-deadline:
			t.Fatal("no recovered config within the deadline")
		}
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prism.toml")
	if err := os.WriteFile(path, []byte("[app]\nname = \"a\"\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	sibling := filepath.Join(dir, "other.toml")
	if err := os.WriteFile(sibling, []byte("[app]\nname = \"other\"\n"), 0o644); err != nil {
		t.Fatalf("writing sibling: %v", err)
	}

	select {
	case cfg := <-w.Configs():
		t.Fatalf("sibling write produced a config: %+v", cfg)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prism.toml")
	if err := os.WriteFile(path, []byte("[app]\nname = \"a\"\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	select {
	case _, ok := <-w.Configs():
		if ok {
			t.Error("config delivered after close")
		}
	case <-time.After(time.Second):
		t.Error("config channel not closed")
	}
	select {
	case _, ok := <-w.Errors():
		if ok {
			t.Error("error delivered after close")
		}
	case <-time.After(time.Second):
		t.Error("error channel not closed")
	}
}
