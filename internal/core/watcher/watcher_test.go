package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"relint/internal/core/config"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Watch.Debounce = 20 * time.Millisecond
	cfg.Watch.MaxReanalyses = 100
	cfg.Watch.Burst = 100
	return cfg
}

func TestWatcherRequiresCallback(t *testing.T) {
	if _, err := New(testConfig(), nil); err == nil {
		t.Error("Expected an error without a change callback")
	}
}

func TestWatcherReportsSourceChanges(t *testing.T) {
	dir := t.TempDir()

	changes := make(chan []string, 4)
	w, err := New(testConfig(), func(paths []string) {
		changes <- paths
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	if err := w.Watch([]string{dir}); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	target := filepath.Join(dir, "Main.elm")
	if err := os.WriteFile(target, []byte("module Main exposing (..)\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case paths := <-changes:
		found := false
		for _, path := range paths {
			if path == target {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected %s in the change set, got %v", target, paths)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Expected a change notification")
	}
}

func TestWatcherIgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()

	changes := make(chan []string, 4)
	w, err := New(testConfig(), func(paths []string) {
		changes <- paths
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	if err := w.Watch([]string{dir}); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case paths := <-changes:
		t.Errorf("Expected no notification for a .txt file, got %v", paths)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherSkipsExcludedDirectories(t *testing.T) {
	dir := t.TempDir()
	excluded := filepath.Join(dir, "elm-stuff")
	if err := os.Mkdir(excluded, 0o755); err != nil {
		t.Fatal(err)
	}

	changes := make(chan []string, 4)
	w, err := New(testConfig(), func(paths []string) {
		changes <- paths
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	if err := w.Watch([]string{dir}); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(excluded, "Cache.elm"), []byte("module Cache exposing (..)\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case paths := <-changes:
		t.Errorf("Expected no notification from an excluded directory, got %v", paths)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()

	changes := make(chan []string, 16)
	w, err := New(testConfig(), func(paths []string) {
		changes <- paths
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	if err := w.Watch([]string{dir}); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	target := filepath.Join(dir, "Main.elm")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(target, []byte("module Main exposing (..)\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected a notification after the burst settled")
	}

	// The burst lands within one debounce window, so at most one more
	// flush may follow.
	time.Sleep(100 * time.Millisecond)
	extra := len(changes)
	if extra > 1 {
		t.Errorf("Expected the burst coalesced, got %d extra notifications", extra)
	}
}
