//go:build linux

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileWatcherReportsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watched.s")
	if err := os.WriteFile(path, []byte("ret\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan string, 4)
	fw, err := NewFileWatcher(func(p string) { changed <- p })
	if err != nil {
		t.Fatalf("NewFileWatcher failed: %v", err)
	}
	if err := fw.AddFile(path); err != nil {
		fw.Close()
		t.Fatalf("AddFile failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		fw.Watch()
		close(done)
	}()

	if err := os.WriteFile(path, []byte("nop\nret\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changed:
		if got != path {
			t.Errorf("got %q, want %q", got, path)
		}
	case <-time.After(5 * time.Second):
		t.Error("no change reported")
	}

	fw.Close()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Error("Watch did not return after Close")
	}
}

func TestFileWatcherMissingFile(t *testing.T) {
	fw, err := NewFileWatcher(func(string) {})
	if err != nil {
		t.Fatalf("NewFileWatcher failed: %v", err)
	}
	defer fw.Close()

	if err := fw.AddFile(filepath.Join(t.TempDir(), "missing.s")); err == nil {
		t.Error("watching a missing file should fail")
	}
}
