package markup

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsMarkupChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	scene := filepath.Join(dir, "scene.xml")
	if err := os.WriteFile(scene, []byte("<scene/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-w.Events:
		if got != scene {
			t.Errorf("event for %q, want %q", got, scene)
		}
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for scene.xml")
	}
}

func TestWatcherCloseIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, ok := <-w.Events; ok {
		t.Error("Events should be closed")
	}
}

func TestNewWatcherMissingDir(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("NewWatcher on a missing dir should fail")
	}
}

func TestIsWatchedFile(t *testing.T) {
	for path, want := range map[string]bool{
		"a.xml": true, "a.YML": true, "a.yaml": true, "a.tengo": true,
		"a.txt": false, "xml": false,
	} {
		if got := IsWatchedFile(path); got != want {
			t.Errorf("IsWatchedFile(%q) = %v, want %v", path, got, want)
		}
	}
}
