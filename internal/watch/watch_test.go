package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func collectChanges(t *testing.T, root string, excludeDirs, scriptExts []string) (<-chan []string, *Watcher) {
	t.Helper()

	changes := make(chan []string, 4)
	w, err := NewWatcher(50*time.Millisecond, excludeDirs, scriptExts, func(paths []string) {
		changes <- paths
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })

	if err := w.Watch(root); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	return changes, w
}

func waitForChanges(t *testing.T, changes <-chan []string) []string {
	t.Helper()
	select {
	case paths := <-changes:
		return paths
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change callback")
		return nil
	}
}

func TestWatcher_ReportsScriptChanges(t *testing.T) {
	root := t.TempDir()
	changes, _ := collectChanges(t, root, nil, []string{".py"})

	target := filepath.Join(root, "app.py")
	if err := os.WriteFile(target, []byte("import os\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	paths := waitForChanges(t, changes)
	found := false
	for _, p := range paths {
		if p == target {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %q in reported changes, got %v", target, paths)
	}
}

func TestWatcher_IgnoresOtherExtensions(t *testing.T) {
	root := t.TempDir()
	changes, _ := collectChanges(t, root, nil, []string{".py"})

	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	select {
	case paths := <-changes:
		t.Fatalf("expected no callback for .txt change, got %v", paths)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_DebounceCoalescesBurst(t *testing.T) {
	root := t.TempDir()
	changes, _ := collectChanges(t, root, nil, []string{".py"})

	for i := 0; i < 3; i++ {
		name := filepath.Join(root, "mod"+string(rune('a'+i))+".py")
		if err := os.WriteFile(name, []byte("import sys\n"), 0o644); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}

	paths := waitForChanges(t, changes)
	if len(paths) < 2 {
		t.Fatalf("expected burst to coalesce into one batch of several paths, got %v", paths)
	}
}

func TestWatcher_ExcludedDirectoriesNotWatched(t *testing.T) {
	root := t.TempDir()
	noisy := filepath.Join(root, "node_modules")
	if err := os.MkdirAll(noisy, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	changes, _ := collectChanges(t, root, []string{"node_modules"}, []string{".py"})

	if err := os.WriteFile(filepath.Join(noisy, "dep.py"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	select {
	case paths := <-changes:
		t.Fatalf("expected no callback for excluded directory, got %v", paths)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestNewWatcher_RequiresCallback(t *testing.T) {
	if _, err := NewWatcher(time.Second, nil, nil, nil); err == nil {
		t.Fatal("expected error for nil callback")
	}
}
