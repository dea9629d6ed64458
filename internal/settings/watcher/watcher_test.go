package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// collectEvents subscribes a handler that records events.
func collectEvents(w *Watcher) func() []Event {
	var mu sync.Mutex
	var events []Event
	w.OnChange(func(e Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})
	return func() []Event {
		mu.Lock()
		defer mu.Unlock()
		out := make([]Event, len(events))
		copy(out, events)
		return out
	}
}

// waitFor polls until cond returns true or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestWatcher_DetectsWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	if err := os.WriteFile(path, []byte("[General]\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	w := New(WithInterval(20 * time.Millisecond))
	events := collectEvents(w)
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	w.Start()
	defer w.Stop()

	// Ensure the mtime moves even on coarse-grained filesystems.
	time.Sleep(20 * time.Millisecond)
	if err := os.WriteFile(path, []byte("[General]\nUsername=alice\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	now := time.Now()
	if err := os.Chtimes(path, now, now); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	waitFor(t, func() bool {
		for _, e := range events() {
			if e.Op == OpWrite {
				return true
			}
		}
		return false
	})
}

func TestWatcher_DetectsCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")

	w := New(WithInterval(20 * time.Millisecond))
	events := collectEvents(w)
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch of missing file failed: %v", err)
	}
	w.Start()
	defer w.Stop()

	if err := os.WriteFile(path, []byte("[General]\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	waitFor(t, func() bool {
		for _, e := range events() {
			if e.Op == OpCreate && e.Path == path {
				return true
			}
		}
		return false
	})
}

func TestWatcher_DetectsRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	if err := os.WriteFile(path, []byte("[General]\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	w := New(WithInterval(20 * time.Millisecond))
	events := collectEvents(w)
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	w.Start()
	defer w.Stop()

	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	waitFor(t, func() bool {
		for _, e := range events() {
			if e.Op == OpRemove {
				return true
			}
		}
		return false
	})
}

func TestWatcher_StartStopIdempotent(t *testing.T) {
	w := New(WithInterval(20 * time.Millisecond))
	w.Start()
	w.Start()
	if !w.IsRunning() {
		t.Error("watcher not running after Start")
	}
	w.Stop()
	w.Stop()
	if w.IsRunning() {
		t.Error("watcher still running after Stop")
	}
}

func TestWatcher_Unwatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	w := New()
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	if len(w.WatchedFiles()) != 1 {
		t.Fatalf("WatchedFiles = %v, want 1 entry", w.WatchedFiles())
	}
	if err := w.Unwatch(path); err != nil {
		t.Fatalf("Unwatch failed: %v", err)
	}
	if len(w.WatchedFiles()) != 0 {
		t.Errorf("WatchedFiles = %v, want empty", w.WatchedFiles())
	}
}

func TestWatcher_HandlerPanicDoesNotStopPolling(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")

	w := New(WithInterval(20 * time.Millisecond))
	w.OnChange(func(Event) { panic("handler bug") })
	events := collectEvents(w)
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	w.Start()
	defer w.Stop()

	if err := os.WriteFile(path, []byte("a\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	waitFor(t, func() bool { return len(events()) > 0 })
}
