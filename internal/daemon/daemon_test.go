package daemon

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func sourceOnly(path string) bool {
	return strings.HasSuffix(path, ".tsx")
}

func startWatcher(t *testing.T, root string) *Watcher {
	t.Helper()

	w, err := NewWatcher(sourceOnly)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Start(root); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() { _ = w.Stop() })
	return w
}

func waitForEvent(t *testing.T, w *Watcher, want string) FileEvent {
	t.Helper()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case event := <-w.Events():
			if filepath.Base(event.Path) == want {
				return event
			}
		case err := <-w.Errors():
			t.Fatalf("watch error: %v", err)
		case <-deadline:
			t.Fatalf("timed out waiting for event on %s", want)
		}
	}
}

func TestWatcherEmitsCreate(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	path := filepath.Join(root, "Button.tsx")
	if err := os.WriteFile(path, []byte("export {}\n"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	event := waitForEvent(t, w, "Button.tsx")
	if event.Op != OpCreate {
		t.Errorf("op = %v, want create", event.Op)
	}
}

func TestWatcherIgnoresIneligible(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "Card.tsx"), []byte("x"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	// The .tsx event arriving proves the .txt event was filtered, not
	// merely still in flight.
	event := waitForEvent(t, w, "Card.tsx")
	if filepath.Base(event.Path) != "Card.tsx" {
		t.Errorf("unexpected event: %+v", event)
	}
}

func TestWatcherPicksUpNewDirectories(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	nested := filepath.Join(root, "react")
	if err := os.Mkdir(nested, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	// Give the watcher a moment to register the new directory.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(nested, "Modal.tsx"), []byte("x"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	waitForEvent(t, w, "Modal.tsx")
}

func TestWatcherStartMissingRoots(t *testing.T) {
	w, err := NewWatcher(nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Stop()

	if err := w.Start(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected error when no roots exist")
	}
}

func TestAutoPushBatchesBurst(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	var mu sync.Mutex
	var batches [][]string
	push := func(ctx context.Context, paths []string) error {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, paths)
		return nil
	}

	ap := NewAutoPush(w, push, nil)
	ap.Debounce = 200 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = ap.Run(ctx)
	}()

	// A burst of saves inside the quiet period becomes one batch.
	for _, name := range []string{"A.tsx", "B.tsx"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0644); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	deadline := time.After(5 * time.Second)
	for {
		mu.Lock()
		n := len(batches)
		mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for auto-push")
		case <-time.After(20 * time.Millisecond):
		}
	}

	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	if len(batches) != 1 {
		t.Fatalf("got %d batches, want 1", len(batches))
	}
	if len(batches[0]) != 2 {
		t.Errorf("batch has %d paths, want 2: %v", len(batches[0]), batches[0])
	}
}
