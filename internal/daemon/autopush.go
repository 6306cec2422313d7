package daemon

import (
	"context"
	"log"
	"os"
	"time"
)

// PushFunc uploads the given source files. The daemon passes absolute
// paths collected since the last flush.
type PushFunc func(ctx context.Context, paths []string) error

// AutoPush drains watcher events and pushes changed files after a
// quiet period, so a burst of editor saves becomes one upload batch.
type AutoPush struct {
	watcher *Watcher
	push    PushFunc
	logger  *log.Logger

	// Debounce is the quiet period before a flush. Zero uses a default
	// suitable for interactive editing.
	Debounce time.Duration
}

const defaultDebounce = 2 * time.Second

// NewAutoPush wires a started watcher to a push function. If logger is
// nil, a default logger writing to stderr is used.
func NewAutoPush(watcher *Watcher, push PushFunc, logger *log.Logger) *AutoPush {
	if logger == nil {
		logger = log.New(os.Stderr, "[watch] ", log.LstdFlags)
	}
	return &AutoPush{
		watcher:  watcher,
		push:     push,
		logger:   logger,
		Debounce: defaultDebounce,
	}
}

// Run processes events until ctx is cancelled or the watcher closes.
// Push failures are logged and do not stop the loop; the failed paths
// stay queued for the next flush.
func (a *AutoPush) Run(ctx context.Context) error {
	debounce := a.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-a.watcher.Events():
			if !ok {
				return nil
			}
			// Deletions are not propagated; the store keeps its copy.
			if event.Op == OpDelete {
				continue
			}
			a.logger.Printf("%s %s", event.Op, event.Path)
			if len(pending) == 0 {
				timer.Reset(debounce)
			}
			pending[event.Path] = struct{}{}

		case err, ok := <-a.watcher.Errors():
			if !ok {
				return nil
			}
			a.logger.Printf("WARNING: watch error: %v", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}

			if err := a.push(ctx, paths); err != nil {
				a.logger.Printf("WARNING: auto-push failed, retrying on next change: %v", err)
				timer.Reset(debounce)
				continue
			}
			a.logger.Printf("pushed %d changed file(s)", len(paths))
			pending = make(map[string]struct{})
		}
	}
}
