package syncer

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/siliconyouth/revolutionary-ui/internal/cloud"
)

// Strategy selects how sync conflicts are resolved.
type Strategy string

const (
	StrategyPrompt Strategy = "prompt"
	StrategyLocal  Strategy = "local"
	StrategyRemote Strategy = "remote"
	StrategyMerge  Strategy = "merge"
)

// ParseStrategy validates a --conflict-resolution value.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyPrompt, StrategyLocal, StrategyRemote, StrategyMerge:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown conflict resolution strategy %q (want prompt, local, remote, or merge)", s)
}

// SyncOptions configures one bidirectional sync pass.
type SyncOptions struct {
	DryRun bool

	// Force skips conflict resolution entirely.
	Force bool

	PullOnly bool
	PushOnly bool

	Strategy Strategy
}

// SyncReport summarizes a sync pass.
type SyncReport struct {
	Resolved int
	Pulled   []ItemResult
	Pushed   []ItemResult

	// SnapshotID is informational only; it is never stored locally.
	SnapshotID string
}

// Orchestrator composes status retrieval, conflict resolution, and the
// push/pull engines into one bidirectional pass.
type Orchestrator struct {
	client   cloud.Client
	prompter Prompter
	logger   *log.Logger

	// Out receives status and progress lines.
	Out io.Writer

	// Pull and Push transfer the named components. The command wires
	// these to the real engines; tests substitute counters.
	Pull func(ctx context.Context, names []string) ([]ItemResult, error)
	Push func(ctx context.Context, names []string) ([]ItemResult, error)
}

// NewOrchestrator creates a sync engine. The client must already be
// connected. If logger is nil, a default logger writing to stderr is
// used.
func NewOrchestrator(client cloud.Client, prompter Prompter, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.New(os.Stderr, "[sync] ", log.LstdFlags)
	}
	return &Orchestrator{
		client:   client,
		prompter: prompter,
		logger:   logger,
		Out:      os.Stdout,
	}
}

// Run executes the sync sequence: status, conflict resolution, change
// enumeration, pull of remote-only changes, push of local-only changes,
// snapshot. Dry-run stops after displaying the plan; nothing is
// transferred and no snapshot is taken.
func (o *Orchestrator) Run(ctx context.Context, opts SyncOptions) (*SyncReport, error) {
	status, err := o.client.GetSyncStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get sync status: %w", err)
	}
	o.printStatus(status)

	report := &SyncReport{}

	if len(status.Conflicts) > 0 && !opts.Force {
		resolved, err := o.resolveConflicts(ctx, status.Conflicts, opts.Strategy)
		if err != nil {
			return nil, err
		}
		report.Resolved = resolved
	}

	changes, err := o.client.GetChanges(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending changes: %w", err)
	}
	o.printChanges(changes)

	if opts.DryRun {
		fmt.Fprintln(o.Out, "Dry run: nothing was transferred.")
		return report, nil
	}

	if !opts.PushOnly {
		if names := changeNames(changes.Remote); len(names) > 0 {
			report.Pulled, err = o.Pull(ctx, names)
			if err != nil {
				return report, fmt.Errorf("pull phase failed: %w", err)
			}
		}
	}

	if !opts.PullOnly {
		if names := changeNames(changes.Local); len(names) > 0 {
			report.Pushed, err = o.Push(ctx, names)
			if err != nil {
				return report, fmt.Errorf("push phase failed: %w", err)
			}
		}
	}

	// Fire-and-forget checkpoint; a failure downgrades to a warning.
	message := fmt.Sprintf("Sync at %s", time.Now().UTC().Format(time.RFC3339))
	if id, err := o.client.CreateSnapshot(ctx, message); err != nil {
		o.logger.Printf("WARNING: snapshot failed: %v", err)
	} else {
		report.SnapshotID = id
	}

	return report, nil
}

// resolveConflicts applies the strategy to every conflict and reports
// each chosen side to the store. The merge strategy is not implemented:
// it falls back to keep-local with exactly one warning per conflict.
func (o *Orchestrator) resolveConflicts(ctx context.Context, conflicts []cloud.Conflict, strategy Strategy) (int, error) {
	resolved := 0
	for _, conflict := range conflicts {
		resolution, err := o.resolveOne(conflict, strategy)
		if err != nil {
			return resolved, err
		}

		if err := o.client.ResolveConflict(ctx, conflict.ComponentID, resolution); err != nil {
			return resolved, fmt.Errorf("failed to record resolution for %s: %w", conflict.ComponentName, err)
		}
		fmt.Fprintf(o.Out, "  %s resolved as %s\n", conflict.ComponentName, resolution)
		resolved++
	}
	return resolved, nil
}

func (o *Orchestrator) resolveOne(conflict cloud.Conflict, strategy Strategy) (cloud.Resolution, error) {
	switch strategy {
	case StrategyLocal, StrategyRemote, StrategyMerge, "":
		res, err := resolveWith(strategy, conflict)
		if err == ErrMergeNotImplemented {
			o.warnMergeFallback(conflict)
			return cloud.ResolutionLocal, nil
		}
		return res, err

	case StrategyPrompt:
		return o.promptResolution(conflict)

	default:
		return "", fmt.Errorf("unknown strategy %q", strategy)
	}
}

// resolveWith maps a fixed strategy to a resolution. Merge is an
// explicit not-implemented result the caller must handle.
func resolveWith(strategy Strategy, conflict cloud.Conflict) (cloud.Resolution, error) {
	switch strategy {
	case StrategyLocal, "":
		return cloud.ResolutionLocal, nil
	case StrategyRemote:
		return cloud.ResolutionRemote, nil
	case StrategyMerge:
		return "", ErrMergeNotImplemented
	}
	return "", fmt.Errorf("unknown strategy %q", strategy)
}

// promptResolution asks the user per conflict. Viewing the diff loops
// back into the same conflict.
func (o *Orchestrator) promptResolution(conflict cloud.Conflict) (cloud.Resolution, error) {
	for {
		choice, err := o.prompter.ConflictAction(conflict.ComponentName,
			conflict.LocalVersion, conflict.RemoteVersion)
		if err != nil {
			return "", err
		}

		switch choice {
		case ConflictKeepLocal:
			return cloud.ResolutionLocal, nil
		case ConflictUseRemote:
			return cloud.ResolutionRemote, nil
		case ConflictMerge:
			o.warnMergeFallback(conflict)
			return cloud.ResolutionLocal, nil
		case ConflictViewDiff:
			o.printConflictDetail(conflict)
		}
	}
}

func (o *Orchestrator) warnMergeFallback(conflict cloud.Conflict) {
	o.logger.Printf("WARNING: merge is not implemented, keeping local version of %s", conflict.ComponentName)
}

func (o *Orchestrator) printConflictDetail(conflict cloud.Conflict) {
	fmt.Fprintf(o.Out, "  %s: %s\n", conflict.ComponentName, conflict.Type)
	fmt.Fprintf(o.Out, "    local  %s\n", conflict.LocalVersion)
	fmt.Fprintf(o.Out, "    remote %s\n", conflict.RemoteVersion)
	if cloud.CompareVersions(conflict.LocalVersion, conflict.RemoteVersion) < 0 {
		fmt.Fprintln(o.Out, "    remote version is newer")
	}
}

func (o *Orchestrator) printStatus(status *cloud.SyncStatus) {
	if !status.LastSync.IsZero() {
		fmt.Fprintf(o.Out, "Last sync: %s\n", status.LastSync.Format(time.RFC3339))
	}
	fmt.Fprintf(o.Out, "Conflicts: %d, pending local: %d, pending remote: %d\n",
		len(status.Conflicts), len(status.Pending.Local), len(status.Pending.Remote))
}

func (o *Orchestrator) printChanges(changes *cloud.PendingChanges) {
	for _, ch := range changes.Remote {
		fmt.Fprintf(o.Out, "  remote %s: %s\n", ch.Action, ch.ComponentName)
	}
	for _, ch := range changes.Local {
		fmt.Fprintf(o.Out, "  local %s: %s\n", ch.Action, ch.ComponentName)
	}
}

// changeNames extracts component names eligible for transfer. Deletes
// are enumerated for display but never transferred; deletion propagation
// is the server's concern.
func changeNames(changes []cloud.Change) []string {
	var names []string
	for _, ch := range changes {
		if ch.Action == cloud.ActionDelete {
			continue
		}
		names = append(names, ch.ComponentName)
	}
	return names
}
