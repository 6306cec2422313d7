package syncer

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/siliconyouth/revolutionary-ui/internal/cloud"
	"github.com/siliconyouth/revolutionary-ui/internal/component"
	"github.com/siliconyouth/revolutionary-ui/internal/workspace"
)

// PushOptions configures one push pass.
type PushOptions struct {
	// All selects every file under the component directories.
	All bool

	// Names are explicit name/glob arguments. Ignored when All is set.
	Names []string

	// Message annotates the push in the plan and log output.
	Message string

	// Since drops candidates whose mtime is before the cutoff. Zero
	// means no cutoff.
	Since time.Time

	// Post-parse filters. Dimensions combine with AND; FilterTags match
	// with OR within the dimension.
	Type       component.Type
	Framework  component.Framework
	FilterTags []string

	// Workspace defaults from the project manifest, applied after
	// parsing and before filtering. DefaultAuthor fills in metadata for
	// files without an @author annotation; DefaultFramework backs an
	// Unknown classification.
	DefaultAuthor    string
	DefaultFramework component.Framework

	// DryRun plans without uploading. Force skips the conflict
	// pre-flight.
	DryRun bool
	Force  bool
}

// Pusher uploads local components to the cloud store.
type Pusher struct {
	client  cloud.Client
	disc    *workspace.Discoverer
	changes workspace.ChangeSetProvider
	logger  *log.Logger

	// Out receives the plan and per-item progress lines.
	Out io.Writer
}

// NewPusher creates a push engine. The client must already be connected.
// If logger is nil, a default logger writing to stderr is used.
func NewPusher(client cloud.Client, disc *workspace.Discoverer, changes workspace.ChangeSetProvider, logger *log.Logger) *Pusher {
	if logger == nil {
		logger = log.New(os.Stderr, "[push] ", log.LstdFlags)
	}
	return &Pusher{
		client:  client,
		disc:    disc,
		changes: changes,
		logger:  logger,
		Out:     os.Stdout,
	}
}

// Run executes the push pass: discover, parse, filter, pre-flight
// conflict check, plan, upload. Returns one ItemResult per attempted
// upload. Per-item upload failures are recorded and do not stop the
// batch; a pre-flight conflict aborts the whole run with
// ErrConflictsDetected before any upload happens.
func (p *Pusher) Run(ctx context.Context, opts PushOptions) ([]ItemResult, error) {
	files, err := p.discover(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to discover components: %w", err)
	}
	if !opts.Since.IsZero() {
		files = p.disc.FilterSince(files, opts.Since)
	}

	comps := p.parse(files)
	applyDefaults(comps, opts)
	comps = filterComponents(comps, opts)

	if len(comps) == 0 {
		fmt.Fprintln(p.Out, "Nothing to push.")
		return nil, nil
	}

	if !opts.Force && !opts.DryRun {
		if err := p.checkConflicts(ctx, comps); err != nil {
			return nil, err
		}
	}

	p.printPlan(comps, opts)
	if opts.DryRun {
		fmt.Fprintln(p.Out, "Dry run: nothing was uploaded.")
		return nil, nil
	}

	return p.upload(ctx, comps), nil
}

// discover picks the candidate file set by the documented priority:
// --all globs, then explicit patterns, then changed files.
func (p *Pusher) discover(ctx context.Context, opts PushOptions) ([]string, error) {
	switch {
	case opts.All:
		return p.disc.All()
	case len(opts.Names) > 0:
		return p.disc.Patterns(opts.Names)
	default:
		return p.disc.Changed(ctx, p.changes)
	}
}

// parse converts files to components. Unparseable files (binary,
// unreadable) are logged and silently omitted from the candidate set.
func (p *Pusher) parse(files []string) []*component.Component {
	var comps []*component.Component
	for _, rel := range files {
		c, err := component.Parse(p.disc.Abs(rel))
		if err != nil {
			p.logger.Printf("Skipping %s: %v", rel, err)
			continue
		}
		comps = append(comps, c)
	}
	return comps
}

// applyDefaults fills in what the file itself could not provide from
// the workspace manifest defaults.
func applyDefaults(comps []*component.Component, opts PushOptions) {
	for _, c := range comps {
		if c.Metadata.Author == "" && opts.DefaultAuthor != "" {
			c.Metadata.Author = opts.DefaultAuthor
		}
		if c.Framework == component.FrameworkUnknown && opts.DefaultFramework != "" {
			c.Framework = opts.DefaultFramework
		}
	}
}

func filterComponents(comps []*component.Component, opts PushOptions) []*component.Component {
	if opts.Type == "" && opts.Framework == "" && len(opts.FilterTags) == 0 {
		return comps
	}

	var out []*component.Component
	for _, c := range comps {
		if opts.Type != "" && c.Type != opts.Type {
			continue
		}
		if opts.Framework != "" && c.Framework != opts.Framework {
			continue
		}
		if len(opts.FilterTags) > 0 && !hasAnyTag(c, opts.FilterTags) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func hasAnyTag(c *component.Component, tags []string) bool {
	for _, tag := range tags {
		if c.HasTag(tag) {
			return true
		}
	}
	return false
}

// checkConflicts fails fast when the server reports a conflict for any
// component in the push set. All-or-nothing: one conflicting name aborts
// the entire command with zero uploads.
func (p *Pusher) checkConflicts(ctx context.Context, comps []*component.Component) error {
	status, err := p.client.GetSyncStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for conflicts: %w", err)
	}

	inPushSet := make(map[string]bool, len(comps))
	for _, c := range comps {
		inPushSet[c.Name] = true
	}

	var conflicting []string
	for _, conflict := range status.Conflicts {
		if inPushSet[conflict.ComponentName] {
			conflicting = append(conflicting, conflict.ComponentName)
		}
	}

	if len(conflicting) > 0 {
		for _, name := range conflicting {
			fmt.Fprintf(p.Out, "Conflict: %s has diverged on the server\n", name)
		}
		fmt.Fprintln(p.Out, "Resolve conflicts with 'rui sync' or retry with --force.")
		return ErrConflictsDetected
	}
	return nil
}

func (p *Pusher) printPlan(comps []*component.Component, opts PushOptions) {
	fmt.Fprintf(p.Out, "Pushing %d component(s):\n", len(comps))
	if opts.Message != "" {
		fmt.Fprintf(p.Out, "Message: %s\n", opts.Message)
	}
	for _, c := range comps {
		fmt.Fprintf(p.Out, "  %s (%s, %s, %d lines)\n",
			c.Name, c.Type, c.Framework, c.Metadata.Stats.LinesOfCode)
	}
}

// upload transfers components one at a time, in order. Each item is
// independent: a failure is recorded and the batch continues.
func (p *Pusher) upload(ctx context.Context, comps []*component.Component) []ItemResult {
	results := make([]ItemResult, 0, len(comps))

	for _, c := range comps {
		if err := p.uploadOne(ctx, c); err != nil {
			p.logger.Printf("Upload failed for %s: %v", c.Name, err)
			results = append(results, ItemResult{Name: c.Name, Status: StatusError, Err: err.Error()})
			continue
		}
		fmt.Fprintf(p.Out, "  ✓ %s\n", c.Name)
		results = append(results, ItemResult{Name: c.Name, Status: StatusSuccess})
	}

	return results
}

// uploadOne updates an existing remote component matched by name, or
// creates a new one. The existence lookup searches by the component's
// own name as a filter tag.
func (p *Pusher) uploadOne(ctx context.Context, c *component.Component) error {
	existing, err := p.client.ListComponents(ctx, &cloud.ListFilter{Tags: []string{c.Name}})
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	for _, remote := range existing {
		if remote.Name == c.Name {
			return p.client.UpdateComponent(ctx, remote.ID, c)
		}
	}

	id, err := p.client.PushComponent(ctx, c)
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}
