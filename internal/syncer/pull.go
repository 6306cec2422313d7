package syncer

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/siliconyouth/revolutionary-ui/internal/cloud"
	"github.com/siliconyouth/revolutionary-ui/internal/component"
)

// PullOptions configures one pull pass.
type PullOptions struct {
	// All selects every remote component.
	All bool

	// Names select by case-insensitive substring match. Ignored when
	// All is set. With neither, the user picks interactively.
	Names []string

	// Exact restricts Names to whole-name matches. Used by sync, which
	// feeds server-reported change names and must not drag in lookalikes
	// ("Button" selecting "ButtonGroup").
	Exact bool

	// DryRun plans without writing. Overwrite and Force both replace
	// existing local files without asking.
	DryRun    bool
	Force     bool
	Overwrite bool
}

// Puller materializes remote components as local files.
type Puller struct {
	client   cloud.Client
	root     string
	prompter Prompter
	logger   *log.Logger

	// Out receives the plan, diffs, and per-item progress lines.
	Out io.Writer
}

// NewPuller creates a pull engine writing under root. The client must
// already be connected. If logger is nil, a default logger writing to
// stderr is used.
func NewPuller(client cloud.Client, root string, prompter Prompter, logger *log.Logger) *Puller {
	if logger == nil {
		logger = log.New(os.Stderr, "[pull] ", log.LstdFlags)
	}
	return &Puller{
		client:   client,
		root:     root,
		prompter: prompter,
		logger:   logger,
		Out:      os.Stdout,
	}
}

// Run executes the pull pass: list, select, collision handling, plan,
// write. Returns one ItemResult per planned component. A cancel choice
// during collision handling returns ErrCancelled with no files written.
func (p *Puller) Run(ctx context.Context, opts PullOptions) ([]ItemResult, error) {
	remote, err := p.client.ListComponents(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote components: %w", err)
	}
	if len(remote) == 0 {
		fmt.Fprintln(p.Out, "No components in the cloud store.")
		return nil, nil
	}

	selected, err := p.selectComponents(remote, opts)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		fmt.Fprintln(p.Out, "Nothing selected.")
		return nil, nil
	}

	collisions := p.findCollisions(selected)

	policy := CollisionOverwriteAll
	if len(collisions) > 0 && !opts.Overwrite && !opts.Force && !opts.DryRun {
		policy, err = p.prompter.CollisionPolicy(len(collisions))
		if err != nil {
			return nil, err
		}
		if policy == CollisionCancel {
			return nil, ErrCancelled
		}
	}

	p.printPlan(selected, collisions)
	if opts.DryRun {
		fmt.Fprintln(p.Out, "Dry run: nothing was written.")
		return nil, nil
	}

	return p.write(selected, collisions, policy), nil
}

// selectComponents narrows the listing per the selection policy.
func (p *Puller) selectComponents(remote []*component.Component, opts PullOptions) ([]*component.Component, error) {
	switch {
	case opts.All:
		return remote, nil

	case len(opts.Names) > 0:
		var out []*component.Component
		for _, c := range remote {
			for _, want := range opts.Names {
				if matchName(c.Name, want, opts.Exact) {
					out = append(out, c)
					break
				}
			}
		}
		return out, nil

	default:
		names := make([]string, len(remote))
		for i, c := range remote {
			names[i] = c.Name
		}
		chosen, err := p.prompter.SelectComponents(names)
		if err != nil {
			return nil, err
		}

		wanted := make(map[string]bool, len(chosen))
		for _, name := range chosen {
			wanted[name] = true
		}
		var out []*component.Component
		for _, c := range remote {
			if wanted[c.Name] {
				out = append(out, c)
			}
		}
		return out, nil
	}
}

func matchName(name, want string, exact bool) bool {
	if exact {
		return name == want
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(want))
}

// findCollisions returns the names of selected components whose target
// path already exists.
func (p *Puller) findCollisions(selected []*component.Component) map[string]bool {
	collisions := make(map[string]bool)
	for _, c := range selected {
		if _, err := os.Stat(p.targetPath(c)); err == nil {
			collisions[c.Name] = true
		}
	}
	return collisions
}

func (p *Puller) targetPath(c *component.Component) string {
	return filepath.Join(p.root, component.LocalPath(c))
}

func (p *Puller) printPlan(selected []*component.Component, collisions map[string]bool) {
	fmt.Fprintf(p.Out, "Pulling %d component(s):\n", len(selected))
	for _, c := range selected {
		marker := ""
		if collisions[c.Name] {
			marker = "  (exists locally)"
		}
		fmt.Fprintf(p.Out, "  %s → %s%s\n", c.Name, component.LocalPath(c), marker)
	}
}

// write materializes each selected component, honoring the collision
// policy. Per-item write failures are recorded and do not stop the
// batch.
func (p *Puller) write(selected []*component.Component, collisions map[string]bool, policy CollisionChoice) []ItemResult {
	results := make([]ItemResult, 0, len(selected))

	for _, c := range selected {
		rel := component.LocalPath(c)

		if collisions[c.Name] {
			skip, err := p.resolveCollision(c, policy)
			if err != nil {
				results = append(results, ItemResult{Name: c.Name, Path: rel, Status: StatusError, Err: err.Error()})
				continue
			}
			if skip {
				results = append(results, ItemResult{Name: c.Name, Path: rel, Status: StatusSkipped})
				continue
			}
		}

		if err := p.writeOne(c); err != nil {
			p.logger.Printf("Write failed for %s: %v", c.Name, err)
			results = append(results, ItemResult{Name: c.Name, Path: rel, Status: StatusError, Err: err.Error()})
			continue
		}
		fmt.Fprintf(p.Out, "  ✓ %s\n", rel)
		results = append(results, ItemResult{Name: c.Name, Path: rel, Status: StatusSuccess})
	}

	return results
}

// resolveCollision decides whether a colliding component is skipped.
// Under the individual policy the user can view a diff, which loops back
// into the same prompt.
func (p *Puller) resolveCollision(c *component.Component, policy CollisionChoice) (skip bool, err error) {
	switch policy {
	case CollisionSkipAll:
		return true, nil
	case CollisionOverwriteAll:
		return false, nil
	}

	for {
		choice, err := p.prompter.FileAction(c.Name)
		if err != nil {
			return false, err
		}
		switch choice {
		case FileOverwrite:
			return false, nil
		case FileSkip:
			return true, nil
		case FileDiff:
			p.showDiff(c)
		}
	}
}

func (p *Puller) showDiff(c *component.Component) {
	local, err := os.ReadFile(p.targetPath(c))
	if err != nil {
		fmt.Fprintf(p.Out, "  cannot read local file: %v\n", err)
		return
	}
	fmt.Fprintf(p.Out, "Diff for %s (local vs remote, positional):\n", c.Name)
	WriteDiff(p.Out, PositionalDiff(string(local), c.Code))
}

func (p *Puller) writeOne(c *component.Component) error {
	target := p.targetPath(c)

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(target, []byte(c.Code), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
