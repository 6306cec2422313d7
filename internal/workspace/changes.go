package workspace

import (
	"context"
	"path/filepath"
	"time"
)

const gitTimeout = 30 * time.Second

// ChangeSetProvider reports files changed since the last commit.
//
// Availability is an explicit part of the contract: when the workspace is
// not under version control the provider reports Available() == false and
// callers fall back to an empty candidate set instead of guessing. This
// keeps the "no repo means nothing to push" behavior visible rather than
// buried in a swallowed subprocess error.
type ChangeSetProvider interface {
	// Available reports whether change detection can work here at all.
	Available() bool

	// ChangedFiles returns workspace-relative paths of files modified or
	// added since HEAD. Returns an empty slice when nothing changed.
	// Detection is best-effort: providers degrade diff failures to an
	// empty set rather than failing the caller's command.
	ChangedFiles(ctx context.Context) ([]string, error)
}

// GitChanges detects changed files by shelling out to git.
type GitChanges struct {
	root string
}

// NewGitChanges creates a provider rooted at the given directory.
func NewGitChanges(root string) *GitChanges {
	return &GitChanges{root: root}
}

// Available reports whether root is inside a git work tree.
func (g *GitChanges) Available() bool {
	_, err := execContext(context.Background(), gitTimeout, g.root,
		"git", "rev-parse", "--is-inside-work-tree")
	return err == nil
}

// ChangedFiles returns tracked files modified against HEAD plus untracked
// files, both relative to the repository root. A failing diff (an unborn
// HEAD in a repo with no commits yet, for instance) yields an empty set,
// so a bare push reports nothing to do instead of erroring out.
func (g *GitChanges) ChangedFiles(ctx context.Context) ([]string, error) {
	diff, err := execContext(ctx, gitTimeout, g.root,
		"git", "diff", "--name-only", "HEAD")
	if err != nil {
		return nil, nil
	}

	untracked, err := execContext(ctx, gitTimeout, g.root,
		"git", "ls-files", "--others", "--exclude-standard")
	if err != nil {
		untracked = nil
	}

	seen := make(map[string]bool)
	var files []string
	for _, line := range append(parseLines(diff), parseLines(untracked)...) {
		path := filepath.FromSlash(line)
		if seen[path] {
			continue
		}
		seen[path] = true
		files = append(files, path)
	}

	return files, nil
}
