// Package workspace discovers local component files eligible for sync.
//
// Discovery has three modes, in the priority order the push command uses
// them: everything under the component directories (--all), explicit
// name/glob patterns from the command line, and "changed files" derived
// from version control. All modes apply the project's sync rules and
// only ever return source files the parser can handle.
package workspace

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// defaultRoots are the directories scanned by a full discovery pass.
var defaultRoots = []string{
	filepath.Join("src", "factories"),
	filepath.Join("src", "components"),
	"templates",
}

// sourceExtensions are the file types the component parser understands.
var sourceExtensions = map[string]bool{
	".ts":     true,
	".tsx":    true,
	".js":     true,
	".jsx":    true,
	".vue":    true,
	".svelte": true,
}

// Discoverer finds candidate component files under a workspace root.
type Discoverer struct {
	root  string
	rules SyncRules
}

// NewDiscoverer creates a Discoverer for the workspace at root, loading
// the project's sync rules if present.
func NewDiscoverer(root string) (*Discoverer, error) {
	rules, err := LoadRules(root)
	if err != nil {
		return nil, err
	}
	return &Discoverer{root: root, rules: rules}, nil
}

// Root returns the workspace root this Discoverer scans.
func (d *Discoverer) Root() string {
	return d.root
}

// All returns every source file under the default component directories
// plus any extra include directories from the sync rules. Missing
// directories are skipped. Results are sorted workspace-relative paths.
func (d *Discoverer) All() ([]string, error) {
	roots := append([]string{}, defaultRoots...)
	for _, inc := range d.rules.Include {
		roots = append(roots, filepath.FromSlash(inc))
	}

	seen := make(map[string]bool)
	var files []string

	for _, rel := range roots {
		dir := filepath.Join(d.root, rel)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}

		err := filepath.WalkDir(dir, func(p string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() {
				return nil
			}

			relPath, relErr := filepath.Rel(d.root, p)
			if relErr != nil {
				return relErr
			}
			if !d.eligible(relPath) || seen[relPath] {
				return nil
			}
			seen[relPath] = true
			files = append(files, relPath)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

// Patterns resolves explicit command-line arguments. Each argument is
// tried as a glob pattern relative to the root; an argument without glob
// metacharacters that matches nothing is then looked up as a component
// name across the default directories.
func (d *Discoverer) Patterns(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(rel string) {
		if d.eligible(rel) && !seen[rel] {
			seen[rel] = true
			files = append(files, rel)
		}
	}

	var byName []string
	for _, arg := range args {
		matches, err := filepath.Glob(filepath.Join(d.root, filepath.FromSlash(arg)))
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 && !strings.ContainsAny(arg, "*?[") {
			byName = append(byName, arg)
			continue
		}
		for _, m := range matches {
			rel, err := filepath.Rel(d.root, m)
			if err != nil {
				return nil, err
			}
			add(rel)
		}
	}

	if len(byName) > 0 {
		all, err := d.All()
		if err != nil {
			return nil, err
		}
		for _, rel := range all {
			base := filepath.Base(rel)
			name := strings.TrimSuffix(base, filepath.Ext(base))
			for _, want := range byName {
				if base == want || name == want {
					add(rel)
				}
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// Changed returns source files reported changed by the provider. An
// unavailable provider yields an empty set: no repository means nothing
// is "changed".
func (d *Discoverer) Changed(ctx context.Context, provider ChangeSetProvider) ([]string, error) {
	if provider == nil || !provider.Available() {
		return nil, nil
	}

	changed, err := provider.ChangedFiles(ctx)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, rel := range changed {
		if d.eligible(rel) {
			files = append(files, rel)
		}
	}

	sort.Strings(files)
	return files, nil
}

// Abs converts a workspace-relative discovery result to an absolute path.
func (d *Discoverer) Abs(rel string) string {
	return filepath.Join(d.root, rel)
}

// Roots returns the absolute component directories a full scan covers:
// the defaults plus the sync rules' extra includes. Used by watch mode
// to seed its file watcher.
func (d *Discoverer) Roots() []string {
	rels := append([]string{}, defaultRoots...)
	for _, inc := range d.rules.Include {
		rels = append(rels, filepath.FromSlash(inc))
	}

	roots := make([]string, 0, len(rels))
	for _, rel := range rels {
		roots = append(roots, filepath.Join(d.root, rel))
	}
	return roots
}

// EligibleAbs reports whether an absolute path is a source file the
// sync rules do not exclude. Paths outside the workspace are never
// eligible.
func (d *Discoverer) EligibleAbs(abs string) bool {
	rel, err := filepath.Rel(d.root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	return d.eligible(rel)
}

// eligible reports whether a relative path is a source file that the
// sync rules do not exclude.
func (d *Discoverer) eligible(rel string) bool {
	if !sourceExtensions[strings.ToLower(filepath.Ext(rel))] {
		return false
	}
	return !d.ignored(rel)
}

// ignored matches the rel path against the rules' ignore globs.
func (d *Discoverer) ignored(rel string) bool {
	slash := filepath.ToSlash(rel)
	base := path.Base(slash)

	for _, pattern := range d.rules.Ignore {
		if ok, _ := path.Match(pattern, slash); ok {
			return true
		}
		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
		// "**/x/**" style: treat a bare directory segment as a match too.
		if segment := strings.Trim(pattern, "*/"); segment != "" &&
			strings.Contains(pattern, "**") &&
			strings.Contains("/"+slash+"/", "/"+segment+"/") {
			return true
		}
	}
	return false
}

// FilterSince keeps only the files whose mtime is at or after cutoff.
// Paths must be workspace-relative; unreadable files are dropped.
func (d *Discoverer) FilterSince(files []string, cutoff time.Time) []string {
	var out []string
	for _, rel := range files {
		info, err := os.Stat(d.Abs(rel))
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			out = append(out, rel)
		}
	}
	return out
}
