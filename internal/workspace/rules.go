package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/siliconyouth/revolutionary-ui/internal/component"
)

// SyncRules are optional per-project discovery overrides, read from
// .revolutionary-ui/sync.yaml at the workspace root.
//
//	include:
//	  - "lib/widgets"
//	ignore:
//	  - "*.stories.tsx"
//	  - "**/__tests__/**"
type SyncRules struct {
	// Include lists extra directories (relative to the root) scanned in
	// addition to the default component directories.
	Include []string `yaml:"include"`

	// Ignore lists glob patterns excluded from every discovery pass.
	// Patterns match against the slash-form relative path and against
	// the base filename.
	Ignore []string `yaml:"ignore"`
}

// RulesFile is the workspace-relative location of the sync rules file.
var RulesFile = filepath.Join(component.ConfigDir, "sync.yaml")

// LoadRules reads the sync rules for a workspace. A missing file yields
// empty rules, not an error; a malformed file is an error since silently
// ignoring it would discover files the user asked to exclude.
func LoadRules(root string) (SyncRules, error) {
	var rules SyncRules

	data, err := os.ReadFile(filepath.Join(root, RulesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return rules, nil
		}
		return rules, fmt.Errorf("failed to read sync rules: %w", err)
	}

	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("failed to parse %s: %w", RulesFile, err)
	}

	return rules, nil
}
