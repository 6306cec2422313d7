package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/siliconyouth/revolutionary-ui/internal/component"
)

// Project is the per-workspace manifest stored at
// .revolutionary-ui/project.toml. It names the project and records the
// defaults push applies when a source file carries no annotations.
type Project struct {
	Name string `toml:"name"`

	// Framework is the workspace default used when classification
	// cannot determine one from the file itself.
	Framework string `toml:"framework"`

	// Author is stamped into pushed component metadata when the source
	// file has no @author annotation.
	Author string `toml:"author"`
}

// ProjectFile is the manifest path relative to the workspace root.
var ProjectFile = filepath.Join(component.ConfigDir, "project.toml")

// LoadProject reads the workspace manifest. A missing manifest returns
// an empty Project; a malformed one is an error.
func LoadProject(root string) (*Project, error) {
	var p Project
	path := filepath.Join(root, ProjectFile)
	if _, err := toml.DecodeFile(path, &p); err != nil {
		if os.IsNotExist(err) {
			return &Project{}, nil
		}
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectFile, err)
	}
	return &p, nil
}

// SaveProject writes the manifest, creating .revolutionary-ui if
// needed.
func SaveProject(root string, p *Project) error {
	path := filepath.Join(root, ProjectFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", ProjectFile, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(p); err != nil {
		return fmt.Errorf("failed to encode %s: %w", ProjectFile, err)
	}
	return nil
}
