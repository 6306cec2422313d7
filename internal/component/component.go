// Package component defines the syncable component record and the parser
// that builds one from a local source file.
//
// A component is a named unit of source code tracked by the cloud store:
// the full file content, a SHA-256 checksum, and lightweight metadata
// extracted from a leading doc comment and import statements. Components
// are value objects; they carry no connection or session state.
package component

import (
	"fmt"
	"time"
)

// Type classifies what kind of unit a component is, derived from its path.
type Type string

const (
	TypeFactory   Type = "factory"
	TypeComponent Type = "component"
	TypeTemplate  Type = "template"
	TypeConfig    Type = "config"
)

// Valid reports whether t is one of the known component types.
func (t Type) Valid() bool {
	switch t {
	case TypeFactory, TypeComponent, TypeTemplate, TypeConfig:
		return true
	}
	return false
}

// String returns the string representation of the type.
func (t Type) String() string {
	return string(t)
}

// Framework identifies the UI framework a component targets.
type Framework string

const (
	FrameworkReact   Framework = "React"
	FrameworkVue     Framework = "Vue"
	FrameworkAngular Framework = "Angular"
	FrameworkSvelte  Framework = "Svelte"
	FrameworkUnknown Framework = "Unknown"
)

// Valid reports whether f is one of the known frameworks.
func (f Framework) Valid() bool {
	switch f {
	case FrameworkReact, FrameworkVue, FrameworkAngular, FrameworkSvelte, FrameworkUnknown:
		return true
	}
	return false
}

// String returns the string representation of the framework.
func (f Framework) String() string {
	return string(f)
}

// InitialVersion is assigned to every component at creation time.
// Version advancement happens server-side; the CLI never bumps versions.
const InitialVersion = "1.0.0"

// Component is a unit of syncable content.
//
// The wire format uses camelCase keys to stay compatible with the cloud
// store's JSON API.
type Component struct {
	// ID is the server-assigned identifier. Empty before first push.
	ID string `json:"id"`

	// Name is derived from the file basename with the extension stripped.
	Name string `json:"name"`

	// Description comes from the @description metadata tag, or a generated
	// "{framework} {type}" default when the tag is absent.
	Description string `json:"description"`

	Type      Type      `json:"type"`
	Framework Framework `json:"framework"`

	Version string `json:"version"`

	// Code is the full file content, verbatim.
	Code string `json:"code"`

	Metadata Metadata `json:"metadata"`

	// Checksum is the SHA-256 hex digest of Code. Two components with
	// identical code have identical checksums.
	Checksum string `json:"checksum"`
}

// Metadata carries authorship, classification, and size information
// extracted locally at parse time.
type Metadata struct {
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Tags      []string  `json:"tags,omitempty"`

	// Dependencies maps imported package names to version constraints.
	// Locally this is a name-only list with placeholder version "*";
	// true resolved versions are not computed by the CLI.
	Dependencies map[string]string `json:"dependencies,omitempty"`

	Stats Stats `json:"stats"`
}

// Stats holds size metrics. CodeReduction is always 0 locally; the
// server computes it against generated baselines.
type Stats struct {
	LinesOfCode   int `json:"linesOfCode"`
	CodeReduction int `json:"codeReduction"`
}

// Validate checks that the component has the fields every push requires.
func (c *Component) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !c.Type.Valid() {
		return fmt.Errorf("invalid component type %q", c.Type)
	}
	if !c.Framework.Valid() {
		return fmt.Errorf("invalid framework %q", c.Framework)
	}
	if c.Checksum == "" {
		return fmt.Errorf("checksum is required")
	}
	return nil
}

// HasTag reports whether the component carries the given tag.
func (c *Component) HasTag(tag string) bool {
	for _, t := range c.Metadata.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
