package component

import (
	"path/filepath"
	"strings"
)

// ConfigDir is the project-local directory for CLI state and pulled
// config-type components.
const ConfigDir = ".revolutionary-ui"

// LocalPath computes the deterministic workspace path a component is
// written to when pulled. The same component always maps to the same
// path: base directory by type, a lower-cased framework subdirectory for
// components and factories, and an extension chosen by framework.
func LocalPath(c *Component) string {
	var base string
	switch c.Type {
	case TypeFactory:
		base = filepath.Join("src", "factories")
	case TypeTemplate:
		base = "templates"
	case TypeConfig:
		base = ConfigDir
	default:
		base = filepath.Join("src", "components")
	}

	if c.Type == TypeComponent || c.Type == TypeFactory {
		base = filepath.Join(base, strings.ToLower(string(c.Framework)))
	}

	return filepath.Join(base, c.Name+"."+extensionFor(c))
}

// extensionFor picks the file extension for a pulled component. For
// React-like code a TypeScript heuristic selects tsx over jsx.
func extensionFor(c *Component) string {
	switch c.Framework {
	case FrameworkVue:
		return "vue"
	case FrameworkSvelte:
		return "svelte"
	case FrameworkAngular:
		return "ts"
	}

	if strings.Contains(c.Code, "interface") ||
		strings.Contains(c.Code, "type ") ||
		strings.Contains(c.Code, ": React.FC") {
		return "tsx"
	}
	return "jsx"
}
