package component

import (
	"path/filepath"
	"strings"
)

// ClassifyType determines the component type from its path.
//
// Rules are checked in fixed priority order and the first match wins:
// a "factories" path segment beats a ".config." filename, so a config
// file living under factories/ classifies as a factory.
func ClassifyType(path string) Type {
	norm := filepath.ToSlash(path)
	base := filepath.Base(norm)

	switch {
	case strings.Contains(norm, "factories/"):
		return TypeFactory
	case strings.Contains(norm, "templates/"):
		return TypeTemplate
	case strings.Contains(base, ".config."):
		return TypeConfig
	default:
		return TypeComponent
	}
}

// ClassifyFramework determines the framework from the file extension and
// content signatures.
//
// Extension detection for .vue/.svelte always wins. For script files,
// content signatures (Angular import scope, React imports) take precedence
// over the final .tsx/.jsx extension fallback. Checks short-circuit in
// order, so no tie-breaking is needed.
func ClassifyFramework(path, code string) Framework {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vue":
		return FrameworkVue
	case ".svelte":
		return FrameworkSvelte
	}

	switch {
	case strings.Contains(code, "@angular/"):
		return FrameworkAngular
	case strings.Contains(code, "import React"),
		strings.Contains(code, `from "react"`),
		strings.Contains(code, "from 'react'"):
		return FrameworkReact
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsx", ".jsx":
		return FrameworkReact
	}

	return FrameworkUnknown
}
