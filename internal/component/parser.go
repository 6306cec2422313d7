package component

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Metadata tag patterns, matched line by line inside the leading block
// comment. Tags outside the first /** ... */ block are ignored.
var (
	descriptionRe = regexp.MustCompile(`@description\s+(.+)`)
	authorRe      = regexp.MustCompile(`@author\s+(.+)`)
	tagsRe        = regexp.MustCompile(`@tags\s+(.+)`)

	// importRe matches both `import x from 'pkg'` and `import 'pkg'` forms.
	importRe = regexp.MustCompile(`import\s+(?:[^'"]*?\s+from\s+)?['"]([^'"]+)['"]`)

	blockCommentRe = regexp.MustCompile(`(?s)^\s*/\*\*(.*?)\*/`)
)

// Parse reads a local source file and builds a Component candidate.
//
// The file must be readable UTF-8 text. Read failures and binary content
// return an error; callers treat that as "not parseable" and omit the file
// from the candidate set rather than surfacing it to the user.
func Parse(path string) (*Component, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%s is not valid UTF-8 text", path)
	}
	code := string(data)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	typ := ClassifyType(path)
	fw := ClassifyFramework(path, code)

	sum := sha256.Sum256(data)

	meta := parseMetaBlock(code)
	c := &Component{
		Name:        name,
		Description: meta.description,
		Type:        typ,
		Framework:   fw,
		Version:     InitialVersion,
		Code:        code,
		Checksum:    hex.EncodeToString(sum[:]),
		Metadata: Metadata{
			Author: meta.author,
			// The filesystem has no portable birth time, so the mod time
			// stands in for both; the server keeps the authoritative
			// creation time after first push.
			CreatedAt:    info.ModTime().UTC(),
			UpdatedAt:    info.ModTime().UTC(),
			Tags:         meta.tags,
			Dependencies: parseDependencies(code),
			Stats: Stats{
				LinesOfCode: countLines(code),
			},
		},
	}

	if c.Description == "" {
		c.Description = fmt.Sprintf("%s %s", fw, typ)
	}

	return c, nil
}

type metaBlock struct {
	description string
	author      string
	tags        []string
}

// parseMetaBlock scans the leading /** ... */ comment for metadata tags.
func parseMetaBlock(code string) metaBlock {
	var m metaBlock

	match := blockCommentRe.FindStringSubmatch(code)
	if match == nil {
		return m
	}

	for _, line := range strings.Split(match[1], "\n") {
		if sub := descriptionRe.FindStringSubmatch(line); sub != nil {
			m.description = strings.TrimSpace(sub[1])
		}
		if sub := authorRe.FindStringSubmatch(line); sub != nil {
			m.author = strings.TrimSpace(sub[1])
		}
		if sub := tagsRe.FindStringSubmatch(line); sub != nil {
			for _, tag := range strings.Split(sub[1], ",") {
				tag = strings.TrimSpace(tag)
				if tag != "" {
					m.tags = append(m.tags, tag)
				}
			}
		}
	}

	return m
}

// parseDependencies records every external import with a placeholder "*"
// version. Relative imports and the "@/" project alias are skipped. This
// is a name-only dependency list, not a resolved version set.
func parseDependencies(code string) map[string]string {
	deps := make(map[string]string)

	for _, match := range importRe.FindAllStringSubmatch(code, -1) {
		pkg := match[1]
		if strings.HasPrefix(pkg, ".") || strings.HasPrefix(pkg, "@/") {
			continue
		}
		deps[pkg] = "*"
	}

	if len(deps) == 0 {
		return nil
	}
	return deps
}

func countLines(code string) int {
	if code == "" {
		return 0
	}
	n := strings.Count(code, "\n")
	if !strings.HasSuffix(code, "\n") {
		n++
	}
	return n
}
