package syncer

import (
	"fmt"
	"io"
	"strings"
)

// DiffKind classifies one line of a positional diff.
type DiffKind string

const (
	DiffAdded   DiffKind = "added"
	DiffRemoved DiffKind = "removed"
	DiffChanged DiffKind = "changed"
)

// DiffLine is one differing line in a positional comparison.
type DiffLine struct {
	// Index is the 1-based line number.
	Index int
	Kind  DiffKind

	Local  string
	Remote string
}

// PositionalDiff compares two texts line by line at matching indexes.
//
// This is deliberately not a minimal edit script: a single inserted line
// shifts every following line into a "changed" report. It is a cheap
// low-fidelity view for eyeballing which side of a collision to keep,
// not a merge tool.
func PositionalDiff(local, remote string) []DiffLine {
	localLines := splitLines(local)
	remoteLines := splitLines(remote)

	n := len(localLines)
	if len(remoteLines) > n {
		n = len(remoteLines)
	}

	var out []DiffLine
	for i := 0; i < n; i++ {
		switch {
		case i >= len(localLines):
			out = append(out, DiffLine{Index: i + 1, Kind: DiffAdded, Remote: remoteLines[i]})
		case i >= len(remoteLines):
			out = append(out, DiffLine{Index: i + 1, Kind: DiffRemoved, Local: localLines[i]})
		case localLines[i] != remoteLines[i]:
			out = append(out, DiffLine{Index: i + 1, Kind: DiffChanged,
				Local: localLines[i], Remote: remoteLines[i]})
		}
	}
	return out
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// WriteDiff renders a positional diff in the three-column form the pull
// and sync prompts show.
func WriteDiff(w io.Writer, lines []DiffLine) {
	if len(lines) == 0 {
		fmt.Fprintln(w, "  (contents identical)")
		return
	}

	for _, l := range lines {
		switch l.Kind {
		case DiffAdded:
			fmt.Fprintf(w, "  %4d + %s\n", l.Index, l.Remote)
		case DiffRemoved:
			fmt.Fprintf(w, "  %4d - %s\n", l.Index, l.Local)
		case DiffChanged:
			fmt.Fprintf(w, "  %4d - %s\n", l.Index, l.Local)
			fmt.Fprintf(w, "  %4d + %s\n", l.Index, l.Remote)
		}
	}
}
