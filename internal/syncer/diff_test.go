package syncer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPositionalDiff(t *testing.T) {
	tests := []struct {
		name   string
		local  string
		remote string
		want   []DiffLine
	}{
		{
			name:   "identical",
			local:  "a\nb\n",
			remote: "a\nb\n",
			want:   nil,
		},
		{
			name:   "changed line",
			local:  "a\nb\nc\n",
			remote: "a\nX\nc\n",
			want: []DiffLine{
				{Index: 2, Kind: DiffChanged, Local: "b", Remote: "X"},
			},
		},
		{
			name:   "remote has extra lines",
			local:  "a\n",
			remote: "a\nb\nc\n",
			want: []DiffLine{
				{Index: 2, Kind: DiffAdded, Remote: "b"},
				{Index: 3, Kind: DiffAdded, Remote: "c"},
			},
		},
		{
			name:   "local has extra lines",
			local:  "a\nb\n",
			remote: "a\n",
			want: []DiffLine{
				{Index: 2, Kind: DiffRemoved, Local: "b"},
			},
		},
		{
			name:   "both empty",
			local:  "",
			remote: "",
			want:   nil,
		},
		{
			name:   "trailing newline is not a line",
			local:  "a",
			remote: "a\n",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PositionalDiff(tt.local, tt.remote)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("PositionalDiff mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWriteDiff(t *testing.T) {
	var b strings.Builder
	WriteDiff(&b, []DiffLine{
		{Index: 1, Kind: DiffChanged, Local: "old", Remote: "new"},
		{Index: 2, Kind: DiffAdded, Remote: "extra"},
	})

	out := b.String()
	for _, want := range []string{"- old", "+ new", "+ extra"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteDiffIdentical(t *testing.T) {
	var b strings.Builder
	WriteDiff(&b, nil)
	if !strings.Contains(b.String(), "identical") {
		t.Errorf("expected identical notice, got %q", b.String())
	}
}
