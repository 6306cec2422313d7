package workspace

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// initRepo creates an empty git repository in a temp dir. Tests that
// need the real git binary skip when it is not installed.
func initRepo(t *testing.T) string {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	root := t.TempDir()
	cmd := exec.Command("git", "init", "-q")
	cmd.Dir = root
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git init failed: %v\n%s", err, out)
	}
	return root
}

func TestGitChangesNotARepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	g := NewGitChanges(t.TempDir())
	if g.Available() {
		t.Error("Available() = true outside a work tree")
	}
}

func TestGitChangesBeforeFirstCommit(t *testing.T) {
	root := initRepo(t)

	p := filepath.Join(root, "src", "components", "Button.tsx")
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(p, []byte("export default {};\n"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	g := NewGitChanges(root)
	if !g.Available() {
		t.Fatal("Available() = false inside a work tree")
	}

	// HEAD does not resolve until the first commit; the diff failure
	// degrades to an empty set instead of surfacing as an error.
	files, err := g.ChangedFiles(context.Background())
	if err != nil {
		t.Fatalf("ChangedFiles failed: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("got %v, want empty set before the first commit", files)
	}
}
