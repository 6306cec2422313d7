package syncer

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/siliconyouth/revolutionary-ui/internal/cloud"
	"github.com/siliconyouth/revolutionary-ui/internal/component"
	"github.com/siliconyouth/revolutionary-ui/internal/workspace"
)

// quietLogger discards engine log output in tests.
func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// connectedMemory returns a Memory client with an open session.
func connectedMemory(t *testing.T) *cloud.Memory {
	t.Helper()

	m := cloud.NewMemory()
	if err := m.Connect(context.Background()); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	return m
}

// writeComponent creates a source file under root and returns its
// workspace-relative path.
func writeComponent(t *testing.T, root, rel, content string) string {
	t.Helper()

	p := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	return rel
}

// newDiscoverer builds a Discoverer or fails the test.
func newDiscoverer(t *testing.T, root string) *workspace.Discoverer {
	t.Helper()

	d, err := workspace.NewDiscoverer(root)
	if err != nil {
		t.Fatalf("NewDiscoverer failed: %v", err)
	}
	return d
}

// remoteComponent seeds the store with a minimal valid component.
func remoteComponent(name string, typ component.Type, fw component.Framework, code string) *component.Component {
	return &component.Component{
		Name:      name,
		Type:      typ,
		Framework: fw,
		Version:   component.InitialVersion,
		Code:      code,
		Checksum:  "checksum-" + name,
	}
}

// fakePrompter returns canned answers and records how often it was
// asked. Zero value answers everything with the first option.
type fakePrompter struct {
	selected        []string
	collision       CollisionChoice
	fileChoices     []FileChoice
	conflictChoices []ConflictChoice

	selectCalls    int
	collisionCalls int
	fileCalls      int
	conflictCalls  int

	err error
}

func (f *fakePrompter) SelectComponents(names []string) ([]string, error) {
	f.selectCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.selected, nil
}

func (f *fakePrompter) CollisionPolicy(count int) (CollisionChoice, error) {
	f.collisionCalls++
	if f.err != nil {
		return 0, f.err
	}
	return f.collision, nil
}

func (f *fakePrompter) FileAction(name string) (FileChoice, error) {
	f.fileCalls++
	if f.err != nil {
		return 0, f.err
	}
	if len(f.fileChoices) == 0 {
		return FileOverwrite, nil
	}
	choice := f.fileChoices[0]
	if len(f.fileChoices) > 1 {
		f.fileChoices = f.fileChoices[1:]
	}
	return choice, nil
}

func (f *fakePrompter) ConflictAction(name, local, remote string) (ConflictChoice, error) {
	f.conflictCalls++
	if f.err != nil {
		return 0, f.err
	}
	if len(f.conflictChoices) == 0 {
		return ConflictKeepLocal, nil
	}
	choice := f.conflictChoices[0]
	if len(f.conflictChoices) > 1 {
		f.conflictChoices = f.conflictChoices[1:]
	}
	return choice, nil
}

// failNever is a prompter that fails the test if any prompt fires.
type failNever struct {
	t *testing.T
}

func (f failNever) SelectComponents([]string) ([]string, error) {
	f.t.Fatal("unexpected SelectComponents prompt")
	return nil, nil
}

func (f failNever) CollisionPolicy(int) (CollisionChoice, error) {
	f.t.Fatal("unexpected CollisionPolicy prompt")
	return 0, nil
}

func (f failNever) FileAction(string) (FileChoice, error) {
	f.t.Fatal("unexpected FileAction prompt")
	return 0, nil
}

func (f failNever) ConflictAction(string, string, string) (ConflictChoice, error) {
	f.t.Fatal("unexpected ConflictAction prompt")
	return 0, nil
}
