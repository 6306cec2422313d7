package syncer

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/siliconyouth/revolutionary-ui/internal/cloud"
	"github.com/siliconyouth/revolutionary-ui/internal/component"
)

const reactButton = `/**
 * @description A button
 * @tags ui, button
 */
import React from 'react';
export const Button = () => null;
`

func newTestPusher(t *testing.T, root string, client cloud.Client) *Pusher {
	t.Helper()

	p := NewPusher(client, newDiscoverer(t, root), nil, quietLogger())
	p.Out = io.Discard
	return p
}

func TestPushAll(t *testing.T) {
	root := t.TempDir()
	writeComponent(t, root, filepath.Join("src", "components", "Button.tsx"), reactButton)
	writeComponent(t, root, filepath.Join("src", "factories", "TableFactory.tsx"), reactButton)

	m := connectedMemory(t)
	pusher := newTestPusher(t, root, m)

	results, err := pusher.Run(context.Background(), PushOptions{All: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for _, r := range results {
		if r.Status != StatusSuccess {
			t.Errorf("%s status = %v, want success", r.Name, r.Status)
		}
	}
	if m.Len() != 2 {
		t.Errorf("store has %d components, want 2", m.Len())
	}
}

func TestPushConflictFailFast(t *testing.T) {
	root := t.TempDir()
	writeComponent(t, root, filepath.Join("src", "components", "Button.tsx"), reactButton)

	m := connectedMemory(t)
	m.Status = cloud.SyncStatus{
		Conflicts: []cloud.Conflict{
			{ComponentID: "comp-9", ComponentName: "Button", Type: cloud.ConflictBothModified},
		},
	}

	pusher := newTestPusher(t, root, m)
	_, err := pusher.Run(context.Background(), PushOptions{All: true})
	if !errors.Is(err, ErrConflictsDetected) {
		t.Fatalf("err = %v, want ErrConflictsDetected", err)
	}

	// Fail-fast means zero uploads.
	if m.PushCalls != 0 || m.UpdateCalls != 0 {
		t.Errorf("uploads happened despite conflict: push=%d update=%d", m.PushCalls, m.UpdateCalls)
	}
}

func TestPushForceSkipsConflictCheck(t *testing.T) {
	root := t.TempDir()
	writeComponent(t, root, filepath.Join("src", "components", "Button.tsx"), reactButton)

	m := connectedMemory(t)
	m.Status = cloud.SyncStatus{
		Conflicts: []cloud.Conflict{{ComponentName: "Button"}},
	}

	pusher := newTestPusher(t, root, m)
	results, err := pusher.Run(context.Background(), PushOptions{All: true, Force: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if m.StatusCalls != 0 {
		t.Errorf("conflict check ran under --force (%d status calls)", m.StatusCalls)
	}
	if len(results) != 1 || results[0].Status != StatusSuccess {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestPushDryRun(t *testing.T) {
	root := t.TempDir()
	writeComponent(t, root, filepath.Join("src", "components", "Button.tsx"), reactButton)

	m := connectedMemory(t)
	pusher := newTestPusher(t, root, m)

	results, err := pusher.Run(context.Background(), PushOptions{All: true, DryRun: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(results) != 0 {
		t.Errorf("dry run produced %d results, want 0", len(results))
	}
	// Remote store state must be unchanged: no lookups, no uploads.
	if m.PushCalls != 0 || m.UpdateCalls != 0 || m.ListCalls != 0 || m.StatusCalls != 0 {
		t.Errorf("dry run touched the store: %+v", m)
	}
	if m.Len() != 0 {
		t.Errorf("dry run stored components")
	}
}

func TestPushPerItemFailureIsolation(t *testing.T) {
	root := t.TempDir()
	writeComponent(t, root, filepath.Join("src", "components", "Alpha.tsx"), reactButton)
	writeComponent(t, root, filepath.Join("src", "components", "Beta.tsx"), reactButton)
	writeComponent(t, root, filepath.Join("src", "components", "Gamma.tsx"), reactButton)

	m := connectedMemory(t)
	m.PushErr = func(c *component.Component) error {
		if c.Name == "Beta" {
			return errors.New("upload rejected")
		}
		return nil
	}

	pusher := newTestPusher(t, root, m)
	results, err := pusher.Run(context.Background(), PushOptions{All: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	byName := make(map[string]ItemResult)
	for _, r := range results {
		byName[r.Name] = r
	}
	if byName["Alpha"].Status != StatusSuccess {
		t.Errorf("Alpha status = %v, want success", byName["Alpha"].Status)
	}
	if byName["Beta"].Status != StatusError {
		t.Errorf("Beta status = %v, want error", byName["Beta"].Status)
	}
	if byName["Beta"].Err == "" {
		t.Error("Beta result is missing the error message")
	}
	if byName["Gamma"].Status != StatusSuccess {
		t.Errorf("Gamma status = %v, want success", byName["Gamma"].Status)
	}
}

func TestPushUpdatesExisting(t *testing.T) {
	root := t.TempDir()
	writeComponent(t, root, filepath.Join("src", "components", "Button.tsx"), reactButton)

	m := connectedMemory(t)
	m.Seed(remoteComponent("Button", component.TypeComponent, component.FrameworkReact, "old code"))

	pusher := newTestPusher(t, root, m)
	results, err := pusher.Run(context.Background(), PushOptions{All: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(results) != 1 || results[0].Status != StatusSuccess {
		t.Fatalf("unexpected results: %+v", results)
	}
	if m.PushCalls != 0 {
		t.Errorf("created a new component instead of updating (%d push calls)", m.PushCalls)
	}
	if m.UpdateCalls != 1 {
		t.Errorf("update calls = %d, want 1", m.UpdateCalls)
	}
	if m.Len() != 1 {
		t.Errorf("store has %d components, want 1", m.Len())
	}
}

func TestPushProjectDefaults(t *testing.T) {
	root := t.TempDir()
	// Plain .ts with no framework signatures classifies as Unknown and
	// carries no author annotation.
	writeComponent(t, root, filepath.Join("src", "components", "Helpers.ts"),
		"export const add = (a, b) => a + b;\n")
	writeComponent(t, root, filepath.Join("src", "components", "Button.tsx"), `/**
 * @author jane@example.com
 */
import React from 'react';
export const Button = () => null;
`)

	m := connectedMemory(t)
	pusher := newTestPusher(t, root, m)

	results, err := pusher.Run(context.Background(), PushOptions{
		All:              true,
		DefaultAuthor:    "design-systems",
		DefaultFramework: component.FrameworkReact,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	stored, err := m.ListComponents(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListComponents failed: %v", err)
	}
	byName := make(map[string]*component.Component)
	for _, c := range stored {
		byName[c.Name] = c
	}

	helpers := byName["Helpers"]
	if helpers == nil {
		t.Fatal("Helpers was not pushed")
	}
	if helpers.Metadata.Author != "design-systems" {
		t.Errorf("Helpers author = %q, want the manifest default", helpers.Metadata.Author)
	}
	if helpers.Framework != component.FrameworkReact {
		t.Errorf("Helpers framework = %v, want the manifest default", helpers.Framework)
	}

	// An explicit annotation always wins over the manifest.
	button := byName["Button"]
	if button == nil {
		t.Fatal("Button was not pushed")
	}
	if button.Metadata.Author != "jane@example.com" {
		t.Errorf("Button author = %q, want jane@example.com", button.Metadata.Author)
	}
}

func TestPushFilters(t *testing.T) {
	root := t.TempDir()
	writeComponent(t, root, filepath.Join("src", "components", "Button.tsx"), reactButton)
	writeComponent(t, root, filepath.Join("src", "factories", "TableFactory.tsx"), reactButton)

	m := connectedMemory(t)
	pusher := newTestPusher(t, root, m)

	results, err := pusher.Run(context.Background(), PushOptions{
		All:  true,
		Type: component.TypeFactory,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 1 || results[0].Name != "TableFactory" {
		t.Errorf("type filter results = %+v, want only TableFactory", results)
	}

	m2 := connectedMemory(t)
	pusher2 := newTestPusher(t, root, m2)

	results, err = pusher2.Run(context.Background(), PushOptions{
		All:        true,
		FilterTags: []string{"button", "nonexistent"},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	// Tag dimension is OR: matching "button" alone is enough.
	if len(results) != 2 {
		t.Errorf("tag filter matched %d, want 2 (both files carry the button tag)", len(results))
	}
}

func TestPushSkipsUnparseable(t *testing.T) {
	root := t.TempDir()
	writeComponent(t, root, filepath.Join("src", "components", "Button.tsx"), reactButton)
	// Binary content under a source extension: silently excluded.
	writeComponent(t, root, filepath.Join("src", "components", "Broken.tsx"), "\xff\xfe\x00bad")

	m := connectedMemory(t)
	pusher := newTestPusher(t, root, m)

	results, err := pusher.Run(context.Background(), PushOptions{All: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 1 || results[0].Name != "Button" {
		t.Errorf("results = %+v, want only Button", results)
	}
}
